package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"cinesage/config"
	"cinesage/models"
)

// CompletionClient is the external completion capability the generator
// drives. Both paths share the same instruction construction.
type CompletionClient interface {
	Complete(ctx context.Context, systemInstruction, userText string) (string, error)
	CompleteStream(ctx context.Context, systemInstruction, userText string) (<-chan string, error)
}

// Service generates suggestion candidates from a free-text prompt via the
// external model, parses the loosely structured reply, and degrades to a
// fixed well-known list when the upstream fails.
type Service struct {
	client CompletionClient
	mode   string
}

func NewService(client CompletionClient, mode string) *Service {
	if strings.TrimSpace(mode) == "" {
		mode = config.GeneratorModeLLM
	}
	return &Service{client: client, mode: mode}
}

const systemInstruction = `You are an expert movie and series recommendation AI with deep knowledge of cinema from all eras and cultures.

INSTRUCTIONS:
1. Detect the language of the user's input and reply in that same language.
2. Decide whether the input is a conversational message (a greeting, a question about you, small talk) or a content request.
3. For a conversational message, return a JSON array with exactly one object: {"title": "Chat", "reason": "<your natural-language reply>", "content_type": "chat"}.
4. For a content request, suggest 3-4 movies or series that closely match the preferences. Use exact, real titles and give a compelling 2-3 sentence explanation for each.
5. If the user asks specifically for series (or movies), recommend only that content type.

OUTPUT FORMAT:
Return exactly a JSON array of {"title": "...", "reason": "..."} objects.

IMPORTANT: Only return the JSON array, no additional text or formatting.`

// Generate produces suggestions for the prompt. Upstream transport or API
// failures are converted into the fixed fallback list so callers that do not
// inspect the error still get usable output; the error is returned alongside
// so the orchestrator can prefer its next tier.
func (s *Service) Generate(ctx context.Context, prompt string) ([]models.Suggestion, error) {
	if s.mode == config.GeneratorModeDisabled || s.client == nil {
		return nil, nil
	}

	raw, err := s.client.Complete(ctx, systemInstruction, prompt)
	if err != nil {
		log.Printf("[generator] completion failed, using fallback titles: %v", err)
		return FallbackSuggestions(prompt), err
	}

	candidates := ParseSuggestions(raw)
	if len(candidates) == 0 {
		log.Printf("[generator] no candidates parsed from %d bytes of output", len(raw))
		return nil, nil
	}

	return toSuggestions(candidates), nil
}

// GenerateStream yields raw completion fragments in arrival order. The
// caller buffers the fragments and runs ParseSuggestions over their
// concatenation. If stream setup fails, the channel yields a single
// fragment containing the serialized fallback list instead of erroring.
func (s *Service) GenerateStream(ctx context.Context, prompt string) <-chan string {
	if s.mode == config.GeneratorModeDisabled || s.client == nil {
		return fallbackStream(prompt)
	}

	stream, err := s.client.CompleteStream(ctx, systemInstruction, prompt)
	if err != nil {
		log.Printf("[generator] stream setup failed, serving fallback: %v", err)
		return fallbackStream(prompt)
	}
	return stream
}

func fallbackStream(prompt string) <-chan string {
	out := make(chan string, 1)
	data, err := json.Marshal(fallbackCandidates(prompt))
	if err != nil {
		data = []byte("[]")
	}
	out <- string(data)
	close(out)
	return out
}

// FallbackSuggestions is the generator's terminal fallback: three broadly
// appealing titles with reasons referencing the user's original prompt.
func FallbackSuggestions(prompt string) []models.Suggestion {
	return toSuggestions(fallbackCandidates(prompt))
}

func fallbackCandidates(prompt string) []Candidate {
	ref := strings.TrimSpace(prompt)
	if runes := []rune(ref); len(runes) > 80 {
		ref = string(runes[:80])
	}
	return []Candidate{
		{
			Title:  "The Shawshank Redemption",
			Reason: fmt.Sprintf("A timeless classic about hope and friendship that fits most requests, including %q.", ref),
		},
		{
			Title:  "Inception",
			Reason: fmt.Sprintf("A mind-bending thriller with complex storytelling and stunning visuals, a safe pick for %q.", ref),
		},
		{
			Title:  "Parasite",
			Reason: fmt.Sprintf("An acclaimed international film blending social commentary with thrilling storytelling, worth a watch whatever %q meant.", ref),
		},
	}
}

func toSuggestions(candidates []Candidate) []models.Suggestion {
	suggestions := make([]models.Suggestion, 0, len(candidates))
	for _, c := range candidates {
		s := models.NewSuggestion(c.Title, c.Reason)
		s.Description = "AI-powered recommendation"
		if strings.EqualFold(c.ContentType, models.ContentTypeChat) {
			s.ContentType = models.ContentTypeChat
			s.Description = ""
		}
		suggestions = append(suggestions, s)
	}
	return suggestions
}
