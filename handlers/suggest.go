package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"cinesage/models"
)

// MaxPromptLength bounds inbound prompts in characters, not bytes;
// anything longer is rejected before the suggestion pipeline runs.
const MaxPromptLength = 1500

const resolveTimeout = 60 * time.Second

type suggesterService interface {
	Resolve(ctx context.Context, prompt string) []models.Suggestion
}

type streamingGenerator interface {
	GenerateStream(ctx context.Context, prompt string) <-chan string
}

type SuggestHandler struct {
	Suggester suggesterService
	Generator streamingGenerator
}

func NewSuggestHandler(suggester suggesterService, generator streamingGenerator) *SuggestHandler {
	return &SuggestHandler{Suggester: suggester, Generator: generator}
}

// Suggest handles POST /api/suggest: validates the prompt and runs the
// resolution pipeline. Validation errors are the only failures surfaced to
// the caller; the pipeline itself always produces a suggestion list.
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	requestID := uuid.NewString()
	log.Printf("[suggest] request %s prompt=%q", requestID, truncate(req.Prompt, 50))

	ctx, cancel := context.WithTimeout(r.Context(), resolveTimeout)
	defer cancel()

	suggestions := h.Suggester.Resolve(ctx, req.Prompt)
	log.Printf("[suggest] request %s resolved %d suggestions", requestID, len(suggestions))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.SuggestResponse{Suggestions: suggestions})
}

// SuggestStream handles POST /api/suggest/stream: forwards raw generator
// fragments to the client as they arrive. The client buffers and parses.
func (h *SuggestHandler) SuggestStream(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	if h.Generator == nil {
		http.Error(w, "streaming generation not available", http.StatusServiceUnavailable)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	for fragment := range h.Generator.GenerateStream(r.Context(), req.Prompt) {
		if _, err := w.Write([]byte(fragment)); err != nil {
			return
		}
		flusher.Flush()
	}
}

func (h *SuggestHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (models.SuggestRequest, bool) {
	var req models.SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return req, false
	}

	if strings.TrimSpace(req.Prompt) == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return req, false
	}
	if utf8.RuneCountInString(req.Prompt) > MaxPromptLength {
		http.Error(w, "prompt exceeds maximum length", http.StatusBadRequest)
		return req, false
	}

	return req, true
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
