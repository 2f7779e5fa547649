package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const maxParsedCandidates = 4

// Candidate is one (title, reason) pair extracted from raw model output.
// ContentType is only set when the model explicitly marked the entry.
type Candidate struct {
	Title       string `json:"title"`
	Reason      string `json:"reason"`
	ContentType string `json:"content_type,omitempty"`
}

var lineMarkerRe = regexp.MustCompile(`(?i)^\s*(?:([1-4])\.|title:)\s*(.*)$`)

// ParseSuggestions turns loosely structured model output into candidates.
// Stage one decodes the substring between the first '[' and the last ']' as
// a JSON array, keeping objects that carry both a title and a reason key.
// If that fails or yields nothing, stage two scans lines: a numbered-list
// marker or a "Title:" prefix starts a new candidate and following lines
// accumulate into its reason. Pure function, no side effects.
func ParseSuggestions(raw string) []Candidate {
	if candidates := parseStrict(raw); len(candidates) > 0 {
		return candidates
	}
	return parseLines(raw)
}

func parseStrict(raw string) []Candidate {
	text := strings.TrimSpace(raw)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end <= start {
		return nil
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &items); err != nil {
		return nil
	}

	candidates := make([]Candidate, 0, len(items))
	for _, item := range items {
		title, hasTitle := item["title"]
		reason, hasReason := item["reason"]
		if !hasTitle || !hasReason {
			continue
		}
		c := Candidate{
			Title:  coerceString(title),
			Reason: coerceString(reason),
		}
		if ct, ok := item["content_type"]; ok {
			c.ContentType = coerceString(ct)
		}
		if c.Title == "" || c.Reason == "" {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates
}

func parseLines(raw string) []Candidate {
	var (
		candidates    []Candidate
		currentTitle  string
		reasonParts   []string
	)

	flush := func() {
		reason := strings.TrimSpace(strings.Join(reasonParts, " "))
		if currentTitle != "" && reason != "" {
			candidates = append(candidates, Candidate{Title: currentTitle, Reason: reason})
		}
		currentTitle = ""
		reasonParts = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := lineMarkerRe.FindStringSubmatch(line); m != nil {
			flush()
			currentTitle = strings.TrimSpace(m[2])
			continue
		}
		if currentTitle != "" {
			reasonParts = append(reasonParts, line)
		}
	}
	flush()

	if len(candidates) > maxParsedCandidates {
		candidates = candidates[:maxParsedCandidates]
	}
	return candidates
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}
