package generator

import (
	"testing"
)

func TestParseSuggestionsStrictJSON(t *testing.T) {
	raw := `Here are my picks:
[
  {"title": "Heat", "reason": "A defining crime saga."},
  {"title": "Collateral", "reason": "A tense night-long ride."}
]
Enjoy!`

	got := ParseSuggestions(raw)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Title != "Heat" || got[1].Title != "Collateral" {
		t.Fatalf("unexpected titles: %+v", got)
	}
	if got[0].Reason != "A defining crime saga." {
		t.Fatalf("unexpected reason: %q", got[0].Reason)
	}
}

func TestParseSuggestionsInsideCodeFence(t *testing.T) {
	raw := "```json\n[{\"title\": \"Se7en\", \"reason\": \"A grim procedural.\"}]\n```"

	got := ParseSuggestions(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Title != "Se7en" {
		t.Fatalf("unexpected title: %q", got[0].Title)
	}
}

func TestParseSuggestionsDropsObjectsMissingKeys(t *testing.T) {
	raw := `[
  {"title": "Heat"},
  {"reason": "no title here"},
  {"title": "Ran", "reason": "Epic scale."}
]`

	got := ParseSuggestions(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(got), got)
	}
	if got[0].Title != "Ran" {
		t.Fatalf("unexpected survivor: %q", got[0].Title)
	}
}

func TestParseSuggestionsCoercesNonStringValues(t *testing.T) {
	raw := `[{"title": 1917, "reason": "A single-take war film."}]`

	got := ParseSuggestions(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Title != "1917" {
		t.Fatalf("expected coerced title %q, got %q", "1917", got[0].Title)
	}
}

func TestParseSuggestionsCapturesContentType(t *testing.T) {
	raw := `[{"title": "Chat", "reason": "Hello! Tell me what you like to watch.", "content_type": "chat"}]`

	got := ParseSuggestions(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].ContentType != "chat" {
		t.Fatalf("expected chat content type, got %q", got[0].ContentType)
	}
}

func TestParseSuggestionsLineFallbackNumbered(t *testing.T) {
	raw := `1. The Thing
A paranoid Antarctic horror
with practical effects.
2. Alien
The original haunted house in space.`

	got := ParseSuggestions(raw)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(got), got)
	}
	if got[0].Title != "The Thing" {
		t.Fatalf("unexpected title: %q", got[0].Title)
	}
	if got[0].Reason != "A paranoid Antarctic horror with practical effects." {
		t.Fatalf("reason lines not joined: %q", got[0].Reason)
	}
	if got[1].Title != "Alien" {
		t.Fatalf("unexpected second title: %q", got[1].Title)
	}
}

func TestParseSuggestionsLineFallbackTitlePrefix(t *testing.T) {
	raw := `Title: Oldboy
A revenge mystery best gone into blind.`

	got := ParseSuggestions(raw)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Title != "Oldboy" {
		t.Fatalf("unexpected title: %q", got[0].Title)
	}
}

func TestParseSuggestionsLineFallbackCapsAtFour(t *testing.T) {
	raw := `1. A
reason a
2. B
reason b
3. C
reason c
4. D
reason d
1. E
reason e`

	got := ParseSuggestions(raw)
	if len(got) != 4 {
		t.Fatalf("expected cap of 4 candidates, got %d", len(got))
	}
}

func TestParseSuggestionsEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "no structure at all", "[]", "[not json"} {
		if got := ParseSuggestions(raw); len(got) != 0 {
			t.Fatalf("expected no candidates for %q, got %+v", raw, got)
		}
	}
}
