package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractGenres(t *testing.T) {
	s := NewService(1)

	cases := []struct {
		prompt string
		want   []string
	}{
		{"I want action movies", []string{"action"}},
		{"I WANT ACTION MOVIES", []string{"action"}},
		{"something funny to laugh at", []string{"comedy"}},
		{"a romantic comedy for date night", []string{"comedy", "romance"}},
		{"a psychological slow burn", []string{"thriller"}},
		{"something feel-good", []string{"comedy", "family"}},
		{"a marvel superhero flick", []string{"action"}},
		{"", nil},
		{"qwerty asdf", nil},
	}

	for _, tc := range cases {
		got := s.ExtractGenres(tc.prompt)
		if len(tc.want) == 0 {
			assert.Empty(t, got, "prompt %q", tc.prompt)
			continue
		}
		assert.Equal(t, tc.want, got, "prompt %q", tc.prompt)
	}
}

func TestExtractGenresIdempotent(t *testing.T) {
	s := NewService(1)
	prompt := "an intense sci-fi thriller with a love story"

	first := s.ExtractGenres(prompt)
	second := s.ExtractGenres(prompt)
	assert.Equal(t, first, second)
}

func TestSuggestMatchesDetectedGenres(t *testing.T) {
	s := NewService(7)

	suggestions := s.Suggest("I want action movies", 3)
	require.NotEmpty(t, suggestions)
	require.GreaterOrEqual(t, len(suggestions), 3)

	for _, sg := range suggestions {
		assert.NotEmpty(t, sg.Title)
		assert.NotEmpty(t, sg.Reason)
		assert.NotEmpty(t, sg.Genres)
	}

	hasAction := false
	for _, sg := range suggestions {
		for _, g := range sg.Genres {
			if g == "action" {
				hasAction = true
			}
		}
	}
	assert.True(t, hasAction, "expected at least one action suggestion, got %+v", suggestions)
}

func TestSuggestEmptyPromptServesPopular(t *testing.T) {
	s := NewService(7)

	suggestions := s.Suggest("", 3)
	require.GreaterOrEqual(t, len(suggestions), 3)

	popular := make(map[string]bool)
	for _, title := range popularTitles {
		popular[title] = true
	}
	for _, sg := range suggestions {
		assert.True(t, popular[sg.Title], "unexpected non-popular title %q for empty prompt", sg.Title)
	}
}

func TestSuggestNeverReturnsDuplicates(t *testing.T) {
	s := NewService(7)

	suggestions := s.Suggest("an emotional drama about family", 5)
	seen := make(map[string]bool)
	for _, sg := range suggestions {
		assert.False(t, seen[sg.Title], "duplicate title %q", sg.Title)
		seen[sg.Title] = true
	}
}

func TestSuggestDeterministicWithFixedSeed(t *testing.T) {
	first := NewService(42).Suggest("a creepy horror series", 3)
	second := NewService(42).Suggest("a creepy horror series", 3)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Title, second[i].Title)
	}
}

func TestSuggestInvalidDesiredCount(t *testing.T) {
	s := NewService(7)

	suggestions := s.Suggest("space adventure", 0)
	require.GreaterOrEqual(t, len(suggestions), 3)
}

func TestKeywordScoreCapped(t *testing.T) {
	e := Entry{
		Title:       "Dune",
		Description: "A stunning large-scale adaptation of the classic space epic",
	}
	words := strings.Fields("dune stunning large-scale adaptation classic space epic the of a")

	score := keywordScore(words, e)
	assert.Equal(t, maxKeywordScore, score)
}

func TestDiversifyPrefersUnseenGenres(t *testing.T) {
	scored := []scoredEntry{
		{entry: Entry{Title: "A", Genres: []string{"action"}}, score: 10},
		{entry: Entry{Title: "B", Genres: []string{"action"}}, score: 9},
		{entry: Entry{Title: "C", Genres: []string{"comedy"}}, score: 8},
		{entry: Entry{Title: "D", Genres: []string{"drama"}}, score: 7},
	}

	picked := diversify(scored, 4)
	require.Len(t, picked, 4)

	// The diverse half skips B (genre already used) in favor of C.
	assert.Equal(t, "A", picked[0].entry.Title)
	assert.Equal(t, "C", picked[1].entry.Title)
}

func TestSortWithTieShuffleKeepsScoreOrder(t *testing.T) {
	s := NewService(99)
	scored := []scoredEntry{
		{entry: Entry{Title: "low"}, score: 1.0},
		{entry: Entry{Title: "high"}, score: 10.0},
		{entry: Entry{Title: "mid-a"}, score: 5.0},
		{entry: Entry{Title: "mid-b"}, score: 5.04},
	}

	s.sortWithTieShuffle(scored)

	assert.Equal(t, "high", scored[0].entry.Title)
	assert.Equal(t, "low", scored[3].entry.Title)
	mids := map[string]bool{scored[1].entry.Title: true, scored[2].entry.Title: true}
	assert.True(t, mids["mid-a"] && mids["mid-b"], "tied entries left the middle band: %+v", scored)
}
