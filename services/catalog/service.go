package catalog

import (
	"log"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"cinesage/models"
)

const (
	minSuggestionFloor     = 3
	genreScoreMultiplier   = 10.0
	neutralGenreScore      = 0.5
	maxKeywordScore        = 5.0
	titleKeywordBonus      = 2.0
	descriptionWordBonus   = 0.5
	recentThresholdYears   = 5
	moderateThresholdYears = 10
	recentBonus            = 1.0
	moderateRecentBonus    = 0.5
	topUpScore             = 3.0
	emergencyScore         = 2.0
)

// Service is the deterministic keyword-scored fallback tier. Seed data and
// the genre keyword map are read-only after construction and safe to share
// across concurrent requests; only the tie-break rng needs a lock.
type Service struct {
	entries []Entry
	popular []Entry

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService builds the catalog scorer. Seed 0 uses a time-based source;
// any other seed makes tie ordering deterministic between runs.
func NewService(seed int64) *Service {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	popularSet := make(map[string]bool, len(popularTitles))
	for _, t := range popularTitles {
		popularSet[t] = true
	}
	popular := make([]Entry, 0, len(popularTitles))
	for _, e := range seedEntries {
		if popularSet[e.Title] {
			popular = append(popular, e)
		}
	}

	return &Service{
		entries: seedEntries,
		popular: popular,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// ExtractGenres returns the sorted set of genres detected in the prompt.
// Matching is case-insensitive substring search; the first matching trigger
// wins per genre. Compound rules cover phrasing the keyword map misses.
func (s *Service) ExtractGenres(prompt string) []string {
	lower := strings.ToLower(prompt)
	detected := make(map[string]bool)

	for genre, triggers := range genreKeywords {
		for _, trigger := range triggers {
			if strings.Contains(lower, trigger) {
				detected[genre] = true
				break
			}
		}
	}

	if strings.Contains(lower, "superhero") || strings.Contains(lower, "marvel") || strings.Contains(lower, "dc") {
		detected["action"] = true
	}
	if strings.Contains(lower, "rom-com") || strings.Contains(lower, "romantic comedy") {
		detected["romance"] = true
		detected["comedy"] = true
	}
	if strings.Contains(lower, "psychological") {
		detected["thriller"] = true
	}
	if strings.Contains(lower, "feel-good") || strings.Contains(lower, "uplifting") {
		detected["comedy"] = true
		detected["family"] = true
	}

	genres := make([]string, 0, len(detected))
	for g := range detected {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}

type scoredEntry struct {
	entry Entry
	score float64
}

// Suggest returns a ranked, genre-diversified suggestion list. It never
// returns an empty slice: popular entries top up thin results and any
// internal panic degrades to the popular subset.
func (s *Service) Suggest(prompt string, desiredCount int) (result []models.Suggestion) {
	if desiredCount < 1 {
		desiredCount = minSuggestionFloor
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[catalog] suggestion scoring panicked, serving popular subset: %v", r)
			result = s.emergencySuggestions(desiredCount)
		}
	}()

	detected := s.ExtractGenres(prompt)
	candidates := s.selectCandidates(detected)
	scored := s.scoreCandidates(prompt, detected, candidates)
	s.sortWithTieShuffle(scored)
	picked := diversify(scored, desiredCount)

	result = make([]models.Suggestion, 0, desiredCount)
	seen := make(map[string]bool, desiredCount)
	for _, se := range picked {
		result = append(result, s.toSuggestion(se.entry, detected))
		seen[se.entry.Title] = true
	}

	// Top up from the popular subset when scoring selected too few.
	floor := desiredCount
	if floor > minSuggestionFloor {
		floor = minSuggestionFloor
	}
	for _, e := range s.popular {
		if len(result) >= floor {
			break
		}
		if seen[e.Title] {
			continue
		}
		sg := s.toSuggestion(e, nil)
		sg.Reason = "A widely loved pick that works for almost any mood"
		result = append(result, sg)
		seen[e.Title] = true
		log.Printf("[catalog] topped up with %q (score %.1f)", e.Title, topUpScore)
	}

	return result
}

func (s *Service) selectCandidates(detected []string) []Entry {
	if len(detected) == 0 {
		return s.popular
	}

	detectedSet := make(map[string]bool, len(detected))
	for _, g := range detected {
		detectedSet[g] = true
	}

	var candidates []Entry
	for _, e := range s.entries {
		for _, g := range e.Genres {
			if detectedSet[g] {
				candidates = append(candidates, e)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return s.popular
	}
	return candidates
}

func (s *Service) scoreCandidates(prompt string, detected []string, candidates []Entry) []scoredEntry {
	detectedSet := make(map[string]bool, len(detected))
	for _, g := range detected {
		detectedSet[g] = true
	}
	words := strings.Fields(strings.ToLower(prompt))
	currentYear := time.Now().Year()

	scored := make([]scoredEntry, 0, len(candidates))
	for _, e := range candidates {
		var score float64

		if len(detected) == 0 {
			score += neutralGenreScore
		} else {
			overlap := 0
			for _, g := range e.Genres {
				if detectedSet[g] {
					overlap++
				}
			}
			score += float64(overlap) / float64(len(detected)) * genreScoreMultiplier
		}

		score += keywordScore(words, e)

		switch age := currentYear - e.Year; {
		case age <= recentThresholdYears:
			score += recentBonus
		case age <= moderateThresholdYears:
			score += moderateRecentBonus
		}

		scored = append(scored, scoredEntry{entry: e, score: score})
	}
	return scored
}

func keywordScore(promptWords []string, e Entry) float64 {
	titleLower := strings.ToLower(e.Title)
	descWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(e.Description)) {
		descWords[strings.Trim(w, ".,!?")] = true
	}

	var score float64
	titleHit := false
	for _, w := range promptWords {
		if !titleHit && strings.Contains(titleLower, w) {
			score += titleKeywordBonus
			titleHit = true
		}
		if descWords[w] {
			score += descriptionWordBonus
		}
	}
	if score > maxKeywordScore {
		score = maxKeywordScore
	}
	return score
}

// sortWithTieShuffle orders by score descending, then randomizes relative
// order within groups whose scores round to the same single decimal. The
// shuffle never changes which entries rank above a group boundary.
func (s *Service) sortWithTieShuffle(scored []scoredEntry) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	start := 0
	for i := 1; i <= len(scored); i++ {
		if i < len(scored) && roundScore(scored[i].score) == roundScore(scored[start].score) {
			continue
		}
		group := scored[start:i]
		s.rng.Shuffle(len(group), func(a, b int) {
			group[a], group[b] = group[b], group[a]
		})
		start = i
	}
}

func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}

// diversify greedily prefers entries whose genres are not yet represented,
// up to half the desired slots, then fills the rest by raw score order.
func diversify(scored []scoredEntry, desiredCount int) []scoredEntry {
	picked := make([]scoredEntry, 0, desiredCount)
	pickedIdx := make(map[int]bool)
	usedGenres := make(map[string]bool)
	diverseBudget := desiredCount / 2
	if diverseBudget < 1 {
		diverseBudget = 1
	}

	diversePicks := 0
	for i, se := range scored {
		if len(picked) >= desiredCount || diversePicks >= diverseBudget {
			break
		}
		overlaps := false
		for _, g := range se.entry.Genres {
			if usedGenres[g] {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}
		picked = append(picked, se)
		pickedIdx[i] = true
		diversePicks++
		for _, g := range se.entry.Genres {
			usedGenres[g] = true
		}
	}

	for i, se := range scored {
		if len(picked) >= desiredCount {
			break
		}
		if pickedIdx[i] {
			continue
		}
		picked = append(picked, se)
		pickedIdx[i] = true
	}
	return picked
}

// toSuggestion synthesizes the reason text: entries overlapping the detected
// genres get a superlative phrase chosen from description trigger words plus
// the description's first clause; everything else uses the full description.
func (s *Service) toSuggestion(e Entry, detected []string) models.Suggestion {
	sg := models.NewSuggestion(e.Title, e.Description)
	sg.Genres = e.Genres
	sg.Year = e.Year
	sg.Description = e.Description
	sg.ContentType = e.ContentType

	if overlapsDetected(e, detected) {
		if phrase := superlativePhrase(e.Description); phrase != "" {
			sg.Reason = phrase + " and " + firstClause(e.Description)
		}
	}
	return sg
}

func overlapsDetected(e Entry, detected []string) bool {
	for _, d := range detected {
		for _, g := range e.Genres {
			if d == g {
				return true
			}
		}
	}
	return false
}

func superlativePhrase(description string) string {
	lower := strings.ToLower(description)
	switch {
	case strings.Contains(lower, "stunning") || strings.Contains(lower, "beautiful"):
		return "Praised for its stunning visuals"
	case strings.Contains(lower, "heart") || strings.Contains(lower, "emotional"):
		return "Loved for its emotional depth"
	case strings.Contains(lower, "innovative") || strings.Contains(lower, "revolutionary"):
		return "Celebrated for groundbreaking filmmaking"
	default:
		return ""
	}
}

func firstClause(description string) string {
	for _, sep := range []string{",", ".", ";"} {
		if idx := strings.Index(description, sep); idx > 0 {
			description = description[:idx]
		}
	}
	return strings.TrimSpace(description)
}

// emergencySuggestions is the catastrophic fallback: the popular subset with
// a generic reason, truncated to the desired count.
func (s *Service) emergencySuggestions(desiredCount int) []models.Suggestion {
	result := make([]models.Suggestion, 0, desiredCount)
	for _, e := range s.popular {
		if len(result) >= desiredCount {
			break
		}
		sg := s.toSuggestion(e, nil)
		sg.Reason = "A proven crowd-pleaser while we sort things out"
		result = append(result, sg)
	}
	log.Printf("[catalog] emergency fallback served %d entries (score %.1f)", len(result), emergencyScore)
	return result
}
