package suggester

import (
	"context"
	"log"
	"strings"

	"cinesage/models"
)

type generatorService interface {
	Generate(ctx context.Context, prompt string) ([]models.Suggestion, error)
}

type catalogService interface {
	Suggest(prompt string, desiredCount int) []models.Suggestion
}

type metadataClient interface {
	LookupMany(ctx context.Context, titles []string) map[string]*models.TitleMetadata
}

// Service resolves a content-preference prompt through a linear degrade
// chain: AI generator, then local catalog, then a static emergency list.
// Enrichment is best-effort at every tier and the caller never sees an
// internal failure.
type Service struct {
	generator    generatorService
	catalog      catalogService
	metadata     metadataClient
	desiredCount int
}

func NewService(generator generatorService, catalog catalogService, metadata metadataClient, desiredCount int) *Service {
	if desiredCount < 1 {
		desiredCount = 3
	}
	return &Service{
		generator:    generator,
		catalog:      catalog,
		metadata:     metadata,
		desiredCount: desiredCount,
	}
}

// Resolve runs the tier chain for one prompt. The result always contains at
// least one suggestion.
func (s *Service) Resolve(ctx context.Context, prompt string) (result []models.Suggestion) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[suggester] resolve panicked, serving emergency list: %v", r)
			result = emergencySuggestions()
		}
	}()

	suggestions := s.generate(ctx, prompt)

	if len(suggestions) == 0 {
		if s.catalog == nil {
			log.Printf("[suggester] catalog tier unavailable, serving emergency list")
			suggestions = emergencySuggestions()
		} else {
			suggestions = s.catalog.Suggest(prompt, s.desiredCount)
		}
	}

	s.enrich(ctx, suggestions)
	return suggestions
}

// generate runs the AI tier. Any error or empty result hands control to the
// catalog tier; generator-internal fallbacks are ignored when the generator
// also reports an error, because fresher catalog matches beat canned titles.
func (s *Service) generate(ctx context.Context, prompt string) []models.Suggestion {
	if s.generator == nil {
		return nil
	}

	suggestions, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[suggester] ai tier failed, falling to catalog: %v", err)
		return nil
	}
	return suggestions
}

// enrich merges external metadata into every non-chat suggestion. Lookup
// failures leave the suggestion untouched.
func (s *Service) enrich(ctx context.Context, suggestions []models.Suggestion) {
	if s.metadata == nil {
		return
	}

	titles := make([]string, 0, len(suggestions))
	for _, sg := range suggestions {
		if sg.ContentType == models.ContentTypeChat {
			continue
		}
		titles = append(titles, sg.Title)
	}
	if len(titles) == 0 {
		return
	}

	lookups := s.metadata.LookupMany(ctx, titles)

	for i := range suggestions {
		sg := &suggestions[i]
		if sg.ContentType == models.ContentTypeChat {
			continue
		}
		md := lookups[sg.Title]
		if md == nil {
			continue
		}

		if md.PosterURL != "" {
			sg.PosterURL = ptr(md.PosterURL)
		}
		if md.IMDBID != "" {
			sg.IMDBID = ptr(md.IMDBID)
		}
		if md.Rating > 0 {
			sg.IMDBRating = ptr(md.Rating)
		}
		if md.PrimaryTitle != "" {
			sg.IMDBTitle = ptr(md.PrimaryTitle)
		}
		if md.Year > 0 {
			sg.Year = md.Year
		}
		if strings.Contains(strings.ToLower(md.Type), "series") {
			sg.ContentType = models.ContentTypeSeries
		}
	}
}

// emergencySuggestions is the last tier: served only when even the catalog
// is unreachable.
func emergencySuggestions() []models.Suggestion {
	return []models.Suggestion{
		{
			Title:       "The Shawshank Redemption",
			Genres:      []string{"drama"},
			Year:        1994,
			Reason:      "Timeless classic about hope and redemption",
			Description: "Epic drama about friendship and perseverance in prison",
			ContentType: models.ContentTypeMovie,
		},
		{
			Title:       "Inception",
			Genres:      []string{"sci-fi", "thriller"},
			Year:        2010,
			Reason:      "Mind-bending sci-fi thriller",
			Description: "Complex heist film set within layered dreams",
			ContentType: models.ContentTypeMovie,
		},
		{
			Title:       "Spirited Away",
			Genres:      []string{"animated", "adventure"},
			Year:        2001,
			Reason:      "Magical animated masterpiece",
			Description: "Enchanting tale of a girl in a supernatural world",
			ContentType: models.ContentTypeMovie,
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}
