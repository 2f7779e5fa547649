package models

import "time"

// Content types for a suggestion. ContentTypeChat marks a conversational
// reply that must never be sent through metadata enrichment.
const (
	ContentTypeMovie  = "movie"
	ContentTypeSeries = "series"
	ContentTypeChat   = "chat"
)

// GenreUnknown is the sentinel genre used when no genre information exists.
const GenreUnknown = "unknown"

// Suggestion is one recommended title plus explanatory text and metadata.
// Optional fields stay nil until enrichment succeeds for the title.
type Suggestion struct {
	Title       string   `json:"title"`
	Reason      string   `json:"reason"`
	Genres      []string `json:"genres"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	ContentType string   `json:"content_type"`

	PosterURL  *string  `json:"poster_url"`
	IMDBID     *string  `json:"imdb_id"`
	IMDBRating *float64 `json:"imdb_rating"`
	IMDBTitle  *string  `json:"imdb_title"`
}

// NewSuggestion builds a suggestion with defaulted fields: unknown genre,
// current year, movie content type.
func NewSuggestion(title, reason string) Suggestion {
	return Suggestion{
		Title:       title,
		Reason:      reason,
		Genres:      []string{GenreUnknown},
		Year:        time.Now().Year(),
		ContentType: ContentTypeMovie,
	}
}

// TitleMetadata is the normalized result of an external catalog lookup.
// Zero values mean the upstream record did not carry that field.
type TitleMetadata struct {
	PosterURL    string  `json:"posterUrl"`
	IMDBID       string  `json:"imdbId"`
	Year         int     `json:"year"`
	Rating       float64 `json:"rating"`
	Type         string  `json:"type"`
	PrimaryTitle string  `json:"primaryTitle"`
}

// SuggestRequest is the inbound payload for the suggest endpoints.
type SuggestRequest struct {
	Prompt string `json:"prompt"`
}

// SuggestResponse wraps the ordered suggestion list returned to the caller.
type SuggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}
