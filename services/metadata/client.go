package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"cinesage/models"
)

const defaultBaseURL = "https://api.imdbapi.dev"

// Client queries the external title catalog for poster and rating data.
// Every lookup is best-effort: a failed or empty search yields nil, never
// an error, so enrichment cannot invalidate upstream suggestion tiers.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewClient(baseURL, apiKey string, httpc *http.Client) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: 8 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(apiKey),
		httpc:   httpc,
	}
}

type searchResponse struct {
	Titles []struct {
		ID           string `json:"id"`
		PrimaryTitle string `json:"primaryTitle"`
		StartYear    int    `json:"startYear"`
		Type         string `json:"type"`
		Rating       struct {
			AggregateRating float64 `json:"aggregateRating"`
		} `json:"rating"`
		PrimaryImage struct {
			URL string `json:"url"`
		} `json:"primaryImage"`
	} `json:"titles"`
}

// LookupOne searches the catalog for a single title and returns normalized
// metadata from the first record, or nil when nothing usable was found.
func (c *Client) LookupOne(ctx context.Context, title string) *models.TitleMetadata {
	cleaned := CleanTitle(title)
	if cleaned == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/search/titles", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}
	q := req.URL.Query()
	q.Set("query", cleaned)
	q.Set("limit", "1")
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Printf("[metadata] lookup failed title=%q: %v", title, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("[metadata] lookup failed title=%q: %s", title, resp.Status)
		return nil
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("[metadata] malformed response title=%q: %v", title, err)
		return nil
	}
	if len(payload.Titles) == 0 {
		return nil
	}

	first := payload.Titles[0]
	md := &models.TitleMetadata{
		IMDBID:       first.ID,
		Year:         first.StartYear,
		Rating:       first.Rating.AggregateRating,
		Type:         first.Type,
		PrimaryTitle: first.PrimaryTitle,
	}
	if u := strings.TrimSpace(first.PrimaryImage.URL); u != "" {
		if parsed, err := url.Parse(u); err == nil && parsed.IsAbs() && parsed.Host != "" {
			md.PosterURL = u
		}
	}
	return md
}

// LookupMany issues every lookup concurrently and joins all results. The
// returned map always carries one key per input title; failed lookups map
// to nil instead of aborting their siblings.
func (c *Client) LookupMany(ctx context.Context, titles []string) map[string]*models.TitleMetadata {
	results := make(map[string]*models.TitleMetadata, len(titles))
	if len(titles) == 0 {
		return results
	}

	var mu sync.Mutex
	p := pool.New()
	for _, title := range titles {
		title := title
		mu.Lock()
		results[title] = nil
		mu.Unlock()

		p.Go(func() {
			md := c.LookupOne(ctx, title)
			mu.Lock()
			results[title] = md
			mu.Unlock()
		})
	}
	p.Wait()

	found := 0
	for _, md := range results {
		if md != nil {
			found++
		}
	}
	log.Printf("[metadata] batch lookup resolved %d/%d titles", found, len(results))
	return results
}

// CleanTitle normalizes a title before searching: parenthetical year
// suffixes, season markers and episode suffixes all hurt search recall.
func CleanTitle(title string) string {
	title = strings.TrimSpace(title)

	if open := strings.Index(title, "("); open != -1 && strings.Contains(title, ")") {
		title = strings.TrimSpace(title[:open])
	}

	title = strings.ReplaceAll(title, " - Season", "")
	title = strings.ReplaceAll(title, " Season", "")

	if idx := strings.Index(title, " - Episode"); idx != -1 {
		title = strings.TrimSpace(title[:idx])
	}

	return strings.TrimSpace(title)
}
