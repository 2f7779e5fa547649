package metadata

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripFunc) *Client {
	return NewClient("https://api.example.test", "", &http.Client{Transport: fn})
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func TestLookupOneFound(t *testing.T) {
	var gotQuery string
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		gotQuery = req.URL.Query().Get("query")
		return jsonResponse(http.StatusOK, `{
			"titles": [{
				"id": "tt1375666",
				"primaryTitle": "Inception",
				"startYear": 2010,
				"type": "movie",
				"rating": {"aggregateRating": 8.8},
				"primaryImage": {"url": "https://images.example.test/inception.jpg"}
			}]
		}`), nil
	})

	md := client.LookupOne(context.Background(), "Inception")
	if md == nil {
		t.Fatal("expected metadata, got nil")
	}
	if gotQuery != "Inception" {
		t.Errorf("expected query %q, got %q", "Inception", gotQuery)
	}
	if md.IMDBID != "tt1375666" {
		t.Errorf("unexpected id: %q", md.IMDBID)
	}
	if md.Year != 2010 {
		t.Errorf("unexpected year: %d", md.Year)
	}
	if md.Rating != 8.8 {
		t.Errorf("unexpected rating: %v", md.Rating)
	}
	if md.PosterURL != "https://images.example.test/inception.jpg" {
		t.Errorf("unexpected poster url: %q", md.PosterURL)
	}
}

func TestLookupOneCleansTitleBeforeSearch(t *testing.T) {
	var gotQuery string
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		gotQuery = req.URL.Query().Get("query")
		return jsonResponse(http.StatusOK, `{"titles": []}`), nil
	})

	client.LookupOne(context.Background(), "Dark (2017)")
	if gotQuery != "Dark" {
		t.Errorf("expected cleaned query %q, got %q", "Dark", gotQuery)
	}
}

func TestLookupOneNoResults(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"titles": []}`), nil
	})

	if md := client.LookupOne(context.Background(), "Some Obscure Title"); md != nil {
		t.Fatalf("expected nil for empty result, got %+v", md)
	}
}

func TestLookupOneServerError(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `oops`), nil
	})

	if md := client.LookupOne(context.Background(), "Inception"); md != nil {
		t.Fatalf("expected nil on 500, got %+v", md)
	}
}

func TestLookupOneMalformedBody(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"titles": [not json`), nil
	})

	if md := client.LookupOne(context.Background(), "Inception"); md != nil {
		t.Fatalf("expected nil on malformed body, got %+v", md)
	}
}

func TestLookupOneRejectsRelativePosterURL(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{
			"titles": [{
				"id": "tt0111161",
				"primaryTitle": "The Shawshank Redemption",
				"primaryImage": {"url": "/images/shawshank.jpg"}
			}]
		}`), nil
	})

	md := client.LookupOne(context.Background(), "The Shawshank Redemption")
	if md == nil {
		t.Fatal("expected metadata, got nil")
	}
	if md.PosterURL != "" {
		t.Errorf("expected relative poster url to be dropped, got %q", md.PosterURL)
	}
}

func TestLookupManyAlwaysReturnsEveryTitle(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.Query().Get("query") == "Inception" {
			return jsonResponse(http.StatusOK, `{"titles": [{"id": "tt1375666", "primaryTitle": "Inception"}]}`), nil
		}
		return jsonResponse(http.StatusBadGateway, `bad gateway`), nil
	})

	titles := []string{"Inception", "Parasite", "Ted Lasso"}
	results := client.LookupMany(context.Background(), titles)

	if len(results) != len(titles) {
		t.Fatalf("expected %d keys, got %d", len(titles), len(results))
	}
	for _, title := range titles {
		if _, ok := results[title]; !ok {
			t.Errorf("missing key for %q", title)
		}
	}
	if results["Inception"] == nil {
		t.Error("expected metadata for Inception")
	}
	if results["Parasite"] != nil {
		t.Errorf("expected nil for failed lookup, got %+v", results["Parasite"])
	}
}

func TestLookupManyEmptyInput(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected for empty input")
		return nil, nil
	})

	if results := client.LookupMany(context.Background(), nil); len(results) != 0 {
		t.Fatalf("expected empty map, got %v", results)
	}
}

func TestCleanTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Inception", "Inception"},
		{"Inception (2010)", "Inception"},
		{"Breaking Bad - Season 2", "Breaking Bad 2"},
		{"Stranger Things Season 4", "Stranger Things 4"},
		{"The Bear - Episode 5", "The Bear"},
		{"  Dune  ", "Dune"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := CleanTitle(tc.in); got != tc.want {
			t.Errorf("CleanTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
