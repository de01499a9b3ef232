package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/net/html/charset"
)

// ErrNoResults is returned when a provider answered but matched nothing.
var ErrNoResults = errors.New("no results")

// StatusError reports a non-200 reply from a provider.
type StatusError struct {
	Provider string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.Provider, e.Code)
}

// Lookup is the outcome of a single provider query: either a found record or
// nothing. Transport failures and empty result sets both end up as NotFound.
type Lookup[T any] struct {
	value T
	found bool
}

// Found wraps a matched record.
func Found[T any](v T) Lookup[T] {
	return Lookup[T]{value: v, found: true}
}

// NotFound is the empty outcome.
func NotFound[T any]() Lookup[T] {
	return Lookup[T]{}
}

func (l Lookup[T]) Found() bool { return l.found }

// Get returns the record and whether one was found.
func (l Lookup[T]) Get() (T, bool) {
	return l.value, l.found
}

// SimilarMovie is a lightweight peer entry returned alongside a TMDB match.
type SimilarMovie struct {
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
}

// TMDBMovie is the best TMDB search match plus its similar titles.
type TMDBMovie struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	ReleaseDate string         `json:"release_date"`
	Overview    string         `json:"overview"`
	PosterPath  string         `json:"poster_path"`
	VoteAverage float64        `json:"vote_average"`
	Similar     []SimilarMovie `json:"similar"`
}

// OMDBRating is one named critic score as OMDb reports it, e.g.
// {"Rotten Tomatoes", "87%"} or {"Metacritic", "74/100"}.
type OMDBRating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// OMDBMovie keeps OMDb's text fields verbatim, including the "N/A" sentinel.
type OMDBMovie struct {
	Title      string       `json:"Title"`
	Year       string       `json:"Year"`
	Released   string       `json:"Released"`
	Poster     string       `json:"Poster"`
	IMDbRating string       `json:"imdbRating"`
	Metascore  string       `json:"Metascore"`
	IMDbID     string       `json:"imdbID"`
	Ratings    []OMDBRating `json:"Ratings"`
}

// getJSON performs a GET and decodes a JSON body into target. Bodies are run
// through a charset reader keyed on Content-Type.
func getJSON(ctx context.Context, httpClient *http.Client, provider, rawURL string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", provider, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("query %s: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Provider: provider, Code: resp.StatusCode}
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return fmt.Errorf("read %s response: %w", provider, err)
	}
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return fmt.Errorf("decode %s response: %w", provider, err)
	}
	return nil
}
