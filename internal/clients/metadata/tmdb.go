package metadata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cinescore/internal/utils"
)

const defaultTMDBBaseURL = "https://api.themoviedb.org/3"

type TMDBClient struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	logger     *utils.Logger
}

// Option configures a provider client.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL    string
	language   string
	httpClient *http.Client
	logger     *utils.Logger
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithBaseURL points the client at another API root (fake servers in tests).
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if strings.TrimSpace(baseURL) != "" {
			o.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
		}
	}
}

// WithLanguage sets the TMDB response language. OMDb ignores it.
func WithLanguage(language string) Option {
	return func(o *clientOptions) {
		o.language = strings.TrimSpace(language)
	}
}

func WithLogger(logger *utils.Logger) Option {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(defaultBase string, opts []Option) clientOptions {
	o := clientOptions{
		baseURL:    defaultBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     utils.NopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func NewTMDBClient(apiKey string, opts ...Option) (*TMDBClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	o := buildOptions(defaultTMDBBaseURL, opts)
	return &TMDBClient{
		apiKey:     apiKey,
		baseURL:    o.baseURL,
		language:   o.language,
		httpClient: o.httpClient,
		logger:     o.logger,
	}, nil
}

type tmdbSearchResponse struct {
	Page         int         `json:"page"`
	TotalResults int         `json:"total_results"`
	Results      []TMDBMovie `json:"results"`
}

func (t *TMDBClient) endpoint(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", t.apiKey)
	if t.language != "" {
		params.Set("language", t.language)
	}
	return t.baseURL + path + "?" + params.Encode()
}

// SearchMovie returns the first search result in TMDB's relevance order.
func (t *TMDBClient) SearchMovie(ctx context.Context, title string) (*TMDBMovie, error) {
	params := url.Values{}
	params.Set("query", title)
	params.Set("page", "1")

	var searchResp tmdbSearchResponse
	if err := getJSON(ctx, t.httpClient, "tmdb", t.endpoint("/search/movie", params), &searchResp); err != nil {
		return nil, err
	}
	if searchResp.TotalResults == 0 || len(searchResp.Results) == 0 {
		return nil, fmt.Errorf("tmdb search for %q: %w", title, ErrNoResults)
	}

	best := searchResp.Results[0]
	best.Similar = nil
	return &best, nil
}

// SimilarMovies returns the first page of movies TMDB considers similar to id.
func (t *TMDBClient) SimilarMovies(ctx context.Context, id int64) ([]SimilarMovie, error) {
	if id <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	params := url.Values{}
	params.Set("page", "1")

	var resp struct {
		Results []SimilarMovie `json:"results"`
	}
	if err := getJSON(ctx, t.httpClient, "tmdb", t.endpoint(fmt.Sprintf("/movie/%d/similar", id), params), &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Lookup searches TMDB and attaches similar titles. It never fails: search
// errors become NotFound and a failed similar query leaves the list empty.
func (t *TMDBClient) Lookup(ctx context.Context, title string) Lookup[TMDBMovie] {
	movie, err := t.SearchMovie(ctx, title)
	if err != nil {
		if errors.Is(err, ErrNoResults) {
			t.logger.Debug("tmdb has no match for", title)
		} else {
			t.logger.Warn("tmdb lookup failed for", title+":", err)
		}
		return NotFound[TMDBMovie]()
	}

	similar, err := t.SimilarMovies(ctx, movie.ID)
	if err != nil {
		t.logger.Warn("tmdb similar movies unavailable for", movie.Title+":", err)
		similar = []SimilarMovie{}
	}
	if similar == nil {
		similar = []SimilarMovie{}
	}
	movie.Similar = similar
	return Found(*movie)
}

// Ping checks that the API key is accepted.
func (t *TMDBClient) Ping(ctx context.Context) error {
	var resp map[string]interface{}
	return getJSON(ctx, t.httpClient, "tmdb", t.endpoint("/configuration", nil), &resp)
}
