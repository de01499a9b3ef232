package metadata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"cinescore/internal/utils"
)

const defaultOMDBBaseURL = "https://www.omdbapi.com"

// OMDBClient looks movies up on OMDb by exact title.
type OMDBClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *utils.Logger
}

func NewOMDBClient(apiKey string, opts ...Option) (*OMDBClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("omdb api key required")
	}
	o := buildOptions(defaultOMDBBaseURL, opts)
	return &OMDBClient{
		apiKey:     apiKey,
		baseURL:    o.baseURL,
		httpClient: o.httpClient,
		logger:     o.logger,
	}, nil
}

type omdbResponse struct {
	OMDBMovie
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

func (c *OMDBClient) query(ctx context.Context, params url.Values) (*omdbResponse, error) {
	params.Set("apikey", c.apiKey)
	var resp omdbResponse
	if err := getJSON(ctx, c.httpClient, "omdb", c.baseURL+"/?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FindByTitle asks OMDb for the movie with exactly this title.
func (c *OMDBClient) FindByTitle(ctx context.Context, title string) (*OMDBMovie, error) {
	params := url.Values{}
	params.Set("type", "movie")
	params.Set("t", title)

	resp, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}
	if resp.Response == "False" {
		return nil, fmt.Errorf("omdb title %q (%s): %w", title, resp.Error, ErrNoResults)
	}
	movie := resp.OMDBMovie
	return &movie, nil
}

// Lookup wraps FindByTitle, folding every failure into NotFound.
func (c *OMDBClient) Lookup(ctx context.Context, title string) Lookup[OMDBMovie] {
	movie, err := c.FindByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, ErrNoResults) {
			c.logger.Debug("omdb has no match for", title)
		} else {
			c.logger.Warn("omdb lookup failed for", title+":", err)
		}
		return NotFound[OMDBMovie]()
	}
	return Found(*movie)
}

// Ping issues a cheap id lookup; OMDb answers 401 for a bad key.
func (c *OMDBClient) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("i", "tt0111161")
	resp, err := c.query(ctx, params)
	if err != nil {
		return err
	}
	if resp.Response == "False" {
		return fmt.Errorf("omdb: %s", resp.Error)
	}
	return nil
}
