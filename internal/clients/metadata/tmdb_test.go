package metadata_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"cinescore/internal/clients/metadata"
	"cinescore/internal/utils"
)

func newTMDBServer(t *testing.T, handler http.HandlerFunc) *metadata.TMDBClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := metadata.NewTMDBClient("key", metadata.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewTMDBClient returned error: %v", err)
	}
	return client
}

func TestNewTMDBClientRequiresAPIKey(t *testing.T) {
	if _, err := metadata.NewTMDBClient("  "); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestTMDBSearchMovieReturnsFirstResult(t *testing.T) {
	client := newTMDBServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "key" || q.Get("query") != "Inception" || q.Get("page") != "1" {
			t.Fatalf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"total_results":2,"results":[
			{"id":27205,"title":"Inception","release_date":"2010-07-15","poster_path":"/a.jpg","vote_average":8.2},
			{"id":1,"title":"Inception: The Cobol Job","vote_average":7.0}]}`))
	})

	movie, err := client.SearchMovie(context.Background(), "Inception")
	if err != nil {
		t.Fatalf("SearchMovie returned error: %v", err)
	}
	if movie.ID != 27205 || movie.Title != "Inception" || movie.VoteAverage != 8.2 || movie.PosterPath != "/a.jpg" {
		t.Fatalf("unexpected movie: %#v", movie)
	}
}

func TestTMDBSearchMovieNoResults(t *testing.T) {
	client := newTMDBServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":1,"total_results":0,"results":[]}`))
	})

	_, err := client.SearchMovie(context.Background(), "zzzz")
	if !errors.Is(err, metadata.ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestTMDBSearchMovieHTTPError(t *testing.T) {
	client := newTMDBServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.SearchMovie(context.Background(), "Inception")
	var statusErr *metadata.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected StatusError 401, got %v", err)
	}
}

func TestTMDBLookupAttachesSimilar(t *testing.T) {
	client := newTMDBServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/movie":
			_, _ = w.Write([]byte(`{"total_results":1,"results":[{"id":27205,"title":"Inception"}]}`))
		case "/movie/27205/similar":
			_, _ = w.Write([]byte(`{"results":[{"title":"Interstellar","poster_path":"/i.jpg"},{"title":"Tenet","poster_path":"/t.jpg"}]}`))
		default:
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
	})

	movie, ok := client.Lookup(context.Background(), "Inception").Get()
	if !ok {
		t.Fatal("expected a match")
	}
	if len(movie.Similar) != 2 || movie.Similar[0].Title != "Interstellar" || movie.Similar[1].PosterPath != "/t.jpg" {
		t.Fatalf("unexpected similar list: %#v", movie.Similar)
	}
}

func TestTMDBLookupSimilarFailureDegradesToEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search/movie" {
			_, _ = w.Write([]byte(`{"total_results":1,"results":[{"id":7,"title":"Heat"}]}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client, err := metadata.NewTMDBClient("key",
		metadata.WithBaseURL(server.URL),
		metadata.WithLogger(utils.FromZap(zap.New(core))))
	if err != nil {
		t.Fatalf("NewTMDBClient returned error: %v", err)
	}

	movie, ok := client.Lookup(context.Background(), "Heat").Get()
	if !ok {
		t.Fatal("a failed similar query must not hide the match")
	}
	if movie.Similar == nil || len(movie.Similar) != 0 {
		t.Fatalf("expected empty similar list, got %#v", movie.Similar)
	}
	if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Fatalf("expected one warning, got %v", logs.All())
	}
}

func TestTMDBLookupCollapsesFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }},
		{"empty", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"total_results":0}`)) }},
		{"garbage", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`<html>`)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTMDBServer(t, tt.handler)
			if client.Lookup(context.Background(), "Inception").Found() {
				t.Fatal("expected NotFound")
			}
		})
	}
}

func TestTMDBLookupUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := metadata.NewTMDBClient("key", metadata.WithBaseURL(url))
	if err != nil {
		t.Fatalf("NewTMDBClient returned error: %v", err)
	}
	if client.Lookup(context.Background(), "Inception").Found() {
		t.Fatal("expected NotFound for a dead provider")
	}
}

func TestTMDBSendsLanguage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("language"); got != "de-DE" {
			t.Fatalf("expected language de-DE, got %q", got)
		}
		_, _ = w.Write([]byte(`{"images":{}}`))
	}))
	t.Cleanup(server.Close)

	client, err := metadata.NewTMDBClient("key", metadata.WithBaseURL(server.URL), metadata.WithLanguage("de-DE"))
	if err != nil {
		t.Fatalf("NewTMDBClient returned error: %v", err)
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
}
