package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"cinescore/internal/config"
	"cinescore/internal/core"
	"cinescore/internal/utils"
)

type stubFinder struct {
	report  *core.Report
	title   string
	weights core.Weights
}

func (s *stubFinder) FindMovie(ctx context.Context, title string, w core.Weights) (*core.Report, error) {
	s.title = title
	s.weights = w
	return s.report, nil
}

func runLookup(t *testing.T, finder *stubFinder, args ...string) string {
	t.Helper()
	t.Setenv("MOVIEDB_KEY", "tmdb-key")
	t.Setenv("OMDB_KEY", "omdb-key")

	configPath := filepath.Join(t.TempDir(), "missing.yml")
	debug := false
	ctx := newCommandContext(&configPath, &debug)
	ctx.newFinder = func(*config.Config, *utils.Logger) (movieFinder, error) {
		return finder, nil
	}

	cmd := newLookupCommand(ctx)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	return out.String()
}

func foundReport() *core.Report {
	return &core.Report{
		Query:   "inception",
		Found:   true,
		Title:   "Inception",
		Release: "2010-07-15",
		Ratings: []core.RatingLine{{Source: "MovieDB", Value: "8.2"}, {Source: "IMDB", Value: "8.8"}},
		Similar: []core.SimilarMovieView{{Title: "Interstellar"}},
		Score:   core.Composite{Value: 8.5, Defined: true},
	}
}

func TestLookupPrintsTable(t *testing.T) {
	finder := &stubFinder{report: foundReport()}
	out := runLookup(t, finder, "--rotten", "0", "--imdb", "2", "The", "Inception")

	if finder.title != "The Inception" {
		t.Fatalf("unexpected title %q", finder.title)
	}
	want := core.Weights{MovieDB: 1, IMDb: 2, Metacritic: 1, Metascore: 1}
	if finder.weights != want {
		t.Fatalf("weights = %+v, want %+v", finder.weights, want)
	}
	for _, s := range []string{"Inception (2010-07-15)", "MovieDB", "8.8", "Your rating: 8.5", "Interstellar"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
}

func TestLookupNotFound(t *testing.T) {
	out := runLookup(t, &stubFinder{report: &core.Report{Query: "zzz"}}, "zzz")
	if strings.TrimSpace(out) != "No 'zzz' movie found" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLookupJSON(t *testing.T) {
	out := runLookup(t, &stubFinder{report: foundReport()}, "--json", "inception")

	var got core.Report
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if got.Title != "Inception" || !got.Score.Defined {
		t.Fatalf("unexpected report %+v", got)
	}
}

func TestLookupRequiresKeys(t *testing.T) {
	t.Setenv("MOVIEDB_KEY", "")
	t.Setenv("OMDB_KEY", "")

	configPath := filepath.Join(t.TempDir(), "missing.yml")
	debug := false
	cmd := newLookupCommand(newCommandContext(&configPath, &debug))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"inception"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected a validation error without API keys")
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"Source", "Rating"}, [][]string{{"IMDB"}}, nil)
	if !strings.Contains(out, "IMDB") || !strings.Contains(out, "RATING") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if strings.Contains(out, "<nil>") {
		t.Fatalf("short row rendered a nil cell:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}
