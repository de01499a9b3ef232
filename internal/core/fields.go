package core

import (
	"fmt"

	"cinescore/internal/clients/metadata"
)

const (
	PosterBaseLarge = "https://image.tmdb.org/t/p/w300"
	PosterBaseSmall = "https://image.tmdb.org/t/p/w185"

	notFound = "not found"
)

// Title prefers TMDB, then OMDb.
func (r Reconciled) Title() string {
	if m, ok := r.TMDB.Get(); ok {
		return m.Title
	}
	if m, ok := r.OMDB.Get(); ok {
		return m.Title
	}
	return notFound
}

// ReleaseInfo prefers TMDB's release_date, then OMDb's Released field.
func (r Reconciled) ReleaseInfo() string {
	if m, ok := r.TMDB.Get(); ok {
		return m.ReleaseDate
	}
	if m, ok := r.OMDB.Get(); ok {
		return m.Released
	}
	return notFound
}

// PosterURL builds the large TMDB poster URL, falling back to OMDb's poster.
func (r Reconciled) PosterURL() string {
	if m, ok := r.TMDB.Get(); ok {
		return PosterBaseLarge + m.PosterPath
	}
	if m, ok := r.OMDB.Get(); ok {
		return m.Poster
	}
	return ""
}

func SimilarPosterURL(s metadata.SimilarMovie) string {
	return PosterBaseSmall + s.PosterPath
}

// RatingLine is one raw rating as the provider reported it.
type RatingLine struct {
	Source string `json:"source"`
	Value  string `json:"value"`
}

// RatingLines lists every raw rating in display order: MovieDB, IMDB,
// Metascore, then OMDb's named sources.
func (r Reconciled) RatingLines() []RatingLine {
	var lines []RatingLine
	if m, ok := r.TMDB.Get(); ok {
		lines = append(lines, RatingLine{Source: "MovieDB", Value: fmt.Sprint(m.VoteAverage)})
	}
	if m, ok := r.OMDB.Get(); ok {
		lines = append(lines,
			RatingLine{Source: "IMDB", Value: m.IMDbRating},
			RatingLine{Source: "Metascore", Value: m.Metascore},
		)
		for _, rating := range m.Ratings {
			lines = append(lines, RatingLine{Source: rating.Source, Value: rating.Value})
		}
	}
	return lines
}
