package core

import (
	"math"
	"strconv"
	"strings"
)

const (
	sourceRottenTomatoes = "Rotten Tomatoes"
	sourceMetacritic     = "Metacritic"
	omdbNotApplicable    = "N/A"
)

// Weights sets how much each rating channel counts toward the composite.
// Negative and NaN weights count as zero.
type Weights struct {
	MovieDB        float64 `json:"movie_db"`
	IMDb           float64 `json:"imdb"`
	RottenTomatoes float64 `json:"rotten"`
	Metacritic     float64 `json:"metacritic"`
	Metascore      float64 `json:"metascore"`
}

// Composite is the weighted score on a 0-10 scale, rounded to one decimal.
// Defined is false when no channel carried any weight.
type Composite struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

func (c Composite) String() string {
	return strconv.FormatFloat(c.Value, 'f', 1, 64)
}

// channel is one rating already converted to the 0-10 scale.
type channel struct {
	name   string
	value  float64
	weight float64
}

// Score combines every available rating channel into a weighted mean.
// Channels whose source text is missing, "N/A" or unparsable are left out
// entirely and take their weight with them.
func Score(rec Reconciled, w Weights) Composite {
	return combine(channels(rec, w))
}

func channels(rec Reconciled, w Weights) []channel {
	var out []channel

	// TMDB reports 0 for unrated titles.
	if m, ok := rec.TMDB.Get(); ok && m.VoteAverage != 0 {
		out = append(out, channel{"moviedb", m.VoteAverage, clampWeight(w.MovieDB)})
	}

	m, ok := rec.OMDB.Get()
	if !ok {
		return out
	}
	if v, ok := parseDecimal(m.IMDbRating); ok {
		out = append(out, channel{"imdb", v, clampWeight(w.IMDb)})
	}
	if v, ok := parseDecimal(m.Metascore); ok {
		out = append(out, channel{"metascore", v / 10, clampWeight(w.Metascore)})
	}
	for _, rating := range m.Ratings {
		switch rating.Source {
		case sourceRottenTomatoes:
			if v, ok := parsePercent(rating.Value); ok {
				out = append(out, channel{"rotten", v / 10, clampWeight(w.RottenTomatoes)})
			}
		case sourceMetacritic:
			if v, ok := parseFraction(rating.Value); ok {
				out = append(out, channel{"metacritic", v * 10, clampWeight(w.Metacritic)})
			}
		}
	}
	return out
}

func combine(chs []channel) Composite {
	var total, weights float64
	for _, ch := range chs {
		total += ch.value * ch.weight
		weights += ch.weight
	}
	if weights <= 0 {
		return Composite{}
	}
	return Composite{Value: round1(total / weights), Defined: true}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clampWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == omdbNotApplicable {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parsePercent reads values like "87%".
func parsePercent(s string) (float64, bool) {
	return parseDecimal(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}

// parseFraction reads values like "74/100" and returns 0.74.
func parseFraction(s string) (float64, bool) {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found {
		return 0, false
	}
	x, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return 0, false
	}
	y, err := strconv.Atoi(strings.TrimSpace(den))
	if err != nil || y == 0 {
		return 0, false
	}
	return float64(x) / float64(y), true
}
