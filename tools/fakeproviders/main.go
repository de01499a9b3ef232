// Command fakeproviders serves canned TMDB and OMDb responses for local runs.
//
// Point the config at it:
//
//	metadata:
//	  tmdb: {base_url: "http://localhost:8080/3"}
//	  omdb: {base_url: "http://localhost:8080/omdb"}
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
)

type fakeMovie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

type fakeRating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

type fakeOMDB struct {
	Title      string       `json:"Title"`
	Year       string       `json:"Year"`
	Released   string       `json:"Released"`
	Poster     string       `json:"Poster"`
	IMDbRating string       `json:"imdbRating"`
	Metascore  string       `json:"Metascore"`
	IMDbID     string       `json:"imdbID"`
	Ratings    []fakeRating `json:"Ratings"`
	Response   string       `json:"Response"`
}

// tmdbCatalog is keyed by lowercased search text.
var tmdbCatalog = map[string]fakeMovie{
	"inception": {ID: 27205, Title: "Inception", ReleaseDate: "2010-07-15", PosterPath: "/inception.jpg", VoteAverage: 8.4},
	"coraline":  {ID: 14836, Title: "Coraline", ReleaseDate: "2009-02-05", PosterPath: "/coraline.jpg", VoteAverage: 7.6},
	"tenet":     {ID: 577922, Title: "Tenet", ReleaseDate: "2020-08-22", PosterPath: "/tenet.jpg"},
}

// omdbCatalog is keyed by the exact t= parameter, so a search with loose
// text misses and the client retries with the TMDB title.
var omdbCatalog = map[string]fakeOMDB{
	"Inception": {
		Title: "Inception", Year: "2010", Released: "16 Jul 2010", Poster: "N/A",
		IMDbRating: "8.8", Metascore: "74", IMDbID: "tt1375666",
		Ratings: []fakeRating{{"Internet Movie Database", "8.8/10"}, {"Rotten Tomatoes", "87%"}, {"Metacritic", "74/100"}},
	},
	"Coraline": {
		Title: "Coraline", Year: "2009", Released: "06 Feb 2009", Poster: "N/A",
		IMDbRating: "7.7", Metascore: "80", IMDbID: "tt0327597",
		Ratings: []fakeRating{{"Internet Movie Database", "7.7/10"}, {"Rotten Tomatoes", "90%"}, {"Metacritic", "80/100"}},
	},
}

var similar = map[int64][]fakeMovie{
	27205: {{Title: "Interstellar", PosterPath: "/interstellar.jpg"}, {Title: "Tenet", PosterPath: "/tenet.jpg"}},
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /3/search/movie", searchHandler)
	mux.HandleFunc("GET /3/movie/{id}/similar", similarHandler)
	mux.HandleFunc("GET /3/configuration", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"images": map[string]string{"secure_base_url": "https://image.tmdb.org/t/p/"}})
	})
	mux.HandleFunc("GET /omdb/", omdbHandler)

	fmt.Println("Fake TMDB + OMDb server starting on :8080")
	fmt.Println("Known titles: inception, coraline, tenet (TMDB only)")
	log.Fatal(http.ListenAndServe(":8080", mux))
}

func searchHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	log.Printf("tmdb search %q", query)

	results := []fakeMovie{}
	if m, ok := tmdbCatalog[query]; ok {
		results = append(results, m)
	}
	writeJSON(w, map[string]any{"page": 1, "results": results, "total_results": len(results)})
}

func similarHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "bad id", http.StatusNotFound)
		return
	}
	results := similar[id]
	if results == nil {
		results = []fakeMovie{}
	}
	writeJSON(w, map[string]any{"page": 1, "results": results, "total_results": len(results)})
}

func omdbHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("apikey") == "" {
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(w, map[string]string{"Response": "False", "Error": "No API key provided."})
		return
	}
	// Ping uses i= with a fixed id.
	if q.Get("i") != "" {
		writeJSON(w, fakeOMDB{Title: "The Shawshank Redemption", IMDbID: q.Get("i"), Response: "True"})
		return
	}

	title := q.Get("t")
	log.Printf("omdb title %q", title)
	m, ok := omdbCatalog[title]
	if !ok {
		writeJSON(w, map[string]string{"Response": "False", "Error": "Movie not found!"})
		return
	}
	m.Response = "True"
	writeJSON(w, m)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode: %v", err)
	}
}
