package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"cinescore/internal/core"
	"cinescore/internal/utils"
)

type APIHandler struct {
	finder MovieFinder
	logger *utils.Logger
}

// A helper function to respond with JSON
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// A helper function to respond with a JSON error
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}

func NewAPIHandler(finder MovieFinder, logger *utils.Logger) *APIHandler {
	return &APIHandler{finder: finder, logger: logger}
}

// parseWeights reads the five weight fields. Missing, unparsable or
// negative values count as zero.
func parseWeights(values url.Values) core.Weights {
	weight := func(key string) float64 {
		v, err := strconv.ParseFloat(strings.TrimSpace(values.Get(key)), 64)
		if err != nil || v < 0 {
			return 0
		}
		return v
	}
	return core.Weights{
		MovieDB:        weight("movieDB"),
		IMDb:           weight("imdb"),
		RottenTomatoes: weight("rotten"),
		Metacritic:     weight("metacritic"),
		Metascore:      weight("metascore"),
	}
}

// FindMovie serves GET /api/v1/movie?title=...&movieDB=1&imdb=1...
func (h *APIHandler) FindMovie(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	title := strings.TrimSpace(query.Get("title"))
	if title == "" {
		respondError(w, http.StatusBadRequest, "Query parameter 'title' is required")
		return
	}

	report, err := h.finder.FindMovie(r.Context(), title, parseWeights(query))
	if err != nil {
		if errors.Is(err, core.ErrEmptyTitle) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Movie lookup failed:", err)
		respondError(w, http.StatusInternalServerError, "Movie lookup failed")
		return
	}
	report.RequestID = requestID(r)

	status := http.StatusOK
	if !report.Found {
		status = http.StatusNotFound
	}
	respondJSON(w, status, report)
}

// System status
func (h *APIHandler) GetSystemStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.finder.Status())
}
