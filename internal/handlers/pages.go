package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"cinescore/internal/utils"
)

// PageHandler renders the HTML form flow.
type PageHandler struct {
	finder    MovieFinder
	logger    *utils.Logger
	templates *template.Template
}

func NewPageHandler(finder MovieFinder, logger *utils.Logger) (*PageHandler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	return &PageHandler{finder: finder, logger: logger, templates: tmpl}, nil
}

// FindRedirect sends stray GETs on /find back to the form.
func (h *PageHandler) FindRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

// FindMovie handles the search form post.
func (h *PageHandler) FindMovie(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	title := strings.TrimSpace(r.PostForm.Get("movie"))
	if title == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "No parameters given")
		return
	}

	report, err := h.finder.FindMovie(r.Context(), title, parseWeights(r.PostForm))
	if err != nil {
		h.logger.Error("Movie lookup failed:", err)
		http.Error(w, "Movie lookup failed", http.StatusInternalServerError)
		return
	}

	page := "movie"
	if !report.Found {
		page = "not_found"
	}

	// Render into a buffer so a template error never leaves half a page.
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, page, report); err != nil {
		h.logger.Error("Failed to render", page, "page:", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
