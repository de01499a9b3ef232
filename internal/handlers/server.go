package handlers

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"cinescore/internal/config"
	"cinescore/internal/core"
	"cinescore/internal/utils"
	"cinescore/web"
)

// MovieFinder is the slice of core.Manager the HTTP layer needs.
type MovieFinder interface {
	FindMovie(ctx context.Context, title string, weights core.Weights) (*core.Report, error)
	Status() map[string]core.ProviderStatus
}

type Server struct {
	config      *config.Config
	logger      *utils.Logger
	httpServer  *http.Server
	apiHandler  *APIHandler
	pageHandler *PageHandler
}

func NewServer(cfg *config.Config, finder MovieFinder, logger *utils.Logger) (*Server, error) {
	pages, err := NewPageHandler(finder, logger)
	if err != nil {
		return nil, err
	}
	return &Server{
		config:      cfg,
		logger:      logger,
		apiHandler:  NewAPIHandler(finder, logger),
		pageHandler: pages,
	}, nil
}

// Router wires every route. Exposed so tests can drive it with httptest.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware, securityHeadersMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/movie", s.apiHandler.FindMovie).Methods("GET")
	api.HandleFunc("/status", s.apiHandler.GetSystemStatus).Methods("GET")

	router.HandleFunc("/find", s.pageHandler.FindRedirect).Methods("GET")
	router.HandleFunc("/find", s.pageHandler.FindMovie).Methods("POST")

	if s.config.App.UIEnabled {
		router.PathPrefix("/").Handler(http.FileServer(http.FS(web.Files)))
	}
	return router
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.App.Port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	s.logger.Info("Starting server on port", s.config.App.Port)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

type ctxKey int

const requestIDKey ctxKey = iota

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Cross-Origin-Resource-Policy", "cross-origin")
		h.Set("Content-Security-Policy", "script-src 'self' https://apis.google.com")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(web.Templates, "*.html")
}
