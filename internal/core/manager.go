package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"cinescore/internal/clients/metadata"
	"cinescore/internal/config"
	"cinescore/internal/utils"
)

// ErrEmptyTitle is returned when FindMovie is called without a title.
var ErrEmptyTitle = errors.New("movie title is required")

// Pinger is implemented by provider clients that can be health checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderStatus is the outcome of the latest health probe for one provider.
type ProviderStatus struct {
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// SimilarMovieView is a similar title with its poster URL resolved.
type SimilarMovieView struct {
	Title     string `json:"title"`
	PosterURL string `json:"poster_url"`
}

// Report is the plain result handed to the presentation layer.
type Report struct {
	RequestID string             `json:"request_id,omitempty"`
	Query     string             `json:"query"`
	Found     bool               `json:"found"`
	Title     string             `json:"title"`
	Release   string             `json:"release"`
	PosterURL string             `json:"poster_url"`
	Ratings   []RatingLine       `json:"ratings"`
	Similar   []SimilarMovieView `json:"similar"`
	Score     Composite          `json:"score"`
	Retried   bool               `json:"retried"`
}

type providers struct {
	recall    RecallProvider
	precision PrecisionProvider
	pingers   map[string]Pinger
}

type Manager struct {
	logger    *utils.Logger
	scheduler *cron.Cron
	schedule  string

	// probes tracks the probe started outside cron by StartScheduler.
	probes sync.WaitGroup

	mu        sync.RWMutex
	providers providers
	status    map[string]ProviderStatus

	// scorer is swapped in tests to observe when scoring happens.
	scorer func(Reconciled, Weights) Composite
}

func NewManager(cfg *config.Config, logger *utils.Logger) (*Manager, error) {
	p, err := buildProviders(cfg, logger)
	if err != nil {
		return nil, err
	}
	m := NewManagerWithProviders(p.recall, p.precision, logger)
	m.providers.pingers = p.pingers
	m.schedule = cfg.Health.Schedule
	return m, nil
}

// NewManagerWithProviders builds a manager around existing providers, which
// lets tests substitute fakes.
func NewManagerWithProviders(recall RecallProvider, precision PrecisionProvider, logger *utils.Logger) *Manager {
	if logger == nil {
		logger = utils.NopLogger()
	}
	return &Manager{
		logger:    logger,
		scheduler: cron.New(),
		providers: providers{recall: recall, precision: precision, pingers: map[string]Pinger{}},
		status:    make(map[string]ProviderStatus),
		scorer:    Score,
	}
}

func buildProviders(cfg *config.Config, logger *utils.Logger) (providers, error) {
	timeout, err := cfg.ProviderTimeout()
	if err != nil {
		return providers{}, err
	}
	httpClient := &http.Client{Timeout: timeout}

	tmdb, err := metadata.NewTMDBClient(cfg.Metadata.TMDB.APIKey,
		metadata.WithBaseURL(cfg.Metadata.TMDB.BaseURL),
		metadata.WithLanguage(cfg.Metadata.Language),
		metadata.WithHTTPClient(httpClient),
		metadata.WithLogger(logger))
	if err != nil {
		return providers{}, err
	}
	omdb, err := metadata.NewOMDBClient(cfg.Metadata.OMDB.APIKey,
		metadata.WithBaseURL(cfg.Metadata.OMDB.BaseURL),
		metadata.WithHTTPClient(httpClient),
		metadata.WithLogger(logger))
	if err != nil {
		return providers{}, err
	}
	return providers{
		recall:    tmdb,
		precision: omdb,
		pingers:   map[string]Pinger{"tmdb": tmdb, "omdb": omdb},
	}, nil
}

// Reload swaps in provider clients built from cfg. Requests already running
// keep the clients they started with.
func (m *Manager) Reload(cfg *config.Config) error {
	p, err := buildProviders(cfg, m.logger)
	if err != nil {
		return fmt.Errorf("rebuild providers: %w", err)
	}
	m.mu.Lock()
	m.providers = p
	m.mu.Unlock()
	m.logger.Info("Metadata providers reloaded")
	return nil
}

func (m *Manager) snapshot() providers {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.providers
}

// FindMovie resolves title against both providers and scores the result.
// Provider failures never surface here; a title neither provider knows comes
// back as a Report with Found=false and an undefined score.
func (m *Manager) FindMovie(ctx context.Context, title string, weights Weights) (*Report, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	p := m.snapshot()
	rec := NewResolver(p.recall, p.precision, m.logger).Resolve(ctx, title)

	report := &Report{
		Query:   title,
		Found:   !rec.Empty(),
		Title:   rec.Title(),
		Release: rec.ReleaseInfo(),
		Retried: rec.Retried,
		Ratings: []RatingLine{},
		Similar: []SimilarMovieView{},
	}
	if !report.Found {
		m.logger.Info("No provider matched", title)
		return report, nil
	}

	report.PosterURL = rec.PosterURL()
	report.Ratings = append(report.Ratings, rec.RatingLines()...)
	for _, s := range rec.Similar {
		report.Similar = append(report.Similar, SimilarMovieView{Title: s.Title, PosterURL: SimilarPosterURL(s)})
	}
	report.Score = m.scorer(rec, weights)

	m.logger.Debug("Resolved", title, "as", report.Title, "score", report.Score.String())
	return report, nil
}

// StartScheduler runs provider health probes on the configured schedule and
// once immediately.
func (m *Manager) StartScheduler() error {
	if m.schedule == "" {
		m.logger.Info("Provider health probes disabled")
		return nil
	}
	if _, err := m.scheduler.AddFunc(m.schedule, m.probeProviders); err != nil {
		return fmt.Errorf("schedule health probes %q: %w", m.schedule, err)
	}
	m.scheduler.Start()
	m.logger.Info("Scheduler started. Probing metadata providers.")
	m.probes.Add(1)
	go func() {
		defer m.probes.Done()
		m.probeProviders()
	}()
	return nil
}

// Stop halts the scheduler and waits for any probe still running.
func (m *Manager) Stop() {
	if m.scheduler != nil {
		<-m.scheduler.Stop().Done()
	}
	m.probes.Wait()
}

func (m *Manager) probeProviders() {
	p := m.snapshot()
	for name, pinger := range p.pingers {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err := pinger.Ping(ctx)
		cancel()

		st := ProviderStatus{OK: err == nil, CheckedAt: time.Now()}
		if err != nil {
			st.Error = err.Error()
			m.logger.Warn("Health probe failed for", name+":", err)
		}
		m.mu.Lock()
		m.status[name] = st
		m.mu.Unlock()
	}
}

// Status returns the latest probe result per provider.
func (m *Manager) Status() map[string]ProviderStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]ProviderStatus, len(m.status))
	for k, v := range m.status {
		out[k] = v
	}
	return out
}
