package core

import (
	"context"

	"golang.org/x/sync/errgroup"

	"cinescore/internal/clients/metadata"
	"cinescore/internal/utils"
)

// RecallProvider does fuzzy title search and is trusted for the canonical
// title. TMDB in production.
type RecallProvider interface {
	Lookup(ctx context.Context, title string) metadata.Lookup[metadata.TMDBMovie]
}

// PrecisionProvider does exact title lookups and is trusted for ratings once
// it is given the right title. OMDb in production.
type PrecisionProvider interface {
	Lookup(ctx context.Context, title string) metadata.Lookup[metadata.OMDBMovie]
}

// Reconciled is the merged view of both providers for one query.
type Reconciled struct {
	TMDB    metadata.Lookup[metadata.TMDBMovie]
	OMDB    metadata.Lookup[metadata.OMDBMovie]
	Similar []metadata.SimilarMovie
	// Retried is set when OMDb was queried a second time with TMDB's title.
	Retried bool
}

// Empty reports whether neither provider matched.
func (r Reconciled) Empty() bool {
	return !r.TMDB.Found() && !r.OMDB.Found()
}

// Resolver runs both lookups and fixes title disagreements with at most one
// corrective OMDb query.
type Resolver struct {
	recall    RecallProvider
	precision PrecisionProvider
	logger    *utils.Logger
}

func NewResolver(recall RecallProvider, precision PrecisionProvider, logger *utils.Logger) *Resolver {
	if logger == nil {
		logger = utils.NopLogger()
	}
	return &Resolver{recall: recall, precision: precision, logger: logger}
}

func (r *Resolver) Resolve(ctx context.Context, title string) Reconciled {
	var rec Reconciled

	// Lookups never fail, so the group only serves as the join point.
	var g errgroup.Group
	g.Go(func() error {
		rec.TMDB = r.recall.Lookup(ctx, title)
		return nil
	})
	g.Go(func() error {
		rec.OMDB = r.precision.Lookup(ctx, title)
		return nil
	})
	_ = g.Wait()

	tmdb, ok := rec.TMDB.Get()
	if !ok {
		return rec
	}
	rec.Similar = tmdb.Similar

	omdb, omdbFound := rec.OMDB.Get()
	if omdbFound && omdb.Title == tmdb.Title {
		return rec
	}

	if omdbFound {
		r.logger.Info("titles disagree, retrying omdb with", tmdb.Title, "instead of", omdb.Title)
	} else {
		r.logger.Info("retrying omdb with tmdb title", tmdb.Title)
	}
	rec.OMDB = r.precision.Lookup(ctx, tmdb.Title)
	rec.Retried = true
	return rec
}
