// Package search plans, fans out and aggregates clip searches.
//
// A search expands a filter into independent queries, runs them concurrently
// against the platform, then merges, deduplicates and ranks the clips. Failures of
// single lookups or queries are absorbed and counted; only a missing or expired
// credential fails a search.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Dagingo/clip-finder/internal/aggregator"
	"github.com/Dagingo/clip-finder/internal/clip"
	"github.com/Dagingo/clip-finder/internal/metrics"
	"github.com/Dagingo/clip-finder/internal/workerpool"
)

// ErrUnauthorized is returned when no usable credential is available at call time.
var ErrUnauthorized = errors.New("not authorized")

const tracerName = "github.com/Dagingo/clip-finder/internal/search"

// Report is the result of one search.
type Report struct {
	RunID      string
	Clips      []clip.Record
	Queries    int
	WithData   int
	Failed     int
	Duplicates int
	Unresolved []string
	Elapsed    time.Duration
}

// Summary renders the partial-outcome line shown to users.
func (r Report) Summary() string {
	return fmt.Sprintf("%d of %d sub-queries returned data (%d failed), %d clips", r.WithData, r.Queries, r.Failed, len(r.Clips))
}

// Service runs searches. It keeps no state between searches.
type Service struct {
	platform   Platform
	credential Credential
	pool       *workerpool.Pool
	logger     *slog.Logger
	now        func() time.Time
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithPool sets the worker pool shared by the fan-out.
func WithPool(pool *workerpool.Pool) ServiceOption {
	return func(s *Service) {
		if pool != nil {
			s.pool = pool
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for the search window.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a search Service.
func NewService(platform Platform, credential Credential, opts ...ServiceOption) *Service {
	s := &Service{
		platform:   platform,
		credential: credential,
		pool:       workerpool.New(workerpool.DefaultSearchSize),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs the whole pipeline for filter.
func (s *Service) Search(ctx context.Context, filter clip.Filter) (Report, error) {
	if s.credential == nil {
		return Report{}, fmt.Errorf("%w: no credential", ErrUnauthorized)
	}
	if _, err := s.credential.BearerToken(); err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "search")
	defer span.End()

	startedAt := time.Now()
	runID := uuid.NewString()
	logger := s.logger.With(slog.String("run_id", runID))

	logger.Info("search started",
		slog.Duration("window", filter.TimeWindow),
		slog.Any("categories", filter.Categories),
		slog.Any("channels", filter.Channels),
		slog.Any("languages", filter.Languages),
		slog.Int("maxResults", filter.MaxResults),
	)

	plan := Expand(ctx, filter, s.platform, s.now(), logger)
	pages := NewCoordinator(s.platform, s.pool, logger).RunAll(ctx, plan.Queries, filter.Languages)

	agg := aggregator.New()
	report := Report{
		RunID:      runID,
		Queries:    len(pages),
		Unresolved: plan.Unresolved,
	}
	for _, page := range pages {
		switch {
		case !page.OK():
			report.Failed++
		case len(page.Clips) > 0:
			report.WithData++
		}
		agg.AddPage(page.Clips)
	}
	report.Clips = agg.Ranked(filter.MaxResults)
	report.Duplicates = agg.Duplicates()
	report.Elapsed = time.Since(startedAt)

	metrics.SearchResults.Set(float64(len(report.Clips)))
	span.SetAttributes(
		attribute.String("run_id", runID),
		attribute.Int("queries", report.Queries),
		attribute.Int("failed", report.Failed),
		attribute.Int("results", len(report.Clips)),
	)
	logger.Info("search finished",
		slog.Int("queries", report.Queries),
		slog.Int("withData", report.WithData),
		slog.Int("failed", report.Failed),
		slog.Int("duplicates", report.Duplicates),
		slog.Int("results", len(report.Clips)),
		slog.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}
