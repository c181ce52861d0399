package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dagingo/clip-finder/internal/clip"
	"github.com/Dagingo/clip-finder/internal/metrics"
)

// Page is the outcome of one sub-query. A failed sub-query carries Err and no clips.
type Page struct {
	Query clip.Query
	Clips []clip.Record
	Err   error
}

// OK reports whether the sub-query succeeded.
func (p Page) OK() bool { return p.Err == nil }

// FetchPage runs one sub-query and keeps the clips whose language is in languages
// (all clips when languages is empty), preserving their order. It never returns an
// error: a failure is logged and recorded on the page, which then holds no clips.
func FetchPage(ctx context.Context, source ClipSource, q clip.Query, languages []string, logger *slog.Logger) Page {
	if logger == nil {
		logger = slog.Default()
	}

	metrics.SubqueriesInFlight.Inc()
	startedAt := time.Now()
	records, err := source.FetchClips(ctx, q)
	metrics.SubqueriesInFlight.Dec()
	metrics.SubqueryDuration.Observe(time.Since(startedAt).Seconds())
	if err != nil {
		metrics.SubqueriesTotal.WithLabelValues("error").Inc()
		logger.Warn("clip query failed",
			slog.String("query", q.String()),
			slog.String("error", err.Error()),
		)
		return Page{Query: q, Clips: []clip.Record{}, Err: err}
	}

	kept := make([]clip.Record, 0, len(records))
	for _, r := range records {
		if clip.MatchesLanguage(languages, r.Language) {
			kept = append(kept, r)
		}
	}

	status := "data"
	if len(kept) == 0 {
		status = "empty"
	}
	metrics.SubqueriesTotal.WithLabelValues(status).Inc()
	logger.Debug("clip query done",
		slog.String("query", q.String()),
		slog.Int("received", len(records)),
		slog.Int("kept", len(kept)),
	)
	return Page{Query: q, Clips: kept}
}
