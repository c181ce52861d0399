package search

import (
	"context"
	"log/slog"

	"github.com/Dagingo/clip-finder/internal/clip"
	"github.com/Dagingo/clip-finder/internal/workerpool"
)

// Coordinator runs sub-queries concurrently under the pool's cap.
type Coordinator struct {
	source ClipSource
	pool   *workerpool.Pool
	logger *slog.Logger
}

// NewCoordinator creates a Coordinator. A nil pool gets the default search size.
func NewCoordinator(source ClipSource, pool *workerpool.Pool, logger *slog.Logger) *Coordinator {
	if pool == nil {
		pool = workerpool.New(workerpool.DefaultSearchSize)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{source: source, pool: pool, logger: logger}
}

// RunAll dispatches every query and waits for all of them. The result holds exactly
// one page per query, in dispatch order, whatever the completion order was.
func (c *Coordinator) RunAll(ctx context.Context, queries []clip.Query, languages []string) []Page {
	if len(queries) == 0 {
		return []Page{}
	}

	results := workerpool.Map(ctx, c.pool, queries, func(ctx context.Context, q clip.Query) (Page, error) {
		return FetchPage(ctx, c.source, q, languages, c.logger), nil
	})

	pages := make([]Page, len(queries))
	for i, r := range results {
		if r.Err != nil {
			c.logger.Warn("clip query not started",
				slog.String("query", queries[i].String()),
				slog.String("error", r.Err.Error()),
			)
			pages[i] = Page{Query: queries[i], Clips: []clip.Record{}, Err: r.Err}
			continue
		}
		pages[i] = r.Value
	}
	return pages
}
