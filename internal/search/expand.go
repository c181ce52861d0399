package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dagingo/clip-finder/internal/clip"
	"github.com/Dagingo/clip-finder/internal/metrics"
)

// Plan is the outcome of expanding a filter.
type Plan struct {
	Queries    []clip.Query
	Unresolved []string
}

type resolved struct {
	name string
	id   string
	ok   bool
}

// Expand turns a filter into independent clip queries.
//
// Without categories and channels it targets the platform's top categories.
// Otherwise every (category, channel) pair is emitted, where either side may be
// absent but not both. Pairs naming something that did not resolve are skipped,
// and pairs resolving to the same ids are emitted once. Resolution failures are
// logged and never abort the expansion; an empty plan is a valid result.
func Expand(ctx context.Context, filter clip.Filter, resolver Resolver, now time.Time, logger *slog.Logger) Plan {
	if logger == nil {
		logger = slog.Default()
	}
	base := clip.Query{
		Start:    now.Add(-filter.TimeWindow),
		End:      now,
		PageSize: clip.MaxPageSize,
	}

	plan := Plan{Queries: make([]clip.Query, 0)}

	if len(filter.Categories) == 0 && len(filter.Channels) == 0 {
		ids, err := resolver.TopCategoryIDs(ctx)
		if err != nil {
			metrics.ResolutionsTotal.WithLabelValues("top", "error").Inc()
			logger.Warn("top categories lookup failed", slog.String("error", err.Error()))
			return plan
		}
		metrics.ResolutionsTotal.WithLabelValues("top", "ok").Inc()
		seen := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			q := base
			q.CategoryID = id
			plan.Queries = append(plan.Queries, q)
		}
		return plan
	}

	categories := make([]resolved, 0, len(filter.Categories)+1)
	for _, name := range filter.Categories {
		r := resolveName(ctx, "category", name, resolver.CategoryID, logger)
		if !r.ok {
			plan.Unresolved = append(plan.Unresolved, name)
		}
		categories = append(categories, r)
	}
	channels := make([]resolved, 0, len(filter.Channels)+1)
	for _, name := range filter.Channels {
		r := resolveName(ctx, "channel", name, resolver.ChannelID, logger)
		if !r.ok {
			plan.Unresolved = append(plan.Unresolved, name)
		}
		channels = append(channels, r)
	}

	// The zero value stands for "no constraint" on that side of the pair.
	none := resolved{ok: true}
	categories = append(categories, none)
	channels = append(channels, none)

	seen := make(map[[2]string]struct{})
	for _, category := range categories {
		if !category.ok {
			continue
		}
		for _, channel := range channels {
			if !channel.ok {
				continue
			}
			if category.id == "" && channel.id == "" {
				continue
			}
			q := base
			q.CategoryID = category.id
			q.ChannelID = channel.id
			if _, dup := seen[q.Target()]; dup {
				continue
			}
			seen[q.Target()] = struct{}{}
			plan.Queries = append(plan.Queries, q)
		}
	}

	return plan
}

func resolveName(
	ctx context.Context,
	kind, name string,
	lookup func(context.Context, string) (string, bool, error),
	logger *slog.Logger,
) resolved {
	id, found, err := lookup(ctx, name)
	switch {
	case err != nil:
		metrics.ResolutionsTotal.WithLabelValues(kind, "error").Inc()
		logger.Warn("name lookup failed, skipping",
			slog.String("kind", kind),
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return resolved{name: name}
	case !found || id == "":
		metrics.ResolutionsTotal.WithLabelValues(kind, "not_found").Inc()
		logger.Warn("name not found, skipping", slog.String("kind", kind), slog.String("name", name))
		return resolved{name: name}
	default:
		metrics.ResolutionsTotal.WithLabelValues(kind, "ok").Inc()
		return resolved{name: name, id: id, ok: true}
	}
}
