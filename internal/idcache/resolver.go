package idcache

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Dagingo/clip-finder/internal/metrics"
)

// Resolver is the lookup surface being cached.
type Resolver interface {
	TopCategoryIDs(ctx context.Context) ([]string, error)
	CategoryID(ctx context.Context, name string) (string, bool, error)
	ChannelID(ctx context.Context, name string) (string, bool, error)
}

// CachedResolver answers category and channel lookups from a Store before asking
// the wrapped Resolver. Top categories change constantly and are never cached.
// Store errors are logged and treated as misses.
type CachedResolver struct {
	next   Resolver
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedResolver wraps next. A non-positive ttl means DefaultTTL.
func NewCachedResolver(next Resolver, store Store, ttl time.Duration, logger *slog.Logger) *CachedResolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedResolver{next: next, store: store, ttl: ttl, logger: logger}
}

func (c *CachedResolver) TopCategoryIDs(ctx context.Context) ([]string, error) {
	return c.next.TopCategoryIDs(ctx)
}

func (c *CachedResolver) CategoryID(ctx context.Context, name string) (string, bool, error) {
	return c.lookup(ctx, "category", name, c.next.CategoryID)
}

func (c *CachedResolver) ChannelID(ctx context.Context, name string) (string, bool, error) {
	return c.lookup(ctx, "channel", name, c.next.ChannelID)
}

func (c *CachedResolver) lookup(
	ctx context.Context,
	kind, name string,
	resolve func(context.Context, string) (string, bool, error),
) (string, bool, error) {
	key := cacheKey(kind, name)

	id, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("id cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if ok {
		metrics.ResolutionCacheHits.Inc()
		return id, true, nil
	}

	id, found, err := resolve(ctx, name)
	if err != nil || !found || id == "" {
		return id, found, err
	}
	if err := c.store.Set(ctx, key, id, c.ttl); err != nil {
		c.logger.Warn("id cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return id, true, nil
}

func cacheKey(kind, name string) string {
	return kind + ":" + strings.ToLower(strings.TrimSpace(name))
}
