package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Dagingo/clip-finder/internal/clip"
)

var errBackend = errors.New("backend unavailable")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePlatform answers lookups from maps and records every clip query it serves.
type fakePlatform struct {
	top        []string
	topErr     error
	categories map[string]string
	channels   map[string]string
	lookupErr  map[string]error

	clips     func(q clip.Query) ([]clip.Record, error)
	delay     time.Duration
	inFlight  atomic.Int32
	maxFlight atomic.Int32

	mu      sync.Mutex
	queries []clip.Query
}

func (f *fakePlatform) TopCategoryIDs(context.Context) ([]string, error) {
	return f.top, f.topErr
}

func (f *fakePlatform) CategoryID(_ context.Context, name string) (string, bool, error) {
	if err := f.lookupErr[name]; err != nil {
		return "", false, err
	}
	id, ok := f.categories[name]
	return id, ok, nil
}

func (f *fakePlatform) ChannelID(_ context.Context, name string) (string, bool, error) {
	if err := f.lookupErr[name]; err != nil {
		return "", false, err
	}
	id, ok := f.channels[name]
	return id, ok, nil
}

func (f *fakePlatform) FetchClips(ctx context.Context, q clip.Query) ([]clip.Record, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.maxFlight.Load()
		if n <= peak || f.maxFlight.CompareAndSwap(peak, n) {
			break
		}
	}

	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.clips == nil {
		return []clip.Record{}, nil
	}
	return f.clips(q)
}

type staticCredential struct {
	err error
}

func (c staticCredential) BearerToken() (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return "token", nil
}

func targets(queries []clip.Query) [][2]string {
	out := make([][2]string, 0, len(queries))
	for _, q := range queries {
		out = append(out, q.Target())
	}
	return out
}
