// Package workerpool runs independent tasks under a shared concurrency cap.
//
// A Pool is created once with its size and injected into every component
// that fans out work, so the limit is enforced in one place. Map blocks until
// every task has produced a Result; there is no cross-task cancellation.
package workerpool

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Default sizes used by clipfinder.
const (
	DefaultSearchSize   = 20
	DefaultDownloadSize = 5
)

// Result is the outcome of one task: a value, or the reason it failed.
type Result[R any] struct {
	Value R
	Err   error
}

// OK reports whether the task succeeded.
func (r Result[R]) OK() bool { return r.Err == nil }

// Pool bounds how many tasks run at the same time. It is safe for concurrent use
// and may be shared by several Map calls; the cap then applies to all of them together.
type Pool struct {
	size int64
	sem  *semaphore.Weighted
}

// New returns a pool running at most size tasks at once. Sizes below 1 become 1.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{size: int64(size), sem: semaphore.NewWeighted(int64(size))}
}

// Size returns the concurrency cap.
func (p *Pool) Size() int { return int(p.size) }

// Map runs fn for every item and returns one Result per item, index-aligned with items.
// A task whose slot cannot be acquired because ctx is done gets ctx.Err() as its result
// and fn is not called for it.
func Map[T, R any](ctx context.Context, p *Pool, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	if len(items) == 0 {
		return results
	}

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(index int, current T) {
			defer wg.Done()
			if err := p.sem.Acquire(ctx, 1); err != nil {
				results[index] = Result[R]{Err: err}
				return
			}
			defer p.sem.Release(1)

			value, err := fn(ctx, current)
			results[index] = Result[R]{Value: value, Err: err}
		}(i, item)
	}
	wg.Wait()
	return results
}

// Failed counts the results carrying an error.
func Failed[R any](results []Result[R]) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
