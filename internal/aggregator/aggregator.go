// Package aggregator merges clip pages from many queries into one ranked list.
//
// This package enables clipfinder to:
// - Merge pages in the order they were dispatched
// - Drop duplicate clips, keeping the first one seen
// - Rank by view count and cut the list to the requested size
package aggregator

import (
	"slices"

	"github.com/Dagingo/clip-finder/internal/clip"
)

// Aggregator collects clip pages and produces the ranked result set.
// It is not safe for concurrent use; pages are added after the fan-out join.
type Aggregator struct {
	records []clip.Record
	seen    map[string]struct{}
	dropped int
}

// New creates an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		records: make([]clip.Record, 0),
		seen:    make(map[string]struct{}),
	}
}

// AddPage appends one page in its own order. Records whose ID was already seen are discarded.
func (a *Aggregator) AddPage(page []clip.Record) {
	for _, r := range page {
		if _, ok := a.seen[r.ID]; ok {
			a.dropped++
			continue
		}
		a.seen[r.ID] = struct{}{}
		a.records = append(a.records, r)
	}
}

// Duplicates returns how many records were discarded as duplicates.
func (a *Aggregator) Duplicates() int {
	return a.dropped
}

// Ranked returns at most limit unique records, most viewed first.
// Equal view counts keep their first-seen order. limit <= 0 yields an empty, non-nil slice.
func (a *Aggregator) Ranked(limit int) []clip.Record {
	if limit <= 0 {
		return []clip.Record{}
	}

	ranked := slices.Clone(a.records)
	slices.SortStableFunc(ranked, func(x, y clip.Record) int {
		switch {
		case x.ViewCount > y.ViewCount:
			return -1
		case x.ViewCount < y.ViewCount:
			return 1
		default:
			return 0
		}
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if ranked == nil {
		return []clip.Record{}
	}
	return ranked
}

// Aggregate flattens pages, deduplicates by ID (first seen wins), sorts by
// view count descending and truncates to maxResults.
func Aggregate(pages [][]clip.Record, maxResults int) []clip.Record {
	agg := New()
	for _, page := range pages {
		agg.AddPage(page)
	}
	return agg.Ranked(maxResults)
}
