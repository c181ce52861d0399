// Package metrics holds the Prometheus collectors clipfinder updates.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SubqueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clipfinder",
		Name:      "subqueries_total",
		Help:      "Clip sub-queries by outcome (data, empty, error).",
	}, []string{"status"})

	SubqueriesInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "clipfinder",
		Name:      "subqueries_in_flight",
		Help:      "Clip sub-queries currently running.",
	})

	SubqueryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "clipfinder",
		Name:      "subquery_duration_seconds",
		Help:      "Clip sub-query duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	ResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clipfinder",
		Name:      "resolutions_total",
		Help:      "Name to id resolutions by kind (category, channel, top) and status.",
	}, []string{"kind", "status"})

	ResolutionCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "clipfinder",
		Name:      "resolution_cache_hits_total",
		Help:      "Name to id lookups answered from the cache.",
	})

	ThumbnailsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clipfinder",
		Name:      "thumbnails_total",
		Help:      "Thumbnail fetches by status (ok, error).",
	}, []string{"status"})

	DownloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clipfinder",
		Name:      "downloads_total",
		Help:      "Clip downloads by status (ok, error).",
	}, []string{"status"})

	SearchResults = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "clipfinder",
		Name:      "search_results",
		Help:      "Number of clips returned by the last search.",
	})
)

// Register adds every clipfinder collector to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		SubqueriesTotal,
		SubqueriesInFlight,
		SubqueryDuration,
		ResolutionsTotal,
		ResolutionCacheHits,
		ThumbnailsTotal,
		DownloadsTotal,
		SearchResults,
	)
}

// WriteTextfile dumps every metric gathered by g to path in the Prometheus text format,
// for pickup by a node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
