// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Total number of search requests processed",
		},
		[]string{"mode"},
	)

	SearchesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_failed_total",
			Help: "Total number of search requests that failed",
		},
		[]string{"mode", "error_code"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "search_duration_seconds",
			Help: "Duration of search request processing in seconds",
		},
		[]string{"mode"},
	)

	ShortlistSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_shortlist_size",
			Help:    "Number of candidates returned by the shortlist query",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"mode", "backend"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	DictionarySkillsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skill_dictionary_resolved_total",
			Help: "Total number of skills resolved to an embedding",
		},
		[]string{"outcome"},
	)
)
