// Package metrics объявляет метрики Prometheus платформы.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests количество обработанных HTTP-запросов.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "task_platform",
		Name:      "http_requests_total",
		Help:      "Number of HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	// HTTPDuration длительность обработки HTTP-запросов.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "task_platform",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// CacheHits попадания в кеш ответов.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "task_platform",
		Name:      "cache_hits_total",
		Help:      "Cached read hits by entity kind.",
	}, []string{"kind"})

	// CacheMisses промахи кеша ответов.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "task_platform",
		Name:      "cache_misses_total",
		Help:      "Cached read misses by entity kind.",
	}, []string{"kind"})

	// Invalidations сброшенные ключи кеша.
	Invalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "task_platform",
		Name:      "cache_invalidations_total",
		Help:      "Cache invalidations by entity kind.",
	}, []string{"kind"})
)
