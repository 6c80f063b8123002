package metrics

import "github.com/prometheus/client_golang/prometheus"

// Engine and enrichment Prometheus metrics.
var (
	EngineBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cinematch",
			Name:      "engine_build_duration_seconds",
			Help:      "Similarity engine build duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinematch",
			Name:      "recommendations_total",
			Help:      "Total recommendation queries",
		},
		[]string{"result"}, // "ok" / "not_found"
	)

	VectorizeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinematch",
			Name:      "vectorize_requests_total",
			Help:      "Total embedding provider requests",
		},
		[]string{"model", "status"},
	)

	VectorizeRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cinematch",
			Name:      "vectorize_request_duration_seconds",
			Help:      "Embedding provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	PosterRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinematch",
			Name:      "poster_requests_total",
			Help:      "Total poster lookups against the image provider",
		},
		[]string{"status"}, // "success" / "error" / "missing"
	)

	PosterCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinematch",
			Name:      "poster_cache_total",
			Help:      "Poster cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(EngineBuildDuration)
	prometheus.MustRegister(RecommendationsTotal)
	prometheus.MustRegister(VectorizeRequestsTotal)
	prometheus.MustRegister(VectorizeRequestDuration)
	prometheus.MustRegister(PosterRequestsTotal)
	prometheus.MustRegister(PosterCacheTotal)
	engineMetricsRegistered = true
}
