package metrics

import "github.com/prometheus/client_golang/prometheus"

// Browse Prometheus metrics.
var (
	BrowseSyncTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homico",
			Name:      "browse_url_sync_total",
			Help:      "Filter transitions by URL sync outcome",
		},
		[]string{"result"}, // "replaced" / "skipped"
	)

	BrowseSessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "homico",
			Name:      "browse_sessions_active",
			Help:      "Number of mounted browse sessions",
		},
	)

	ListingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homico",
			Name:      "listing_cache_total",
			Help:      "Listing cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homico",
			Name:      "backend_requests_total",
			Help:      "Total number of marketplace backend requests",
		},
		[]string{"endpoint", "status"},
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "homico",
			Name:      "backend_request_duration_seconds",
			Help:      "Marketplace backend request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"endpoint"},
	)
)

var browseMetricsRegistered bool

// RegisterBrowseMetrics registers browse, listing and backend metrics. Must be called once from main.
func RegisterBrowseMetrics() {
	if browseMetricsRegistered {
		return
	}
	prometheus.MustRegister(BrowseSyncTotal)
	prometheus.MustRegister(BrowseSessionsActive)
	prometheus.MustRegister(ListingCacheTotal)
	prometheus.MustRegister(BackendRequestsTotal)
	prometheus.MustRegister(BackendRequestDuration)
	browseMetricsRegistered = true
}
