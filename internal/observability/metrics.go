package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "weft",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"app", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "weft",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"app", "method", "path", "status"},
	)
	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "weft",
			Subsystem: "dispatch",
			Name:      "total",
			Help:      "Controller dispatches by module, action and outcome.",
		},
		[]string{"module", "action", "outcome"},
	)
	dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "weft",
			Subsystem: "dispatch",
			Name:      "duration_seconds",
			Help:      "Controller dispatch duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"module", "action", "outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, dispatchTotal, dispatchDuration)
	})
}

func RecordHTTPRequest(app, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(app, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(app, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordDispatch(module, action, outcome string, duration time.Duration) {
	RegisterMetrics()
	dispatchTotal.WithLabelValues(module, action, outcome).Inc()
	dispatchDuration.WithLabelValues(module, action, outcome).Observe(duration.Seconds())
}
