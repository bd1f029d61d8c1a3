// Package monitoring exposes Prometheus metrics for the catalog and bookings.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"devevent/internal/domain"
)

var (
	validationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devevent_validation_failures_total",
			Help: "Rejected candidate records by entity, failure kind and field",
		},
		[]string{"entity", "kind", "field"},
	)

	recordsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devevent_records_created_total",
			Help: "Records persisted by entity",
		},
		[]string{"entity"},
	)

	slugRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "devevent_slug_retries_total",
			Help: "Writes retried after the store rejected a duplicate slug",
		},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "devevent_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordValidationFailure counts err when it is a validation error; other
// errors are ignored.
func RecordValidationFailure(entity string, err error) {
	ve, ok := domain.AsValidationError(err)
	if !ok {
		return
	}
	validationFailures.WithLabelValues(entity, string(ve.Kind), ve.Field).Inc()
}

func RecordCreated(entity string) {
	recordsCreated.WithLabelValues(entity).Inc()
}

func RecordSlugRetry() {
	slugRetries.Inc()
}

// ObserveRequest records one HTTP request. route should be the mux pattern,
// not the raw path, to keep label cardinality bounded.
func ObserveRequest(r *http.Request, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	requestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
