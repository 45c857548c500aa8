package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "field_timeline"

var (
	requestCountMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Count of http requests handled, by response status code and HTTP method",
	}, []string{"code", "method"})
	requestsInFlightMetric = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of requests currently being handled",
	})
	requestsDurationMetric = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_duration_seconds",
		Help:      "Histogram of time spent processing requests, by response status code and HTTP method",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	}, []string{"code", "method"})
	inspectionCountMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "inspector",
		Name:      "inspections_total",
		Help:      "Count of sequence inspections, by format and outcome",
	}, []string{"format", "outcome"})
	queryFailureCountMetric = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "inspector",
		Name:      "query_failures_total",
		Help:      "Count of timeline queries that ended in error",
	})
	decodeCountMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "timeline",
		Name:      "decodes_total",
		Help:      "Count of flattened timeline decodes, by outcome",
	}, []string{"outcome"})
)

// Inspection outcomes
const (
	outcomeOK      = "ok"
	outcomeInvalid = "invalid"
	outcomeFailed  = "failed"
)

func instrument(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerInFlight(requestsInFlightMetric,
		promhttp.InstrumentHandlerDuration(requestsDurationMetric,
			promhttp.InstrumentHandlerCounter(requestCountMetric, next)))
}
