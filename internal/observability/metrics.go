package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Evaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "viability", Name: "evaluations_total", Help: "Pipeline runs by outcome."},
		[]string{"outcome"}, // outcome: scored|no_score|error
	)
	ParseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "viability", Name: "assessment_parse_failures_total", Help: "Assessment texts that fell back to the zero feature vector."},
	)
	CorrectionFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "viability", Name: "correction_fallbacks_total", Help: "Runs that returned the uncorrected predicted score."},
	)
	GenerationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "viability", Name: "generation_duration_seconds",
			Help:    "Text generation duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"}, // stage: assessment|coordinates
	)
	PipelineLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "viability", Name: "pipeline_duration_seconds",
			Help:    "End-to-end single-site evaluation duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "viability", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(Evaluations, ParseFailures, CorrectionFallbacks, GenerationLatency, PipelineLatency, ExternalRequests)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveGeneration(stage string, dur time.Duration) {
	GenerationLatency.WithLabelValues(stage).Observe(dur.Seconds())
}

func ObservePipeline(dur time.Duration) {
	PipelineLatency.Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
}
