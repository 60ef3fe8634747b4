// Package metrics provides centralized Prometheus metrics registry for fairline.
package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fairline",
		Name:      "evaluations_total",
		Help:      "Total number of parlay evaluations by outcome",
	}, []string{"outcome"})
	MethodFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fairline",
		Name:      "method_failures_total",
		Help:      "Total number of devig method failures by method and error kind",
	}, []string{"method", "kind"})
	NegativeMarginLegsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fairline",
		Name:      "negative_margin_legs_total",
		Help:      "Total number of legs quoted with a negative margin",
	})
	APIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fairline",
		Name:      "api_requests_total",
		Help:      "Total number of API requests by route and status",
	}, []string{"route", "status"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fairline",
		Name:      "evaluation_cache_hits_total",
		Help:      "Total number of evaluations served from the result cache",
	})
)

// Gauge metrics
var (
	MethodEVPercent = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fairline",
		Name:      "method_ev_percent",
		Help:      "EV percentage of the most recent evaluation per devig method",
	}, []string{"method"})
)

// Histogram metrics
var (
	EvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fairline",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of parlay evaluations in seconds",
		Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})
	LegsPerEvaluation = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fairline",
		Name:      "legs_per_evaluation",
		Help:      "Number of legs per evaluated parlay",
		Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10, 15, 20},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(EvaluationsTotal)
		registry.MustRegister(MethodFailuresTotal)
		registry.MustRegister(NegativeMarginLegsTotal)
		registry.MustRegister(APIRequestsTotal)
		registry.MustRegister(CacheHitsTotal)

		registry.MustRegister(MethodEVPercent)

		registry.MustRegister(EvaluationDuration)
		registry.MustRegister(LegsPerEvaluation)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordEvaluation records a finished evaluation. outcome is "success" or an error kind.
func RecordEvaluation(outcome string, legs int, durationSeconds float64) {
	EvaluationsTotal.WithLabelValues(outcome).Inc()
	EvaluationDuration.Observe(durationSeconds)
	LegsPerEvaluation.Observe(float64(legs))
}

// RecordMethodFailure records a devig method failure.
func RecordMethodFailure(method, kind string) {
	MethodFailuresTotal.WithLabelValues(method, kind).Inc()
}

// RecordNegativeMargin records a leg quoted below 100%.
func RecordNegativeMargin() {
	NegativeMarginLegsTotal.Inc()
}

// UpdateMethodEV sets the latest EV percentage for a method.
func UpdateMethodEV(method string, ev float64) {
	MethodEVPercent.WithLabelValues(method).Set(ev)
}

// RecordAPIRequest records a served API request.
func RecordAPIRequest(route string, status int) {
	APIRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// RecordCacheHit records an evaluation served from cache.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}
