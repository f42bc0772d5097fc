package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the serving daemon's counters and histograms. It is built
// once at startup and passed explicitly to the handlers; there is no
// package-level registry.
type Metrics struct {
	registry *prometheus.Registry

	RequestCount    *prometheus.CounterVec
	RequestLatency  *prometheus.HistogramVec
	PredictionCount *prometheus.CounterVec
	ReloadCount     *prometheus.CounterVec
}

// New constructs and registers the collector set.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.RequestCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "app_request_count",
		Help: "Total number of requests to the app.",
	}, []string{"method", "endpoint"})

	m.RequestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "app_request_latency_seconds",
		Help:    "Latency of requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	m.PredictionCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "model_prediction_count",
		Help: "Count of predictions per price bucket.",
	}, []string{"bucket"})

	m.ReloadCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "model_reload_count",
		Help: "Count of artifact reload attempts by outcome.",
	}, []string{"outcome"})

	m.registry.MustRegister(m.RequestCount, m.RequestLatency, m.PredictionCount, m.ReloadCount)
	return m
}

// Handler serves the exposition endpoint for this metric set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// priceBucketBounds are the upper bounds, in rupees, of the fixed prediction
// buckets. Counting by bucket keeps the label cardinality bounded no matter
// what the regressor outputs.
var priceBucketBounds = []float64{100_000, 200_000, 500_000, 1_000_000, 2_000_000}

// PriceBucket maps a predicted price onto its fixed range label.
func PriceBucket(price float64) string {
	low := 0.0
	for _, bound := range priceBucketBounds {
		if price < bound {
			return fmt.Sprintf("%.0f-%.0f", low, bound)
		}
		low = bound
	}
	return fmt.Sprintf("%.0f+", low)
}

// ObservePrediction increments the bucketed prediction counter.
func (m *Metrics) ObservePrediction(price float64) {
	m.PredictionCount.WithLabelValues(PriceBucket(price)).Inc()
}
