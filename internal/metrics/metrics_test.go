package metrics_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"carprice/internal/metrics"
)

func TestPriceBucketBoundaries(t *testing.T) {
	cases := []struct {
		price float64
		want  string
	}{
		{0, "0-100000"},
		{99_999, "0-100000"},
		{100_000, "100000-200000"},
		{199_999.99, "100000-200000"},
		{200_000, "200000-500000"},
		{500_000, "500000-1000000"},
		{1_000_000, "1000000-2000000"},
		{2_000_000, "2000000+"},
		{9_500_000, "2000000+"},
	}
	for _, tc := range cases {
		if got := metrics.PriceBucket(tc.price); got != tc.want {
			t.Errorf("PriceBucket(%g) = %q, want %q", tc.price, got, tc.want)
		}
	}
}

func TestObservePredictionAppearsInExposition(t *testing.T) {
	m := metrics.New()
	m.ObservePrediction(350_000)
	m.ObservePrediction(350_000)
	m.RequestCount.WithLabelValues("GET", "/").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	if !strings.Contains(body, `model_prediction_count{bucket="200000-500000"} 2`) {
		t.Fatalf("prediction counter missing from exposition:\n%s", body)
	}
	if !strings.Contains(body, `app_request_count{endpoint="/",method="GET"} 1`) {
		t.Fatalf("request counter missing from exposition:\n%s", body)
	}
}

func TestSeparateMetricSetsAreIndependent(t *testing.T) {
	a := metrics.New()
	b := metrics.New()
	a.ObservePrediction(50_000)

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if strings.Contains(rec.Body.String(), "model_prediction_count{") {
		t.Fatal("second metric set observed the first set's predictions")
	}
}
