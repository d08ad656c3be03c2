package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestObserveRecordsRequest(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewHTTPMetrics(registry)

	m.Observe("GET", "/api/v1/products", 200, 25*time.Millisecond)
	m.Observe("GET", "/api/v1/products", 200, 10*time.Millisecond)
	m.Observe("POST", "", 201, 5*time.Millisecond)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	byName := map[string]bool{}
	for _, family := range families {
		byName[family.GetName()] = true
		if family.GetName() == "http_requests_total" {
			var total float64
			for _, metric := range family.GetMetric() {
				total += metric.GetCounter().GetValue()
				for _, label := range metric.GetLabel() {
					if label.GetName() == "route" && label.GetValue() == "" {
						t.Fatalf("expected empty route to be normalized")
					}
				}
			}
			if total != 3 {
				t.Fatalf("expected 3 requests recorded, got %v", total)
			}
		}
	}
	if !byName["http_requests_total"] || !byName["http_request_duration_seconds"] {
		t.Fatalf("expected both metric families, got %v", byName)
	}
}

func TestObserveOnNilMetricsIsSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "/", 200, time.Millisecond)

	unregistered := NewHTTPMetrics(nil)
	unregistered.Observe("GET", "/", 200, time.Millisecond)
}
