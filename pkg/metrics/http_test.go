package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("/shopify/get-cart", "GET", 200, 40*time.Millisecond)
	m.Observe("/shopify/get-cart", "GET", 404, 10*time.Millisecond)
	m.Observe("/shopify/cart/create", "POST", 500, 90*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := counterValue(mfs, "http_requests_total", map[string]string{
		"route": "/shopify/get-cart", "method": "GET", "status": "2xx",
	}); err != nil {
		t.Fatalf("fetch counter: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 request counted, got %f", got)
	}

	if got, err := counterValue(mfs, "http_requests_total", map[string]string{
		"route": "/shopify/cart/create", "method": "POST", "status": "5xx",
	}); err != nil {
		t.Fatalf("fetch counter: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 failure counted, got %f", got)
	}

	if got, err := histogramSum(mfs, "http_request_duration_seconds", map[string]string{
		"route": "/shopify/get-cart", "method": "GET",
	}); err != nil {
		t.Fatalf("fetch histogram: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("/x", "GET", 200, time.Millisecond)

	empty := NewHTTPMetrics(nil)
	empty.Observe("/x", "GET", 200, time.Millisecond)
}

func counterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func histogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	got := map[string]string{}
	for _, pair := range pairs {
		got[pair.GetName()] = pair.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}
