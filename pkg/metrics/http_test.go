package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/art/trending", 200, 12*time.Millisecond)
	m.Observe("GET", "/art/trending", 200, 20*time.Millisecond)
	m.Observe("POST", "/art/{id}/toggle-like", 401, time.Millisecond)

	if got := testutil.CollectAndCount(reg, "http_requests_total"); got != 2 {
		t.Fatalf("expected 2 labeled series, got %d", got)
	}
}

func TestObserveOnNilReceiverIsNoop(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "/", 200, time.Second) // must not panic
}

func TestNormalizeRoute(t *testing.T) {
	if normalizeRoute("") != "unknown" {
		t.Fatal("empty route should normalize to unknown")
	}
}
