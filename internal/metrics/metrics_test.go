package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestManagerRecords(t *testing.T) {
	m := NewManager()

	m.RecordFallback("github", "upstream_error")
	m.RecordFallback("github", "upstream_error")
	m.SetRosterEntries(3)
	m.ObserveModelCall("summarize", "ok", 120*time.Millisecond)
	m.RecordHTTPRequest(http.MethodGet, "/vibe/:identity", http.StatusOK, 10*time.Millisecond)

	if got := testutil.ToFloat64(m.fallbacks.WithLabelValues("github", "upstream_error")); got != 2 {
		t.Fatalf("expected 2 fallbacks, got %v", got)
	}
	if got := testutil.ToFloat64(m.rosterEntries); got != 3 {
		t.Fatalf("expected roster gauge 3, got %v", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/vibe/:identity", "200")); got != 1 {
		t.Fatalf("expected 1 http request, got %v", got)
	}
}

func TestManagerHandlerExposesMetrics(t *testing.T) {
	m := NewManager()
	m.RecordFallback("llm", "model_unavailable")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(string(body), `vibe_brain_fallbacks_total{kind="model_unavailable",source="llm"} 1`) {
		t.Fatalf("expected fallback counter in output, got:\n%s", body)
	}
}

func TestNilManagerIsNoop(t *testing.T) {
	var m *Manager
	m.RecordFallback("a", "b")
	m.SetRosterEntries(1)
	m.ObserveModelCall("x", "y", time.Second)
	m.RecordHTTPRequest("GET", "/", 200, time.Second)
	if m.Registry() != nil {
		t.Fatalf("expected nil registry")
	}
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from nil manager handler, got %d", rec.Code)
	}
}
