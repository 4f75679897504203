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

func TestRunCounters(t *testing.T) {
	m := New()

	m.RunStarted()
	if got := testutil.ToFloat64(m.runInProgress); got != 1 {
		t.Errorf("in progress = %v, want 1", got)
	}
	m.AddFrames(10, 2, 3)
	m.RunFinished(12*time.Second, true)
	m.IncFailures("transcribing")
	m.IncFailures("transcribing")
	m.IncCacheHits()

	if got := testutil.ToFloat64(m.runsTotal); got != 1 {
		t.Errorf("runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.runInProgress); got != 0 {
		t.Errorf("in progress = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.failuresTotal.WithLabelValues("transcribing")); got != 2 {
		t.Errorf("failures = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.frameErrors); got != 2 {
		t.Errorf("frame errors = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.telopsEmitted); got != 3 {
		t.Errorf("telops = %v, want 3", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.RunStarted()
	m.RunFinished(time.Second, false)
	m.IncFailures("downloading")
	m.AddFrames(1, 1, 1)
	m.ObserveRequest(http.StatusInternalServerError)
}

func TestObserveRequest(t *testing.T) {
	m := New()
	for _, status := range []int{http.StatusOK, http.StatusBadRequest, http.StatusOK, http.StatusBadGateway} {
		m.ObserveRequest(status)
	}

	if got := testutil.ToFloat64(m.requestsTotal); got != 4 {
		t.Errorf("requests = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.errorsTotal); got != 2 {
		t.Errorf("errors = %v, want 2", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.RunStarted()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "review_runs_total 1") {
		t.Errorf("metrics output missing review_runs_total:\n%s", body)
	}
}
