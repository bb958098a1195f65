package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ObserveSearch(t *testing.T) {
	r := New(WithNamespace("test"))

	r.ObserveSearch(20*time.Millisecond, 12, nil)
	r.ObserveSearch(5*time.Millisecond, 0, errors.New("boom"))

	assert.Equal(t, 1, testutil.CollectAndCount(r.searchFailures))
	assert.InDelta(t, 1, testutil.ToFloat64(r.searchFailures.WithLabelValues("errors_errorstring")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(r.searchDuration))
}

func TestRegistry_ObserveHTTP(t *testing.T) {
	r := New()

	r.ObserveHTTP("GET /api/listings", http.MethodGet, 200, time.Millisecond)
	r.ObserveHTTP("GET /api/listings", http.MethodGet, 200, time.Millisecond)
	r.ObserveHTTP("GET /api/listings", http.MethodGet, 500, time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET /api/listings", "GET", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET /api/listings", "GET", "500")), 0)
}

func TestRegistry_ObserveDigestRun(t *testing.T) {
	r := New()
	now := time.Unix(1_700_000_000, 0)

	r.ObserveDigestRun(ResultSuccess, 4, now)
	r.ObserveDigestRun(ResultNoop, 0, now.Add(time.Hour))

	assert.InDelta(t, 4, testutil.ToFloat64(r.digestMatches), 0)
	assert.InDelta(t, float64(now.Unix()), testutil.ToFloat64(r.digestLastRun), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.digestRuns.WithLabelValues(ResultNoop)), 0)
}

func TestRegistry_Handler(t *testing.T) {
	r := New()
	r.CountVersionConflict("favorites")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `jobboard_userdata_version_conflicts_total{doc_key="favorites"} 1`))
}

func TestRegistry_NilIsNoop(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.ObserveHTTP("x", "GET", 200, time.Second)
		r.ObserveSearch(time.Second, 1, nil)
		r.ObserveDigestRun(ResultSuccess, 1, time.Now())
		r.CountVersionConflict("alerts")
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
