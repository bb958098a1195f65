package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandlerGET(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	healthHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthHandlerHEAD(t *testing.T) {
	req := httptest.NewRequest(http.MethodHead, "/healthz", nil)
	rec := httptest.NewRecorder()

	healthHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, rec.Body.Len(), "expected empty body for HEAD request")
}

func TestReadinessHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp 10.0.0.4:5432: connect: refused") }

	t.Run("all healthy", func(t *testing.T) {
		rec := httptest.NewRecorder()
		readinessHandler(map[string]HealthCheck{"listings_db": ok, "redis": ok})(
			rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"OK","checks":{"listings_db":"ok","redis":"ok"}}`, rec.Body.String())
	})

	t.Run("one down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		readinessHandler(map[string]HealthCheck{"listings_db": down, "redis": ok})(
			rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"listings_db":"unavailable"`)
		assert.NotContains(t, rec.Body.String(), "10.0.0.4")
	})
}
