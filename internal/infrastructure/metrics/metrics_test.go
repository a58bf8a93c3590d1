package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New(nil, nil)

	m.ObserveRequest("get", "/films/{id}", http.StatusOK, 3*time.Millisecond)
	m.ObserveRequest("GET", "/films/{id}", http.StatusOK, time.Millisecond)
	m.ObserveRequest("GET", "/films/{id}", http.StatusNotFound, time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/films/{id}", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/films/{id}", "404")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestMetrics_TrackInFlight(t *testing.T) {
	m := New(nil, nil)

	done := m.TrackInFlight()
	assert.InDelta(t, 1, testutil.ToFloat64(m.inFlight), 0)
	done()
	assert.InDelta(t, 0, testutil.ToFloat64(m.inFlight), 0)
}

func TestMetrics_ObserveRateLimited(t *testing.T) {
	m := New(nil, nil)
	m.ObserveRateLimited("/users")
	assert.InDelta(t, 1, testutil.ToFloat64(m.rateLimited.WithLabelValues("/users")), 0)
}

func TestMetrics_Handler(t *testing.T) {
	works, participants := 3, 5
	m := New(func() int { return works }, func() int { return participants })
	m.ObserveRequest("GET", "/films", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, "filmorate_catalog_works 3")
	assert.Contains(t, text, "filmorate_catalog_participants 5")
	assert.Contains(t, text, `filmorate_http_requests_total{method="GET",route="/films",status="200"} 1`)

	works = 4
	rec = httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "filmorate_catalog_works 4")
}
