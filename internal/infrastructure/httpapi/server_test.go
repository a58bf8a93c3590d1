package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/filmorate/internal/application/handlers"
	"github.com/ersonp/filmorate/internal/domain/services"
	"github.com/ersonp/filmorate/internal/infrastructure/config"
	"github.com/ersonp/filmorate/internal/infrastructure/memory"
	"github.com/ersonp/filmorate/internal/infrastructure/metrics"
)

type testServer struct {
	*Server
	hook *test.Hook
}

func newTestServer(t *testing.T, limit config.RateLimitConfig) *testServer {
	t.Helper()
	logger, hook := test.NewNullLogger()

	workStore := memory.NewWorkStore()
	participantStore := memory.NewParticipantStore()
	rel := services.NewRelationshipService(participantStore, workStore)
	works := handlers.NewWorkHandler(workStore, rel, logger)
	participants := handlers.NewParticipantHandler(participantStore, rel, logger)

	m := metrics.New(func() int { return workStore.Count(context.Background()) }, func() int { return participantStore.Count(context.Background()) })

	return &testServer{
		Server: NewServer(Options{
			Works:        works,
			Participants: participants,
			Metrics:      m,
			Logger:       logger,
			RateLimit:    limit,
		}),
		hook: hook,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&v), rec.Body.String())
	return v
}

const matrixJSON = `{"name":"Matrix","description":"Wake up","releaseDate":"1999-03-31","duration":136}`

func TestServer_Scenario(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})

	rec := s.do(t, http.MethodPost, "/users", `{"email":"A@x.com","login":"neo","birthday":"1990-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decodeBody[participantResponse](t, rec)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "neo", user.Name)
	assert.Equal(t, "1990-01-01", user.Birthday)
	assert.Equal(t, []int64{}, user.Friends)

	rec = s.do(t, http.MethodPost, "/users", `{"email":"a@x.com","login":"trinity"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/films", matrixJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	film := decodeBody[workResponse](t, rec)
	assert.Equal(t, int64(1), film.ID)
	assert.Equal(t, "1999-03-31", film.ReleaseDate)

	rec = s.do(t, http.MethodPut, "/films/1/like/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[likeResponse](t, rec).Added)

	rec = s.do(t, http.MethodPut, "/films/1/like/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[likeResponse](t, rec).Added)

	rec = s.do(t, http.MethodGet, "/films/popular?count=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	popular := decodeBody[[]workResponse](t, rec)
	require.Len(t, popular, 1)
	assert.Equal(t, int64(1), popular[0].ID)
	assert.Equal(t, []int64{1}, popular[0].Likes)
}

func TestServer_ValidationErrors(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})

	tests := []struct {
		name  string
		path  string
		body  string
		field string
	}{
		{"missing film name", "/films", `{"releaseDate":"1999-03-31","duration":1}`, "name"},
		{"bad date format", "/films", `{"name":"X","releaseDate":"31.03.1999","duration":1}`, "releaseDate"},
		{"before cinema", "/films", `{"name":"X","releaseDate":"1895-12-27","duration":1}`, "releaseDate"},
		{"long description", "/films", `{"name":"X","description":"` + strings.Repeat("a", 201) + `","releaseDate":"1999-03-31","duration":1}`, "description"},
		{"negative duration", "/films", `{"name":"X","releaseDate":"1999-03-31","duration":-5}`, "duration"},
		{"bad email", "/users", `{"email":"nope","login":"x"}`, "email"},
		{"login with space", "/users", `{"email":"a@x.com","login":"a b"}`, "login"},
		{"future birthday", "/users", `{"email":"a@x.com","login":"a","birthday":"2999-01-01"}`, "birthday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			body := decodeBody[errorResponse](t, rec)
			assert.Contains(t, body.Details, tt.field)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/films", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update without id", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/films", matrixJSON)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad count", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/films/popular?count=many", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("zero path id", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/films/0", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_NotFound(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/films/9"},
		{http.MethodDelete, "/films/9"},
		{http.MethodGet, "/users/9"},
		{http.MethodGet, "/users/9/friends"},
		{http.MethodPut, "/users/9/friends/8"},
		{http.MethodGet, "/nowhere"},
	} {
		rec := s.do(t, tc.method, tc.path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
	}

	rec := s.do(t, http.MethodPut, "/films", `{"id":9,"name":"X","releaseDate":"1999-03-31","duration":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_FriendsFlow(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})

	for _, body := range []string{
		`{"email":"a@x.com","login":"a"}`,
		`{"email":"b@x.com","login":"b"}`,
		`{"email":"c@x.com","login":"c","name":"Cee"}`,
	} {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/users", body).Code)
	}

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPut, "/users/1/friends/3", "").Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPut, "/users/2/friends/3", "").Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPut, "/users/2/friends/3", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, "/users/2/friends/2", "").Code)

	rec := s.do(t, http.MethodGet, "/users/3/friends", "")
	require.Equal(t, http.StatusOK, rec.Code)
	friends := decodeBody[[]participantResponse](t, rec)
	require.Len(t, friends, 2)
	assert.Equal(t, int64(1), friends[0].ID)
	assert.Equal(t, int64(2), friends[1].ID)

	rec = s.do(t, http.MethodGet, "/users/1/friends/common/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	common := decodeBody[[]participantResponse](t, rec)
	require.Len(t, common, 1)
	assert.Equal(t, "Cee", common[0].Name)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/users/1/friends/3", "").Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/users/1/friends/1", "").Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/users/3", "").Code)

	rec = s.do(t, http.MethodGet, "/users/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[participantResponse](t, rec).Friends)

	rec = s.do(t, http.MethodPut, "/users", `{"id":2,"email":"b@x.com","login":"bee"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bee", decodeBody[participantResponse](t, rec).Name)

	rec = s.do(t, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]participantResponse](t, rec), 2)
}

func TestServer_WorksFlow(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/films", matrixJSON).Code)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/films", strings.Replace(matrixJSON, "Matrix", "MATRIX", 1)).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/users", `{"email":"a@x.com","login":"a"}`).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/films/1/like/1", "").Code)

	rec := s.do(t, http.MethodPut, "/films", `{"id":1,"name":"Matrix","description":"Reloaded cut","releaseDate":"1999-03-31","duration":140}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[workResponse](t, rec)
	assert.Equal(t, 140, updated.Duration)
	assert.Equal(t, []int64{1}, updated.Likes)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/films/1/like/1", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/films/1/like/5", "").Code)

	rec = s.do(t, http.MethodGet, "/films/popular", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]workResponse](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/films/popular?count=0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/films/1", "").Code)

	rec = s.do(t, http.MethodGet, "/films", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestServer_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/films", matrixJSON).Code)

	rec := s.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, healthResponse{Status: "ok", Works: 1}, decodeBody[healthResponse](t, rec))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	rec = s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `filmorate_http_requests_total{method="POST",route="/films",status="201"} 1`)
	assert.Contains(t, rec.Body.String(), "filmorate_catalog_works 1")
}

func TestServer_RequestIDPropagates(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{})

	req := httptest.NewRequest(http.MethodGet, "/films", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
	entry := s.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "req-42", entry.Data["request_id"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
}

func TestServer_RateLimit(t *testing.T) {
	s := newTestServer(t, config.RateLimitConfig{RPS: 0.001, Burst: 2})

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/films", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/films", "").Code)

	rec := s.do(t, http.MethodGet, "/films", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	req := httptest.NewRequest(http.MethodGet, "/films", nil)
	req.RemoteAddr = "198.51.100.7:5555"
	other := httptest.NewRecorder()
	s.ServeHTTP(other, req)
	assert.Equal(t, http.StatusOK, other.Code, "limits are per client")
}

func TestWriteJSON_LogsEncodeFailure(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	writeJSON(rec, req, logger, http.StatusOK, map[string]any{"ch": make(chan int)})

	assert.Equal(t, http.StatusOK, rec.Code)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "encoding response failed", entry.Message)
	assert.Contains(t, entry.Data, logrus.ErrorKey)
}
