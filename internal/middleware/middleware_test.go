package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetClientFromContext(r.Context()) + "|" + GetSessionFromContext(r.Context())))
	})
}

func TestAPIKeyAuth(t *testing.T) {
	h := APIKeyAuth(map[string]string{"web": "secret"})(okHandler())

	tests := []struct {
		name   string
		path   string
		header string
		code   int
		body   string
	}{
		{"missing header", "/v1/history", "", http.StatusUnauthorized, ""},
		{"wrong key", "/v1/history", "Bearer nope", http.StatusUnauthorized, ""},
		{"bearer", "/v1/history", "Bearer secret", http.StatusOK, "web|anonymous"},
		{"bare key", "/v1/history", "secret", http.StatusOK, "web|anonymous"},
		{"probe skips auth", "/healthz/live", "", http.StatusOK, "|anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestAPIKeyAuthDisabled(t *testing.T) {
	h := APIKeyAuth(nil)(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/session", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSession(t *testing.T) {
	h := Session(okHandler())

	tests := []struct {
		header string
		code   int
		body   string
	}{
		{"", http.StatusOK, "|anonymous"},
		{"abc_DEF-123", http.StatusOK, "|abc_DEF-123"},
		{"bad session!", http.StatusBadRequest, ""},
		{strings.Repeat("a", 65), http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
		req.Header.Set(SessionHeader, tt.header)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tt.code, rec.Code, tt.header)
		if tt.body != "" {
			assert.Equal(t, tt.body, rec.Body.String())
		}
	}
}

func TestRateLimiterPerSession(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewRateLimiter(2, 1)
	defer rl.Close()
	h := Session(rl.Middleware(okHandler()))

	do := func(session string) int {
		req := httptest.NewRequest(http.MethodPost, "/v1/audit", nil)
		req.Header.Set(SessionHeader, session)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("a"))
	assert.Equal(t, http.StatusOK, do("a"))
	assert.Equal(t, http.StatusTooManyRequests, do("a"))
	assert.Equal(t, http.StatusOK, do("b"))
}

func TestRateLimiterEvict(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewRateLimiter(1, 1)
	defer rl.Close()
	require.True(t, rl.Allow("k"))
	require.False(t, rl.Allow("k"))

	rl.evict(time.Now().Add(time.Hour), 10*time.Minute)
	assert.True(t, rl.Allow("k"))
}

type checkerFunc func(context.Context) error

func (f checkerFunc) Check(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	ok := checkerFunc(func(context.Context) error { return nil })
	down := checkerFunc(func(context.Context) error { return errors.New("connection refused") })

	rec := httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{"storage": ok})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{"storage": down})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var st HealthStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	assert.Equal(t, "unhealthy", st.Status)
	assert.Equal(t, "connection refused", st.Checks["storage"].Message)

	rec = httptest.NewRecorder()
	ReadinessHandler(map[string]HealthChecker{"storage": down})(rec, httptest.NewRequest(http.MethodGet, "/healthz/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	done := m.AnalysisStarted()
	assert.EqualValues(t, 1, m.Snapshot().AnalysesRunning)
	done(OutcomeSuperseded)
	m.AnalysisStarted()(OutcomeOK)

	s := m.Snapshot()
	assert.EqualValues(t, 1, s.RequestsTotal)
	assert.EqualValues(t, 1, s.RequestsFailed)
	assert.Zero(t, s.RequestsInProgress)
	assert.Zero(t, s.AnalysesRunning)
	assert.EqualValues(t, 2, s.AnalysesTotal)
	assert.EqualValues(t, 1, s.Analyses["superseded"])
	assert.EqualValues(t, 1, s.Analyses["ok"])

	rec := httptest.NewRecorder()
	m.Handler(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body, "analyses")
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidateHistoryID("3f2b8c1e-7a1d-4c55-9a0e-2f4d6b8e9c10"))
	assert.Error(t, ValidateHistoryID(""))
	assert.Error(t, ValidateHistoryID("../etc"))

	assert.NoError(t, ValidateInput("@creator"))
	assert.Error(t, ValidateInput(strings.Repeat("x", MaxInputLength+1)))

	assert.Equal(t, 5, ValidateLimit(0, 5, 100))
	assert.Equal(t, 100, ValidateLimit(500, 5, 100))
	assert.Equal(t, 7, ValidateLimit(7, 5, 100))
}
