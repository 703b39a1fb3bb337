package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/cloudadvisor/internal/testutil"
)

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
	mux.HandleFunc("GET /api/v1/boom", func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})
	mux.HandleFunc("GET /api/v1/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) Problem {
	t.Helper()
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	var p Problem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	return p
}

func newTestServer(t *testing.T, cfg Config) (*Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return New(cfg, testutil.Logger(), reg, pingRoutes{}), reg
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dev", w.Header().Get("X-Cloudadvisor-Version"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "cloudadvisor", body["service"])
	assert.Contains(t, body, "version")
}

func TestMetricsEndpoint(t *testing.T) {
	s, reg := newTestServer(t, Config{})
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "cloudadvisor_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cloudadvisor_test_total 1")
}

func TestRegistrarRoutesMounted(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRequestID(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36, "expected a UUID")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set(RequestIDHeader, "client-id-1")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "client-id-1", w.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	s, _ := newTestServer(t, Config{RateLimitRPS: 0.001, RateLimitBurst: 2})

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
			assert.True(t, strings.Contains(w.Body.String(), ProblemTypeRateLimited))
		}
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// Other clients keep their own budget.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.RemoteAddr = "198.51.100.7:4000"
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Health stays reachable.
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientLimiter_EvictsIdleClients(t *testing.T) {
	clock := testutil.NewClock()
	l := newClientLimiter(1, 1)
	l.now = clock.Func()

	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))

	clock.Advance(limiterIdleTTL + time.Minute)
	assert.True(t, l.allow("b"))
	l.mu.Lock()
	_, stillThere := l.clients["a"]
	l.mu.Unlock()
	assert.False(t, stillThere, "idle client should be evicted")
}

func TestUnmatchedRoutesAnswerProblems(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantType   string
	}{
		{"unknown path", http.MethodGet, "/api/v1/nope", http.StatusNotFound, ProblemTypeNotFound},
		{"wrong method", http.MethodDelete, "/api/v1/ping", http.StatusMethodNotAllowed, ProblemTypeMethodNotAllowed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			require.Equal(t, tc.wantStatus, w.Code)
			p := decodeProblem(t, w)
			assert.Equal(t, tc.wantType, p.Type)
			assert.Equal(t, tc.path, p.Instance)
			assert.NotEmpty(t, p.RequestID)
		})
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/ping", nil))
	assert.Contains(t, w.Header().Get("Allow"), http.MethodGet)
}

func TestMatchedRouteKeepsItsOwnResponse(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
}

func TestPanicBecomesInternalError(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/boom", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, ProblemTypeInternal, p.Type)

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code, "server keeps serving after a panic")
}
