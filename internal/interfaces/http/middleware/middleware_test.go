package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hapkiduki/fulfillment-go/internal/infrastructure/logging"
	"github.com/hapkiduki/fulfillment-go/pkg/logger"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-id", seen)
	assert.Equal(t, "upstream-id", rec.Header().Get(RequestIDHeader))
}

func TestLogger_IncludesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := logging.NewAdapter(logger.FromZap(zap.New(core)))

	h := RequestID(Logger(log)(ok))
	req := httptest.NewRequest(http.MethodPost, "/v1/plans", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, int64(http.StatusNoContent), fields["status"])
	assert.Equal(t, "/v1/plans", fields["path"])
}

type recordingMetrics struct {
	mu       sync.Mutex
	counters []map[string]string
	timings  int
}

func (m *recordingMetrics) Counter(_ string, _ float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, tags)
}

func (m *recordingMetrics) Gauge(string, float64, map[string]string) {}
func (m *recordingMetrics) Histogram(string, float64, map[string]string) {}

func (m *recordingMetrics) Timing(string, time.Duration, map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings++
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	m := &recordingMetrics{}
	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/v1/plans/{planID}", ok)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/plans/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/plans/def", nil))

	require.Len(t, m.counters, 2)
	for _, tags := range m.counters {
		assert.Equal(t, map[string]string{"method": "GET", "route": "/v1/plans/{planID}", "status": "204"}, tags)
	}
	assert.Equal(t, 2, m.timings)
}

func TestRateLimiter(t *testing.T) {
	h := RateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		Burst:             2,
		KeyFunc:           func(r *http.Request) string { return r.Header.Get("X-Client") },
	})(ok)

	call := func(client string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Client", client)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("a"))
	assert.Equal(t, http.StatusNoContent, call("a"))
	assert.Equal(t, http.StatusTooManyRequests, call("a"))
	assert.Equal(t, http.StatusNoContent, call("b"), "buckets are per client")
}

func TestRateLimiter_Disabled(t *testing.T) {
	h := RateLimiter(RateLimiterConfig{})(ok)
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestContentTypeJSON(t *testing.T) {
	h := ContentTypeJSON(ok)

	tests := []struct {
		method      string
		contentType string
		want        int
	}{
		{http.MethodPost, "application/json", http.StatusNoContent},
		{http.MethodPost, "application/json; charset=utf-8", http.StatusNoContent},
		{http.MethodPost, "text/plain", http.StatusUnsupportedMediaType},
		{http.MethodPost, "", http.StatusUnsupportedMediaType},
		{http.MethodGet, "", http.StatusNoContent},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "/", strings.NewReader("{}"))
		if tt.contentType != "" {
			req.Header.Set("Content-Type", tt.contentType)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tt.want, rec.Code, "%s %q", tt.method, tt.contentType)
	}
}

func TestRealIP(t *testing.T) {
	var got string
	h := RealIP(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) { got = r.RemoteAddr }))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "203.0.113.7", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.2")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "198.51.100.2", got)
}

func TestRecoverer(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	log := logging.NewAdapter(logger.FromZap(zap.New(core)))

	h := Recoverer(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, bytes.Contains(rec.Body.Bytes(), []byte("INTERNAL_ERROR")))
	assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
}

func TestSecureHeadersAndVersion(t *testing.T) {
	rec := httptest.NewRecorder()
	SecureHeaders(APIVersion("1.2.3")(ok)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1.2.3", rec.Header().Get("X-API-Version"))
}
