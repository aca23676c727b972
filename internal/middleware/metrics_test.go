package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mp4-converter/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizePath(t *testing.T) {
	routes := DefaultMetricsConfig().Routes

	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/upload", "/upload"},
		{"/api/convert", "/api/convert"},
		{"/progress/0b8f0c1e-7a4e-4a55-9c61-3d2c1b3f9d10", "/progress/{id}"},
		{"/progress/another-id", "/progress/{id}"},
		{"/version", "/version"},
		{"/assets/index-4f2a.js", "other"},
		{"/uploads", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizePath(tt.path, routes); got != tt.want {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestMetricsResponseWriter(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newMetricsResponseWriter(w)

	if rw.statusCode != http.StatusOK {
		t.Errorf("default status = %d, want 200", rw.statusCode)
	}

	rw.WriteHeader(http.StatusBadRequest)
	rw.WriteHeader(http.StatusInternalServerError)
	if rw.statusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want first written 400", rw.statusCode)
	}
	if rw.Unwrap() != w {
		t.Error("Unwrap should return the wrapped writer")
	}
}

func TestMetricsMiddlewareRecordsRequests(t *testing.T) {
	handler := Metrics(DefaultMetricsConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/upload", "400")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest(http.MethodPost, "/upload", http.NoBody)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("request counter delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPRequestsInFlight); got != 0 {
		t.Errorf("in-flight gauge = %v after request, want 0", got)
	}
}

func TestMetricsMiddlewareSkipPaths(t *testing.T) {
	called := false
	handler := Metrics(DefaultMetricsConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "other", "200")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	if !called {
		t.Error("skipped paths must still reach the handler")
	}
	if got := testutil.ToFloat64(counter) - before; got != 0 {
		t.Errorf("skipped paths recorded %v requests", got)
	}
}
