package middleware

import (
	"net/http"
	"strings"
)

// CORSConfig holds configuration for the CORS middleware
type CORSConfig struct {
	AllowOrigin  string
	AllowMethods []string
	AllowHeaders []string
	// ExposeHeaders are response headers browser scripts may read
	ExposeHeaders []string
}

// DefaultCORSConfig allows any origin, matching a frontend served from a
// different host during development.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigin:   "*",
		AllowMethods:  []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-Requested-With"},
		ExposeHeaders: []string{JobIDHeader, "X-File-Id", "Content-Disposition", "Content-Length"},
	}
}

// CORS returns a middleware that sets cross-origin headers on every response
// and answers preflight requests itself.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(config.AllowMethods, ", ")
	headers := strings.Join(config.AllowHeaders, ", ")
	expose := strings.Join(config.ExposeHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", config.AllowOrigin)
			if config.AllowOrigin != "*" {
				h.Add("Vary", "Origin")
			}
			if expose != "" {
				h.Set("Access-Control-Expose-Headers", expose)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
