package middleware

import (
	"io"
	"log"
	"net"
	"net/http"
	"net/netip"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"mp4-converter/internal/logging"
)

// JobIDHeader is the response header the upload handler uses to name its job.
const JobIDHeader = "X-Job-Id"

// ServiceName identifies the server in access logs
const ServiceName = "MP4Converter/1.0"

// accessFields lists the columns written by logRequest. x-ttfb is the time
// until the response header went out, which for an upload covers receiving
// and converting; time-taken minus x-ttfb is the delivery.
const accessFields = "date time c-ip cs-method cs-uri-stem sc-status cs-bytes sc-bytes time-taken x-ttfb x-job-id"

// responseWriter records the status, body size and time of first write.
type responseWriter struct {
	http.ResponseWriter
	start        time.Time
	statusCode   int
	bytesWritten int64
	firstByte    time.Duration
	wroteHeader  bool
}

func newResponseWriter(w http.ResponseWriter, start time.Time) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		start:          start,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) markHeader() {
	if !rw.wroteHeader {
		rw.wroteHeader = true
		rw.firstByte = time.Since(rw.start)
	}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.markHeader()
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.markHeader()
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// countingBody counts request body bytes as the handler consumes them.
// Uploads are usually chunked, so Content-Length is not reliable.
type countingBody struct {
	io.ReadCloser
	n int64
}

func (c *countingBody) Read(p []byte) (int, error) {
	n, err := c.ReadCloser.Read(p)
	c.n += int64(n)
	return n, err
}

// LoggingConfig holds configuration for the logging middleware
type LoggingConfig struct {
	// LogStaticFiles logs frontend asset requests
	LogStaticFiles bool
	// LogHealthChecks logs probe requests
	LogHealthChecks bool
}

// DefaultLoggingConfig returns a sensible default configuration
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		LogStaticFiles:  false,
		LogHealthChecks: true,
	}
}

var healthCheckPaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/livez":   true,
	"/readyz":  true,
}

// accessLogger writes one line per request, preceded once by the
// W3C directives naming the columns.
type accessLogger struct {
	header sync.Once
}

// Directives returns the W3C header lines describing the access log.
func Directives() []string {
	return []string{
		"#Software: " + ServiceName,
		"#Version: 1.0",
		"#Fields: " + accessFields,
	}
}

// Logger returns HTTP access logging middleware
func Logger(config LoggingConfig) func(http.Handler) http.Handler {
	logger := &accessLogger{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if shouldSkip(r, config) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := newResponseWriter(w, start)
			body := &countingBody{ReadCloser: r.Body}
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = body
			}

			if r.Method == http.MethodPost {
				logging.Debug("%s %s from %s started", r.Method, r.URL.EscapedPath(), clientIP(r))
			}

			next.ServeHTTP(wrapped, r)

			logger.logRequest(r, wrapped, body.n, time.Since(start))
		})
	}
}

func (l *accessLogger) logRequest(r *http.Request, rw *responseWriter, received int64, duration time.Duration) {
	l.header.Do(func() {
		for _, line := range Directives() {
			log.Println(line)
		}
	})

	now := time.Now().UTC()

	jobID := rw.Header().Get(JobIDHeader)
	if jobID == "" {
		jobID = "-"
	}

	ttfb := "-"
	if rw.wroteHeader {
		ttfb = strconv.FormatInt(rw.firstByte.Milliseconds(), 10)
	}

	// EscapedPath and a parsed address cannot carry control characters,
	// and net/http rejects methods that are not tokens.
	log.Printf("%s %s %s %s %s %d %d %d %d %s %s",
		now.Format("2006-01-02"),
		now.Format("15:04:05"),
		clientIP(r),
		r.Method,
		r.URL.EscapedPath(),
		rw.statusCode,
		received,
		rw.bytesWritten,
		duration.Milliseconds(),
		ttfb,
		jobID,
	)
}

// shouldSkip drops probe and frontend asset requests unless enabled.
func shouldSkip(r *http.Request, config LoggingConfig) bool {
	if !config.LogHealthChecks && healthCheckPaths[r.URL.Path] {
		return true
	}
	if !config.LogStaticFiles && isStaticAsset(r) {
		return true
	}
	return false
}

// isStaticAsset reports whether r fetches a frontend file. API routes never
// have an extension.
func isStaticAsset(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	return path.Ext(r.URL.Path) != "" && !strings.HasPrefix(r.URL.Path, "/api/")
}

// clientIP returns the first forwarded address when it parses, otherwise
// the peer address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.String()
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if addr, err := netip.ParseAddr(strings.TrimSpace(xri)); err == nil {
			return addr.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "-"
	}
	return host
}
