package middleware

import (
	"compress/gzip"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"

	"mp4-converter/internal/logging"
)

// CompressionConfig holds configuration for the compression middleware.
// It belongs on routes that answer with JSON or frontend assets; the
// upload routes stream video and are registered without it.
type CompressionConfig struct {
	// MinSize is the minimum response size in bytes before compression is applied
	MinSize int
	// Level is the gzip compression level (gzip.BestSpeed to gzip.BestCompression)
	Level int
	// CompressibleTypes are the media types worth compressing
	CompressibleTypes []string
}

// DefaultCompressionConfig covers the API's JSON and the static frontend.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize: 1024,
		Level:   gzip.DefaultCompression,
		CompressibleTypes: []string{
			"application/json",
			"text/html",
			"text/css",
			"text/plain",
			"text/javascript",
			"application/javascript",
			"image/svg+xml",
		},
	}
}

// compressor holds the per-middleware gzip writer pool.
type compressor struct {
	config       CompressionConfig
	compressible map[string]bool
	pool         sync.Pool
}

func newCompressor(config CompressionConfig) *compressor {
	c := &compressor{
		config:       config,
		compressible: make(map[string]bool, len(config.CompressibleTypes)),
	}
	for _, t := range config.CompressibleTypes {
		c.compressible[t] = true
	}
	c.pool.New = func() any {
		w, err := gzip.NewWriterLevel(io.Discard, config.Level)
		if err != nil {
			w = gzip.NewWriter(io.Discard)
		}
		return w
	}
	return c
}

// gzipResponseWriter buffers up to MinSize bytes, then decides once
// whether the rest of the response is compressed.
type gzipResponseWriter struct {
	http.ResponseWriter
	c          *compressor
	gz         *gzip.Writer
	buffer     []byte
	statusCode int
	decided    bool
	err        error
}

func (c *compressor) newWriter(w http.ResponseWriter) *gzipResponseWriter {
	return &gzipResponseWriter{
		ResponseWriter: w,
		c:              c,
		statusCode:     http.StatusOK,
		buffer:         make([]byte, 0, c.config.MinSize+1),
	}
}

// WriteHeader holds the status until the compression decision.
func (g *gzipResponseWriter) WriteHeader(statusCode int) {
	if !g.decided {
		g.statusCode = statusCode
	}
}

func (g *gzipResponseWriter) Write(data []byte) (int, error) {
	if g.decided {
		if g.err != nil {
			return 0, g.err
		}
		if g.gz != nil {
			return g.gz.Write(data)
		}
		return g.ResponseWriter.Write(data)
	}

	g.buffer = append(g.buffer, data...)
	if len(g.buffer) > g.c.config.MinSize {
		g.decide()
		if g.err != nil {
			return 0, g.err
		}
	}
	return len(data), nil
}

func (g *gzipResponseWriter) compressible() bool {
	mediaType, _, err := mime.ParseMediaType(g.Header().Get("Content-Type"))
	if err != nil {
		return false
	}
	return g.c.compressible[strings.ToLower(mediaType)]
}

// decide sends the header and the buffered bytes, compressed or not.
func (g *gzipResponseWriter) decide() {
	if g.decided {
		return
	}
	g.decided = true

	if len(g.buffer) >= g.c.config.MinSize && g.compressible() {
		h := g.Header()
		h.Del("Content-Length")
		h.Set("Content-Encoding", "gzip")
		h.Add("Vary", "Accept-Encoding")

		g.gz = g.c.pool.Get().(*gzip.Writer)
		g.gz.Reset(g.ResponseWriter)
		g.ResponseWriter.WriteHeader(g.statusCode)
		_, g.err = g.gz.Write(g.buffer)
	} else {
		g.ResponseWriter.WriteHeader(g.statusCode)
		if len(g.buffer) > 0 {
			_, g.err = g.ResponseWriter.Write(g.buffer)
		}
	}

	g.buffer = nil
}

// Close flushes anything still buffered and returns the gzip writer to the pool.
func (g *gzipResponseWriter) Close() error {
	g.decide()

	if g.gz == nil {
		return g.err
	}
	err := g.gz.Close()
	g.c.pool.Put(g.gz)
	g.gz = nil
	if g.err != nil {
		return g.err
	}
	return err
}

// Flush implements http.Flusher
func (g *gzipResponseWriter) Flush() {
	g.decide()

	if g.gz != nil {
		if err := g.gz.Flush(); err != nil {
			logging.Debug("gzip flush failed: %v", err)
		}
	}
	if flusher, ok := g.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (g *gzipResponseWriter) Unwrap() http.ResponseWriter {
	return g.ResponseWriter
}

// Compression returns a middleware that gzips compressible responses for
// clients that accept it.
func Compression(config CompressionConfig) func(http.Handler) http.Handler {
	c := newCompressor(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}

			gzw := c.newWriter(w)
			defer func() {
				if err := gzw.Close(); err != nil {
					logging.Debug("gzip close failed for %s: %v", r.URL.Path, err)
				}
			}()

			next.ServeHTTP(gzw, r)
		})
	}
}
