package streaming

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"mp4-converter/internal/logging"
)

// Sentinel errors for streaming operations.
var (
	// ErrWriteTimeout indicates that a write exceeded the configured deadline.
	ErrWriteTimeout = errors.New("write timeout exceeded")

	// ErrClientGone indicates that the client disconnected before the stream completed.
	ErrClientGone = errors.New("client disconnected")

	// ErrStreamCanceled indicates that the writer was closed mid-stream.
	ErrStreamCanceled = errors.New("stream canceled")

	// ErrUnavailable indicates the file could not be opened; nothing was
	// written to the response.
	ErrUnavailable = errors.New("file unavailable")
)

// Config configures delivery behavior
type Config struct {
	// WriteTimeout bounds each chunk write
	WriteTimeout time.Duration
	// MaxDuration is the absolute maximum transfer duration (0 = unlimited)
	MaxDuration time.Duration
	// ChunkSize is the largest single write to the client (0 = write as received)
	ChunkSize int
	// OnProgress is called after every chunk with the running total
	OnProgress func(bytesWritten int64, elapsed time.Duration)
}

// DefaultConfig returns the settings used for video downloads
func DefaultConfig() Config {
	return Config{
		WriteTimeout: 30 * time.Second,
		ChunkSize:    256 * 1024,
	}
}

// TimeoutWriter wraps an http.ResponseWriter with per-write deadlines.
type TimeoutWriter struct {
	w      http.ResponseWriter
	rc     *http.ResponseController
	ctx    context.Context
	config Config

	mu           sync.Mutex
	start        time.Time
	bytesWritten int64
	closed       bool
}

// NewTimeoutWriter creates a new timeout-protected writer
func NewTimeoutWriter(ctx context.Context, w http.ResponseWriter, config Config) *TimeoutWriter {
	return &TimeoutWriter{
		w:      w,
		rc:     http.NewResponseController(w),
		ctx:    ctx,
		config: config,
		start:  time.Now(),
	}
}

// Write implements io.Writer, splitting p into chunks.
func (tw *TimeoutWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		chunk := p
		if tw.config.ChunkSize > 0 && len(chunk) > tw.config.ChunkSize {
			chunk = chunk[:tw.config.ChunkSize]
		}

		n, err := tw.writeChunk(chunk)
		written += n
		if err != nil {
			return written, err
		}
		p = p[len(chunk):]
	}
	return written, nil
}

func (tw *TimeoutWriter) writeChunk(p []byte) (int, error) {
	tw.mu.Lock()
	closed := tw.closed
	tw.mu.Unlock()
	if closed {
		return 0, ErrStreamCanceled
	}

	if err := tw.ctx.Err(); err != nil {
		return 0, ErrClientGone
	}

	if tw.config.MaxDuration > 0 && time.Since(tw.start) > tw.config.MaxDuration {
		return 0, ErrWriteTimeout
	}

	if tw.config.WriteTimeout > 0 {
		// Recorders and some wrappers cannot set deadlines; delivery still works
		if err := tw.rc.SetWriteDeadline(time.Now().Add(tw.config.WriteTimeout)); err != nil && !errors.Is(err, http.ErrNotSupported) {
			logging.Debug("failed to set write deadline: %v", err)
		}
	}

	n, err := tw.w.Write(p)

	tw.mu.Lock()
	tw.bytesWritten += int64(n)
	total := tw.bytesWritten
	tw.mu.Unlock()

	if err != nil {
		switch {
		case tw.ctx.Err() != nil:
			return n, ErrClientGone
		case errors.Is(err, os.ErrDeadlineExceeded):
			return n, ErrWriteTimeout
		default:
			return n, err
		}
	}

	if tw.config.OnProgress != nil {
		tw.config.OnProgress(total, time.Since(tw.start))
	}
	return n, nil
}

// Close marks the writer as closed and clears any pending deadline.
func (tw *TimeoutWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.closed {
		return nil
	}
	tw.closed = true

	if err := tw.rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}

// Stats returns streaming statistics
func (tw *TimeoutWriter) Stats() (bytesWritten int64, duration time.Duration) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.bytesWritten, time.Since(tw.start)
}

// File describes an artifact to send as a download.
type File struct {
	Path        string
	Name        string
	ContentType string
}

// ServeAttachment writes the file as an attachment response and returns the
// number of body bytes written. An error before any header was written
// leaves the response untouched so the caller can still report it.
func ServeAttachment(ctx context.Context, w http.ResponseWriter, f File, config Config) (int64, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close %s: %v", f.Path, err)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	h.Set("Content-Disposition", contentDisposition(f.Name))
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	tw := NewTimeoutWriter(ctx, w, config)
	defer func() {
		if err := tw.Close(); err != nil {
			logging.Warn("Failed to close timeout writer: %v", err)
		}
	}()

	_, err = io.Copy(tw, file)

	bytesWritten, duration := tw.Stats()
	logging.Debug("Delivered %s: %d bytes in %v", f.Name, bytesWritten, duration)

	return bytesWritten, err
}

// contentDisposition formats an attachment header, falling back to a fixed
// name when the given one cannot be encoded.
func contentDisposition(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return `attachment; filename="download"`
}
