package streaming

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.WriteTimeout != 30*time.Second {
		t.Errorf("WriteTimeout = %v, want 30s", config.WriteTimeout)
	}
	if config.MaxDuration != 0 {
		t.Errorf("MaxDuration = %v, want 0", config.MaxDuration)
	}
	if config.ChunkSize != 256*1024 {
		t.Errorf("ChunkSize = %d, want 256KiB", config.ChunkSize)
	}
}

func TestTimeoutWriterChunks(t *testing.T) {
	rec := httptest.NewRecorder()

	var calls []int64
	config := Config{
		WriteTimeout: time.Second,
		ChunkSize:    4,
		OnProgress: func(n int64, _ time.Duration) {
			calls = append(calls, n)
		},
	}

	tw := NewTimeoutWriter(context.Background(), rec, config)
	n, err := tw.Write([]byte("0123456789"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != 10 {
		t.Errorf("Write() n = %d, want 10", n)
	}
	if rec.Body.String() != "0123456789" {
		t.Errorf("body = %q", rec.Body.String())
	}

	want := []int64{4, 8, 10}
	if len(calls) != len(want) {
		t.Fatalf("OnProgress calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("OnProgress[%d] = %d, want %d", i, calls[i], want[i])
		}
	}

	written, _ := tw.Stats()
	if written != 10 {
		t.Errorf("Stats() bytes = %d, want 10", written)
	}
}

func TestTimeoutWriterClientGone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tw := NewTimeoutWriter(ctx, httptest.NewRecorder(), DefaultConfig())
	if _, err := tw.Write([]byte("data")); !errors.Is(err, ErrClientGone) {
		t.Errorf("Write() error = %v, want ErrClientGone", err)
	}
}

func TestTimeoutWriterClosed(t *testing.T) {
	tw := NewTimeoutWriter(context.Background(), httptest.NewRecorder(), DefaultConfig())

	if err := tw.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	if _, err := tw.Write([]byte("data")); !errors.Is(err, ErrStreamCanceled) {
		t.Errorf("Write() after Close error = %v, want ErrStreamCanceled", err)
	}
}

func TestTimeoutWriterMaxDuration(t *testing.T) {
	config := DefaultConfig()
	config.MaxDuration = time.Nanosecond

	tw := NewTimeoutWriter(context.Background(), httptest.NewRecorder(), config)
	time.Sleep(time.Millisecond)

	if _, err := tw.Write([]byte("data")); !errors.Is(err, ErrWriteTimeout) {
		t.Errorf("Write() error = %v, want ErrWriteTimeout", err)
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	errs := []error{ErrWriteTimeout, ErrClientGone, ErrStreamCanceled, ErrUnavailable}
	for i := range errs {
		for j := range errs {
			if i != j && errors.Is(errs[i], errs[j]) {
				t.Errorf("%v matches %v", errs[i], errs[j])
			}
		}
	}
}

func TestServeAttachment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.mp4")
	payload := bytes.Repeat([]byte("mp4"), 1000)
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	n, err := ServeAttachment(context.Background(), rec, File{
		Path:        path,
		Name:        "holiday clip.mp4",
		ContentType: "video/mp4",
	}, DefaultConfig())
	if err != nil {
		t.Fatalf("ServeAttachment() error = %v", err)
	}
	if n != int64(len(payload)) {
		t.Errorf("ServeAttachment() wrote %d, want %d", n, len(payload))
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "video/mp4" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cl := rec.Header().Get("Content-Length"); cl != "3000" {
		t.Errorf("Content-Length = %q", cl)
	}

	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("Content-Disposition unparsable: %v", err)
	}
	if disposition != "attachment" || params["filename"] != "holiday clip.mp4" {
		t.Errorf("Content-Disposition = %q %v", disposition, params)
	}
	if !bytes.Equal(rec.Body.Bytes(), payload) {
		t.Error("body does not match file content")
	}
}

func TestServeAttachmentMissingFile(t *testing.T) {
	rec := httptest.NewRecorder()

	_, err := ServeAttachment(context.Background(), rec, File{
		Path: filepath.Join(t.TempDir(), "missing.mp4"),
		Name: "missing.mp4",
	}, DefaultConfig())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("ServeAttachment() error = %v, want ErrUnavailable", err)
	}

	// Nothing was sent so the caller can still answer with an error
	if len(rec.Header()) != 0 {
		t.Errorf("headers written before failure: %v", rec.Header())
	}
}

func TestContentDispositionNonASCII(t *testing.T) {
	v := contentDisposition("vidéo.mp4")

	_, params, err := mime.ParseMediaType(v)
	if err != nil {
		t.Fatalf("ParseMediaType(%q) error = %v", v, err)
	}
	if params["filename"] != "vidéo.mp4" {
		t.Errorf("filename = %q", params["filename"])
	}
}
