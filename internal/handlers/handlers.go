package handlers

import (
	"context"
	"time"

	"mp4-converter/internal/converter"
	"mp4-converter/internal/startup"
	"mp4-converter/internal/streaming"
)

// Converter runs one upload through the conversion pipeline.
type Converter interface {
	Convert(ctx context.Context, up converter.Upload) (*converter.Result, error)
}

// ProgressSource reports the latest progress for a job id.
type ProgressSource interface {
	Get(id string) float64
	Len() int
}

// ReadinessCheck returns nil when the service can accept uploads.
type ReadinessCheck func() error

// Handlers holds the dependencies shared by the HTTP handlers.
type Handlers struct {
	converter     Converter
	progress      ProgressSource
	ready         ReadinessCheck
	maxUploadSize int64
	maxConcurrent int
	delivery      streaming.Config
	startTime     time.Time
}

// New creates Handlers. A nil ready check always reports ready.
func New(conv Converter, progress ProgressSource, ready ReadinessCheck, config *startup.Config) *Handlers {
	maxUpload := config.MaxUploadSize
	if maxUpload <= 0 {
		maxUpload = startup.DefaultMaxUploadSize
	}
	if ready == nil {
		ready = func() error { return nil }
	}
	return &Handlers{
		converter:     conv,
		progress:      progress,
		ready:         ready,
		maxUploadSize: maxUpload,
		maxConcurrent: config.MaxConcurrent,
		delivery:      streaming.DefaultConfig(),
		startTime:     time.Now(),
	}
}
