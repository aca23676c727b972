package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"mp4-converter/internal/logging"
	"mp4-converter/internal/metrics"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrNoFile is returned when the upload carries no file payload.
	ErrNoFile = errors.New("no file uploaded")

	// ErrConversionFailed wraps every failure after the upload was accepted.
	ErrConversionFailed = errors.New("conversion failed")
)

// ArtifactStore persists uploads and releases temporary files.
type ArtifactStore interface {
	Persist(r io.Reader, ext string) (string, int64, error)
	Release(path string)
}

// Engine converts an input file and returns the path of the MP4 it wrote.
// It releases its own output on failure.
type Engine interface {
	Convert(ctx context.Context, inputPath string, onProgress func(percent float64)) (string, error)
}

// ProgressTracker records per-job progress.
type ProgressTracker interface {
	Start(id string) error
	Update(id string, percent float64)
	Finish(id string)
}

// Upload is the file part of an incoming request.
type Upload struct {
	Reader   io.Reader
	Filename string
	// Ext overrides the stored input's extension, which otherwise comes
	// from Filename
	Ext string
	// Size is the declared payload size, or -1 when unknown
	Size int64

	// OnStart, when set, is called once the job is registered and before the
	// engine runs.
	OnStart func(job *Job)
}

// Orchestrator runs conversions end to end.
type Orchestrator struct {
	store   ArtifactStore
	engine  Engine
	tracker ProgressTracker

	// slots bounds concurrent engine runs; nil means unbounded
	slots *semaphore.Weighted
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxConcurrent limits how many engine runs proceed at once. Jobs over
// the limit wait with progress 0. n <= 0 means unbounded.
func WithMaxConcurrent(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.slots = semaphore.NewWeighted(int64(n))
		}
	}
}

// New creates an Orchestrator.
func New(store ArtifactStore, engine Engine, tracker ProgressTracker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:   store,
		engine:  engine,
		tracker: tracker,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Result is a completed conversion awaiting delivery.
type Result struct {
	Job          *Job
	OutputPath   string
	DownloadName string

	release   func()
	closeOnce sync.Once
}

// Close releases the job's artifacts and tracker entry. Safe to call more
// than once.
func (r *Result) Close() {
	r.closeOnce.Do(func() {
		if r.release != nil {
			r.release()
		}
	})
}

// Convert runs one upload through the pipeline. On error nothing is left
// behind. On success the caller must Close the Result after delivery.
func (o *Orchestrator) Convert(ctx context.Context, up Upload) (*Result, error) {
	// Received
	if up.Reader == nil || up.Size == 0 {
		metrics.ConversionJobsTotal.WithLabelValues(metrics.StatusRejected).Inc()
		return nil, ErrNoFile
	}

	// Validated
	ext := up.Ext
	if ext == "" {
		ext = filepath.Ext(up.Filename)
	}
	inputPath, n, err := o.store.Persist(up.Reader, ext)
	if err != nil {
		metrics.ConversionJobsTotal.WithLabelValues(metrics.StatusFailed).Inc()
		logging.Error("Failed to persist upload %q: %v", up.Filename, err)
		return nil, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}
	if n == 0 {
		o.store.Release(inputPath)
		metrics.ConversionJobsTotal.WithLabelValues(metrics.StatusRejected).Inc()
		return nil, ErrNoFile
	}
	metrics.UploadBytes.Observe(float64(n))

	job := &Job{
		ID:           jobIDFromPath(inputPath),
		OriginalName: up.Filename,
		InputPath:    inputPath,
		State:        StateCreated,
		StartedAt:    time.Now(),
	}
	log := logging.ForJob(job.ID)

	if err := o.tracker.Start(job.ID); err != nil {
		o.store.Release(inputPath)
		metrics.ConversionJobsTotal.WithLabelValues(metrics.StatusFailed).Inc()
		log.Error("Failed to register job: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}

	// From here both the input artifact and the tracker entry are owned by
	// the job and released on every exit path.
	succeeded := false
	defer func() {
		if !succeeded {
			o.store.Release(job.InputPath)
			o.tracker.Finish(job.ID)
		}
	}()

	log.Info("Accepted %q (%s)", up.Filename, humanize.Bytes(uint64(n)))

	if up.OnStart != nil {
		up.OnStart(job)
	}

	if o.slots != nil {
		metrics.ConversionJobsQueued.Inc()
		err := o.slots.Acquire(ctx, 1)
		metrics.ConversionJobsQueued.Dec()
		if err != nil {
			job.State = StateFailed
			metrics.ConversionJobsTotal.WithLabelValues(metrics.StatusFailed).Inc()
			log.Warn("Gave up waiting for a conversion slot: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrConversionFailed, err)
		}
		defer o.slots.Release(1)
	}

	// Converting
	job.State = StateRunning
	metrics.ConversionJobsInProgress.Inc()
	engineStart := time.Now()

	outputPath, err := o.engine.Convert(ctx, job.InputPath, func(percent float64) {
		o.tracker.Update(job.ID, percent)
	})

	metrics.ConversionJobsInProgress.Dec()
	metrics.ConversionDuration.Observe(time.Since(engineStart).Seconds())

	if err != nil {
		job.State = StateFailed
		metrics.ConversionJobsTotal.WithLabelValues(metrics.StatusFailed).Inc()
		log.Error("Conversion failed after %v: %v", time.Since(engineStart).Round(time.Millisecond), err)
		return nil, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}

	// Completed
	job.State = StateSucceeded
	job.OutputPath = outputPath
	succeeded = true
	metrics.ConversionJobsTotal.WithLabelValues(metrics.StatusSucceeded).Inc()
	log.Info("Converted in %v", time.Since(engineStart).Round(time.Millisecond))

	return &Result{
		Job:          job,
		OutputPath:   outputPath,
		DownloadName: DownloadName(up.Filename),
		release: func() {
			o.store.Release(job.InputPath)
			o.store.Release(job.OutputPath)
			o.tracker.Finish(job.ID)
			log.Debug("Released artifacts")
		},
	}, nil
}
