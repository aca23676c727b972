package jobs

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"mp4-converter/internal/logging"
)

// ErrDuplicateJob is returned by Start when the id is already tracked.
var ErrDuplicateJob = errors.New("duplicate job id")

// Tracker is a concurrency-safe map from job id to progress percentage.
// A single mutex guards the map and is held only for the map operation.
type Tracker struct {
	mu       sync.Mutex
	progress map[string]float64
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		progress: make(map[string]float64),
	}
}

// Start registers id at 0%.
func (t *Tracker) Start(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.progress[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, id)
	}
	t.progress[id] = 0
	return nil
}

// Update overwrites the progress for id. Values are clamped to [0, 100];
// updates for ids that are not tracked are dropped.
func (t *Tracker) Update(id string, percent float64) {
	percent = clamp(percent)

	t.mu.Lock()
	_, exists := t.progress[id]
	if exists {
		t.progress[id] = percent
	}
	t.mu.Unlock()

	if !exists {
		logging.Debug("Dropped progress %.1f%% for untracked job %s", percent, id)
	}
}

// Get returns the progress for id, or 0 if id is not tracked.
func (t *Tracker) Get(id string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress[id]
}

// Finish removes id. Calling it for an unknown id is a no-op.
func (t *Tracker) Finish(id string) {
	t.mu.Lock()
	delete(t.progress, id)
	t.mu.Unlock()
}

// Len returns the number of tracked jobs.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.progress)
}

func clamp(percent float64) float64 {
	switch {
	case math.IsNaN(percent), percent < 0:
		return 0
	case percent > 100:
		return 100
	default:
		return percent
	}
}
