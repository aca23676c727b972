package workers

import (
	"os"
	"runtime"
	"strconv"
)

// OverrideEnv fixes the worker count when set to a positive integer
const OverrideEnv = "CONVERSION_WORKERS"

// conversionMultiplier is the share of a CPU each FFmpeg process is given.
// libx264 is multi-threaded, so fewer processes than CPUs keeps each encode fast.
const conversionMultiplier = 0.5

// Count returns the number of workers for a given task type.
// It respects container CPU limits via GOMAXPROCS (Go 1.25+).
//
// The multiplier adjusts for task characteristics:
//   - 1.0 for single-threaded CPU-bound tasks
//   - below 1.0 for tasks that are themselves multi-threaded
//
// The limit parameter caps the worker count to prevent resource exhaustion.
// Use 0 for no limit.
//
// Can be overridden with the CONVERSION_WORKERS environment variable.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(OverrideEnv); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	// GOMAXPROCS is automatically set to container CPU limit in Go 1.25+
	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForConversions returns how many FFmpeg processes may run at once.
// The limit parameter caps the maximum number of workers.
func ForConversions(limit int) int {
	return Count(conversionMultiplier, limit)
}
