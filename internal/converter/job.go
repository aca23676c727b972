package converter

import (
	"path/filepath"
	"strings"
	"time"
)

// State is the lifecycle position of a Job.
type State int

const (
	// StateCreated is a job whose input has been persisted and registered
	StateCreated State = iota
	// StateRunning is a job whose engine invocation is in progress
	StateRunning
	// StateSucceeded is a job that produced an output artifact
	StateSucceeded
	// StateFailed is a job that ended in an engine or I/O error
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Job is one conversion request's lifecycle record.
type Job struct {
	ID           string
	OriginalName string
	InputPath    string
	OutputPath   string
	State        State
	StartedAt    time.Time
}

// jobIDFromPath derives the job id from the stored input's file name.
func jobIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DownloadName returns the attachment file name for the converted output:
// the uploaded name with an .mp4 extension, or converted.mp4.
func DownloadName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	stem = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f, r == '"', r == '/', r == '\\':
			return -1
		}
		return r
	}, stem)
	stem = strings.TrimSpace(stem)

	if stem == "" || stem == "." || stem == ".." {
		return "converted.mp4"
	}
	return stem + ".mp4"
}
