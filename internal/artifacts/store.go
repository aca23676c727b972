package artifacts

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"mp4-converter/internal/logging"
	"mp4-converter/internal/metrics"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Store allocates unique paths inside a scratch directory and deletes them.
type Store struct {
	dir string

	mu   sync.Mutex
	live map[string]struct{}

	// remove is swapped in tests to simulate deletion failures
	remove func(string) error
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("artifacts: scratch directory is empty")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scratch directory: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	return &Store{
		dir:    abs,
		live:   make(map[string]struct{}),
		remove: os.Remove,
	}, nil
}

// Dir returns the absolute scratch directory.
func (s *Store) Dir() string {
	return s.dir
}

// Allocate reserves a unique path with the given extension. The file itself
// is not created.
func (s *Store) Allocate(ext string) (string, error) {
	ext = normalizeExt(ext)

	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate artifact name: %w", err)
	}

	path := filepath.Join(s.dir, id.String()+ext)

	s.mu.Lock()
	if _, exists := s.live[path]; exists {
		s.mu.Unlock()
		return "", fmt.Errorf("artifact path collision: %s", path)
	}
	s.live[path] = struct{}{}
	live := len(s.live)
	s.mu.Unlock()

	metrics.ArtifactsLive.Set(float64(live))
	logging.Debug("Allocated artifact %s", path)
	return path, nil
}

// Persist allocates a path and copies r into it. On failure nothing is left
// behind and the path is already released.
func (s *Store) Persist(r io.Reader, ext string) (string, int64, error) {
	path, err := s.Allocate(ext)
	if err != nil {
		return "", 0, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		s.Release(path)
		return "", 0, fmt.Errorf("failed to create artifact: %w", err)
	}

	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()

	if copyErr != nil {
		s.Release(path)
		return "", n, fmt.Errorf("failed to write artifact: %w", copyErr)
	}
	if closeErr != nil {
		s.Release(path)
		return "", n, fmt.Errorf("failed to close artifact: %w", closeErr)
	}

	logging.Debug("Persisted %s to %s", humanize.Bytes(uint64(n)), path)
	return path, n, nil
}

// Release deletes the file at path. A missing file is not an error; any
// other failure is logged and counted but never returned.
func (s *Store) Release(path string) {
	if path == "" {
		return
	}

	s.mu.Lock()
	delete(s.live, path)
	live := len(s.live)
	s.mu.Unlock()
	metrics.ArtifactsLive.Set(float64(live))

	if err := s.remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		metrics.ArtifactReleaseErrors.Inc()
		logging.Warn("failed to remove artifact %s: %v", path, err)
		return
	}

	logging.Debug("Released artifact %s", path)
}

// Live returns the number of paths allocated and not yet released.
func (s *Store) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Size returns the total size of regular files in the scratch directory.
func (s *Store) Size() (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read scratch directory: %w", err)
	}

	var total int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// File released between ReadDir and Info
			continue
		}
		total += info.Size()
	}
	return total, nil
}

// Sweep removes every regular file from the scratch directory that is not a
// live artifact and returns the number of files and bytes freed.
func (s *Store) Sweep() (int, int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("failed to read scratch directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		removed    int
		freedBytes int64
	)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if _, ok := s.live[path]; ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logging.Warn("failed to get info for %s: %v", path, err)
			continue
		}

		if err := s.remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logging.Warn("failed to remove file %s: %v", path, err)
			continue
		}
		removed++
		freedBytes += info.Size()
	}

	if removed > 0 {
		logging.Info("Swept %d orphaned artifacts, freed %s", removed, humanize.Bytes(uint64(freedBytes)))
	}
	return removed, freedBytes, nil
}

func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return ""
	}
	// Only the final extension is kept, and path separators are never allowed
	ext = filepath.Ext("x." + strings.TrimPrefix(filepath.Base(ext), "."))
	if ext == "." {
		return ""
	}
	return strings.ToLower(ext)
}
