package transcoder

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// ProgressFunc receives conversion progress as a percentage in [0, 100].
type ProgressFunc = func(percent float64)

// parseProgress consumes FFmpeg's "-progress" key=value stream. Each block ends
// with a progress=continue or progress=end line, at which point the latest
// out_time is converted to a percentage of total. It reports whether the
// engine signalled completion.
func parseProgress(r io.Reader, total time.Duration, emit ProgressFunc) (bool, error) {
	scanner := bufio.NewScanner(r)

	var (
		outTime time.Duration
		ended   bool
	)

	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}

		switch key {
		case "out_time_us", "out_time_ms":
			// Both keys carry microseconds
			if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
				outTime = time.Duration(us) * time.Microsecond
			}
		case "progress":
			if value == "end" {
				ended = true
				if emit != nil {
					emit(100)
				}
				continue
			}
			if emit != nil && total > 0 {
				emit(percentOf(outTime, total))
			}
		}
	}

	return ended, scanner.Err()
}

// percentOf returns done/total as a percentage rounded to one decimal.
func percentOf(done, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(done) / float64(total) * 100
	p = math.Round(p*10) / 10
	return math.Max(0, math.Min(100, p))
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return strings.TrimSpace(string(t.buf))
}
