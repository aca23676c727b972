package transcoder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"mp4-converter/internal/logging"
	"mp4-converter/internal/metrics"
)

// Allocator hands out and reclaims output paths.
type Allocator interface {
	Allocate(ext string) (string, error)
	Release(path string)
}

// Config controls how FFmpeg is invoked.
type Config struct {
	FFmpegPath   string
	FFprobePath  string
	Preset       string
	CRF          int
	AudioBitrate string
}

// DefaultConfig returns the encoder settings used for every conversion.
func DefaultConfig() Config {
	return Config{
		FFmpegPath:   "ffmpeg",
		FFprobePath:  "ffprobe",
		Preset:       "fast",
		CRF:          23,
		AudioBitrate: "128k",
	}
}

// Transcoder runs one FFmpeg process per conversion.
type Transcoder struct {
	cfg       Config
	store     Allocator
	processes map[string]*exec.Cmd
	processMu sync.Mutex
}

// MediaInfo contains what ffprobe reports about an input file.
type MediaInfo struct {
	Duration   time.Duration
	FormatName string
	VideoCodec string
	AudioCodec string
}

// New creates a Transcoder that allocates outputs from store.
func New(cfg Config, store Allocator) *Transcoder {
	defaults := DefaultConfig()
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = defaults.FFmpegPath
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = defaults.FFprobePath
	}
	if cfg.Preset == "" {
		cfg.Preset = defaults.Preset
	}
	if cfg.CRF <= 0 {
		cfg.CRF = defaults.CRF
	}
	if cfg.AudioBitrate == "" {
		cfg.AudioBitrate = defaults.AudioBitrate
	}

	return &Transcoder{
		cfg:       cfg,
		store:     store,
		processes: make(map[string]*exec.Cmd),
	}
}

// Available reports whether both FFmpeg binaries can be found.
func (t *Transcoder) Available() error {
	for _, bin := range []string{t.cfg.FFmpegPath, t.cfg.FFprobePath} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s not found: %w", bin, err)
		}
	}
	return nil
}

// Probe retrieves container and stream information about a media file.
func (t *Transcoder) Probe(ctx context.Context, filePath string) (*MediaInfo, error) {
	cmd := exec.CommandContext(ctx, t.cfg.FFprobePath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stdout bytes.Buffer
	stderr := newTailBuffer(4096)
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, &TranscodeError{Op: OpProbe, Input: filePath, Message: stderr.String(), Err: err}
	}

	var out struct {
		Format struct {
			FormatName string `json:"format_name"`
			Duration   string `json:"duration"`
		} `json:"format"`
		Streams []struct {
			CodecType string `json:"codec_type"`
			CodecName string `json:"codec_name"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, &TranscodeError{Op: OpProbe, Input: filePath, Message: "unreadable ffprobe output", Err: err}
	}

	info := &MediaInfo{FormatName: out.Format.FormatName}
	if secs, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil && secs > 0 {
		info.Duration = time.Duration(secs * float64(time.Second))
	}

	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if info.VideoCodec == "" {
				info.VideoCodec = s.CodecName
			}
		case "audio":
			if info.AudioCodec == "" {
				info.AudioCodec = s.CodecName
			}
		}
	}

	if info.VideoCodec == "" {
		return nil, &TranscodeError{Op: OpProbe, Input: filePath, Message: "no video stream found"}
	}

	return info, nil
}

// Convert transcodes inputPath to a freshly allocated MP4 and returns its
// path. Progress is forwarded to onProgress in the order FFmpeg reports it.
// On failure the output has already been released.
func (t *Transcoder) Convert(ctx context.Context, inputPath string, onProgress ProgressFunc) (string, error) {
	info, err := t.Probe(ctx, inputPath)
	if err != nil {
		metrics.TranscodeErrorsTotal.WithLabelValues(OpProbe).Inc()
		return "", err
	}
	logging.Debug("Probed %s: format=%s video=%s audio=%s duration=%v",
		inputPath, info.FormatName, info.VideoCodec, info.AudioCodec, info.Duration)

	outputPath, err := t.store.Allocate(".mp4")
	if err != nil {
		metrics.TranscodeErrorsTotal.WithLabelValues(OpAllocate).Inc()
		return "", &TranscodeError{Op: OpAllocate, Input: inputPath, Err: err}
	}

	if err := t.run(ctx, inputPath, outputPath, info.Duration, onProgress); err != nil {
		t.store.Release(outputPath)
		var te *TranscodeError
		if errors.As(err, &te) {
			metrics.TranscodeErrorsTotal.WithLabelValues(te.Op).Inc()
		}
		return "", err
	}

	return outputPath, nil
}

func (t *Transcoder) buildArgs(inputPath, outputPath string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
		"-map", "0:v:0",
		"-map", "0:a?",
		"-c:v", "libx264",
		"-preset", t.cfg.Preset,
		"-crf", strconv.Itoa(t.cfg.CRF),
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", t.cfg.AudioBitrate,
		"-movflags", "+faststart",
		"-progress", "pipe:1",
		"-nostats",
		"-f", "mp4",
		outputPath,
	}
}

func (t *Transcoder) run(ctx context.Context, inputPath, outputPath string, duration time.Duration, onProgress ProgressFunc) error {
	cmd := exec.CommandContext(ctx, t.cfg.FFmpegPath, t.buildArgs(inputPath, outputPath)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &TranscodeError{Op: OpStart, Input: inputPath, Err: fmt.Errorf("failed to create stdout pipe: %w", err)}
	}

	stderr := newTailBuffer(8192)
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return &TranscodeError{Op: OpStart, Input: inputPath, Err: fmt.Errorf("failed to start ffmpeg: %w", err)}
	}

	// Track the process
	t.processMu.Lock()
	t.processes[outputPath] = cmd
	t.processMu.Unlock()

	defer func() {
		t.processMu.Lock()
		delete(t.processes, outputPath)
		t.processMu.Unlock()
	}()

	ended, scanErr := parseProgress(stdout, duration, onProgress)
	if scanErr != nil {
		logging.Warn("failed to read ffmpeg progress for %s: %v", inputPath, scanErr)
		// Keep the pipe drained so ffmpeg can exit
		_, _ = io.Copy(io.Discard, stdout)
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		logging.Error("FFmpeg stderr for %s: %s", inputPath, stderr.String())
		return &TranscodeError{Op: OpRun, Input: inputPath, Message: stderr.String(), Err: err}
	}

	if !ended {
		return &TranscodeError{Op: OpRun, Input: inputPath, Message: "ffmpeg exited without signalling completion"}
	}

	fi, err := os.Stat(outputPath)
	if err != nil {
		return &TranscodeError{Op: OpVerify, Input: inputPath, Err: err}
	}
	if fi.Size() == 0 {
		return &TranscodeError{Op: OpVerify, Input: inputPath, Message: "ffmpeg produced an empty output"}
	}

	return nil
}

// Active returns the number of running FFmpeg processes.
func (t *Transcoder) Active() int {
	t.processMu.Lock()
	defer t.processMu.Unlock()
	return len(t.processes)
}

// Cleanup stops all active transcoding processes.
func (t *Transcoder) Cleanup() {
	t.processMu.Lock()
	defer t.processMu.Unlock()

	for path, cmd := range t.processes {
		if cmd.Process != nil {
			logging.Info("Killing transcoding process for: %s", path)
			if err := cmd.Process.Kill(); err != nil {
				logging.Warn("failed to kill transcoding process for %s: %v", path, err)
			}
		}
	}
}
