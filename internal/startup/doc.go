// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig]:
//
//   - PORT: HTTP server port (default: 3000)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable the metrics server (default: true)
//   - SCRATCH_DIR: Directory for temporary upload and output files
//     (default: $TMPDIR/mp4-converter)
//   - MAX_UPLOAD_SIZE: Upload cap, e.g. "100MB" or "2GiB" (default: 100MB)
//   - FFMPEG_PATH / FFPROBE_PATH: Engine binaries (default: looked up in PATH)
//   - CONVERSION_WORKERS: Concurrent FFmpeg processes (default: half the CPUs)
//   - STATIC_DIR: Frontend assets served at / when present (default: ./static)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: Log static file requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// The scratch directory is required and must be writable.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//
//	go build -ldflags "-X mp4-converter/internal/startup.Version=1.2.0"
package startup
