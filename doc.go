// Package main provides the entry point for the MP4 converter service.
//
// The service accepts an uploaded video, converts it to MP4 (H.264 video,
// AAC audio) with FFmpeg, and returns the converted file as a download in
// the same response. Clients may poll conversion progress while the upload
// request is still open.
//
// # Application Lifecycle
//
//  1. Configuration Loading: Reads environment variables and prepares the
//     scratch directory
//  2. Scratch Sweep: Removes files orphaned by a previous crash
//  3. Component Initialization:
//     - Artifact Store: Allocates and releases temporary files
//     - Transcoder: Runs ffprobe and ffmpeg per conversion
//     - Job Tracker: Holds in-memory progress for running jobs
//     - Orchestrator: Runs one upload through persist, convert and cleanup
//     - Metrics Collector: Samples pipeline gauges every 15 seconds
//  4. HTTP Server Setup: Configures routes and middleware, starts servers
//  5. Graceful Shutdown: Handles SIGINT/SIGTERM
//
// # HTTP Server
//
// The application runs two HTTP servers:
//
//  1. Main Server (default port 3000):
//     - POST /upload (also /api/upload, /api/convert)
//     - GET /progress/{jobId}
//     - Health probes and version information
//     - Static frontend from STATIC_DIR, when present
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//     - Liveness endpoint (/health)
//
// # Graceful Shutdown
//
//  1. Stop metrics collector
//  2. Kill running FFmpeg processes, failing their requests
//  3. Shut down HTTP servers (30s timeout)
//
// Jobs are not persisted; a restart forgets all progress and the next start
// sweeps any files left in the scratch directory.
//
// # Build Requirements
//
// Pure Go; FFmpeg and ffprobe must be installed at runtime:
//
//	go build -ldflags "-X mp4-converter/internal/startup.Version=1.0.0" -o mp4-converter .
//
// # Related Packages
//
//   - [mp4-converter/internal/artifacts]: Scratch file lifecycle
//   - [mp4-converter/internal/converter]: Conversion orchestration
//   - [mp4-converter/internal/handlers]: HTTP request handlers
//   - [mp4-converter/internal/jobs]: In-memory progress tracking
//   - [mp4-converter/internal/middleware]: HTTP middleware (CORS, logging, metrics)
//   - [mp4-converter/internal/startup]: Configuration and initialization
//   - [mp4-converter/internal/transcoder]: FFmpeg invocation and progress parsing
package main
