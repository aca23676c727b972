// Package handlers provides HTTP request handlers for the converter API.
//
// It includes handlers for:
//   - Uploading a video and receiving the converted MP4 as a download
//   - Polling conversion progress by job id
//   - Health, liveness and readiness probes
//   - Version and build information
//   - Prometheus metrics exposition
package handlers
