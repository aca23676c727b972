// Package metrics provides Prometheus instrumentation for the converter service.
//
// All metrics are registered on the default registry through promauto and are
// prefixed with "mp4_converter_".
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: Counter of requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//
// ## Conversion Metrics
//
//   - ConversionJobsTotal: Counter of jobs by terminal status
//   - ConversionDuration: Histogram of time spent in the transcoding engine
//   - ConversionJobsInProgress: Gauge of running jobs
//   - UploadBytes: Histogram of accepted upload sizes
//   - TranscodeErrorsTotal: Counter of engine failures by phase
//
// ## Artifact Metrics
//
//   - ArtifactsLive: Gauge of temporary files not yet released
//   - ArtifactReleaseErrors: Counter of failed deletions
//   - ScratchDirBytes: Gauge of scratch directory size, sampled by [Collector]
//   - TrackedJobs: Gauge of progress tracker entries, sampled by [Collector]
//
// # Collector
//
// [Collector] periodically samples a [StatsProvider] and the Go runtime:
//
//	collector := metrics.NewCollector(provider, 30*time.Second)
//	collector.Start()
//	defer collector.Stop()
//
// # Prometheus Queries
//
// Conversion failure ratio:
//
//	sum(rate(mp4_converter_conversion_jobs_total{status="failed"}[15m])) /
//	sum(rate(mp4_converter_conversion_jobs_total[15m]))
//
// Leaked artifacts (should stay at zero between jobs):
//
//	mp4_converter_artifacts_live - mp4_converter_conversion_jobs_in_progress * 2
package metrics
