package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mp4_converter_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mp4_converter_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mp4_converter_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Conversion metrics
var (
	ConversionJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mp4_converter_conversion_jobs_total",
			Help: "Total number of conversion jobs by terminal status",
		},
		[]string{"status"}, // "succeeded", "failed", "rejected"
	)

	ConversionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mp4_converter_conversion_duration_seconds",
			Help:    "Time spent inside the transcoding engine per job",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200},
		},
	)

	ConversionJobsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mp4_converter_conversion_jobs_in_progress",
			Help: "Number of conversion jobs currently running",
		},
	)

	ConversionJobsQueued = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mp4_converter_conversion_jobs_queued",
			Help: "Number of accepted uploads waiting for a conversion slot",
		},
	)

	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mp4_converter_upload_bytes",
			Help:    "Size of accepted uploads in bytes",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 8), // 64KiB .. 1GiB
		},
	)

	TranscodeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mp4_converter_transcode_errors_total",
			Help: "Total number of transcoding engine failures by phase",
		},
		[]string{"op"}, // "probe", "allocate", "start", "run", "verify"
	)
)

// Artifact and tracker metrics
var (
	ArtifactsLive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mp4_converter_artifacts_live",
			Help: "Number of temporary artifacts allocated and not yet released",
		},
	)

	ArtifactReleaseErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mp4_converter_artifact_release_errors_total",
			Help: "Total number of temporary artifacts that could not be deleted",
		},
	)

	ScratchDirBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mp4_converter_scratch_dir_bytes",
			Help: "Total size of files in the scratch directory",
		},
	)

	TrackedJobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mp4_converter_tracked_jobs",
			Help: "Number of jobs currently registered in the progress tracker",
		},
	)
)

// Runtime metrics
var (
	GoMemAllocBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mp4_converter_go_memory_alloc_bytes",
			Help: "Current Go heap allocation in bytes",
		},
	)

	GoGoroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mp4_converter_go_goroutines",
			Help: "Number of goroutines",
		},
	)
)

// AppInfo exposes build information as labels on a constant gauge.
var AppInfo = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "mp4_converter_app_info",
		Help: "Application build information",
	},
	[]string{"version", "commit", "go_version"},
)
