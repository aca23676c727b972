package metrics

// Job status labels used with ConversionJobsTotal.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusRejected  = "rejected"
)

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics(version, commit, goVersion string) {
	for _, status := range []string{StatusSucceeded, StatusFailed, StatusRejected} {
		ConversionJobsTotal.WithLabelValues(status)
	}

	for _, op := range []string{"probe", "allocate", "start", "run", "verify"} {
		TranscodeErrorsTotal.WithLabelValues(op)
	}

	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
