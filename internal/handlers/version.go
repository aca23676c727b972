package handlers

import (
	"net/http"

	"mp4-converter/internal/mediatypes"
	"mp4-converter/internal/startup"

	"github.com/dustin/go-humanize"
)

// VersionResponse is the build information plus the limits a client needs
// before it uploads.
type VersionResponse struct {
	startup.BuildInfo
	OutputFormat      string `json:"outputFormat"`
	MaxUploadBytes    int64  `json:"maxUploadBytes"`
	MaxUploadSize     string `json:"maxUploadSize"`
	ConversionWorkers int    `json:"conversionWorkers"`
}

// GetVersion returns the application version, build information and
// upload limits.
// GET /version
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	resp := VersionResponse{
		BuildInfo:         startup.GetBuildInfo(),
		OutputFormat:      mediatypes.GetMimeType(mediatypes.OutputExtension),
		MaxUploadBytes:    h.maxUploadSize,
		ConversionWorkers: h.maxConcurrent,
	}
	if h.maxUploadSize > 0 {
		resp.MaxUploadSize = humanize.IBytes(uint64(h.maxUploadSize))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, resp)
}
