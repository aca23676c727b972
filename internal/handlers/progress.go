package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// ProgressResponse is the body of a progress poll
type ProgressResponse struct {
	JobID    string  `json:"jobId"`
	Progress float64 `json:"progress"`
}

// GetProgress reports the latest progress of a conversion.
// GET /progress/{jobId}
//
// Unknown and finished ids report 0 rather than 404, so a client polling
// past completion sees the same shape.
func (h *Handlers) GetProgress(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, ProgressResponse{
		JobID:    jobID,
		Progress: h.progress.Get(jobID),
	})
}
