package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"mp4-converter/internal/converter"
	"mp4-converter/internal/logging"
	"mp4-converter/internal/mediatypes"
	"mp4-converter/internal/metrics"
	"mp4-converter/internal/streaming"
)

const (
	// uploadField is the multipart form field carrying the video
	uploadField = "file"

	// HeaderJobID carries the job id for progress correlation
	HeaderJobID = "X-Job-Id"
	// HeaderFileID is the legacy name of HeaderJobID
	HeaderFileID = "X-File-Id"
)

// errInvalidUpload marks a request body that is not a readable multipart form.
var errInvalidUpload = errors.New("invalid upload")

// Upload accepts a video, converts it and returns the MP4 as an attachment.
// POST /upload
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	part, err := filePart(r)
	if err != nil {
		metrics.ConversionJobsTotal.WithLabelValues(metrics.StatusRejected).Inc()
		logging.Info("Upload rejected: %v", err)
		writeUploadError(w, err)
		return
	}
	defer part.Close()

	contentType := part.Header.Get("Content-Type")
	ext := mediatypes.UploadExtension(part.FileName(), contentType)
	if mediatypes.GetFileType(ext) != mediatypes.FileTypeVideo {
		logging.Info("Upload %q (%s) is not a known video type, trying conversion anyway", part.FileName(), contentType)
	}

	up := converter.Upload{
		Reader:   part,
		Filename: part.FileName(),
		Ext:      ext,
		Size:     -1,
		OnStart: func(job *converter.Job) {
			w.Header().Set(HeaderJobID, job.ID)
			w.Header().Set(HeaderFileID, job.ID)
		},
	}

	// The conversion outlives a client that stops waiting; delivery below
	// still watches the request context.
	result, err := h.converter.Convert(context.WithoutCancel(r.Context()), up)
	if err != nil {
		w.Header().Del(HeaderJobID)
		w.Header().Del(HeaderFileID)
		writeUploadError(w, err)
		return
	}
	defer result.Close()

	n, err := streaming.ServeAttachment(r.Context(), w, streaming.File{
		Path:        result.OutputPath,
		Name:        result.DownloadName,
		ContentType: mediatypes.GetMimeType(mediatypes.OutputExtension),
	}, h.delivery)

	switch {
	case err == nil:
		logging.Debug("Job %s delivered %d bytes as %q", result.Job.ID, n, result.DownloadName)
	case errors.Is(err, streaming.ErrUnavailable):
		logging.Error("Job %s output unavailable: %v", result.Job.ID, err)
		w.Header().Del(HeaderJobID)
		w.Header().Del(HeaderFileID)
		writeJSONError(w, "Conversion failed", http.StatusInternalServerError)
	case errors.Is(err, streaming.ErrClientGone), errors.Is(err, streaming.ErrWriteTimeout):
		logging.Info("Job %s delivery stopped after %d bytes: %v", result.Job.ID, n, err)
	default:
		logging.Warn("Job %s delivery failed after %d bytes: %v", result.Job.ID, n, err)
	}
}

// filePart advances the multipart body to the first file in uploadField.
// Other fields are skipped without buffering.
func filePart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, converter.ErrNoFile
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidUpload, err)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, converter.ErrNoFile
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errInvalidUpload, err)
		}
		if part.FormName() == uploadField && part.FileName() != "" {
			return part, nil
		}
		if err := part.Close(); err != nil {
			return nil, fmt.Errorf("%w: %w", errInvalidUpload, err)
		}
	}
}

// writeUploadError maps a pipeline error to a status and a body that
// never carries engine diagnostics.
func writeUploadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeJSONError(w, "File too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, converter.ErrNoFile):
		writeJSONError(w, "No file uploaded", http.StatusBadRequest)
	case errors.Is(err, errInvalidUpload), errors.Is(err, io.ErrUnexpectedEOF):
		writeJSONError(w, "Invalid upload", http.StatusBadRequest)
	default:
		writeJSONError(w, "Conversion failed", http.StatusInternalServerError)
	}
}
