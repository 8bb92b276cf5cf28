package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rekrut-id/apiserver/internal/services"
	"github.com/rekrut-id/apiserver/internal/storage"
	"github.com/rekrut-id/apiserver/internal/store"
)

const (
	maxLogoBytes = 2 << 20
	sniffLength  = 512
)

// JobHandler provides HTTP handlers for job postings.
type JobHandler struct {
	jobs     *services.JobService
	reporter *Reporter
}

// NewJobHandler constructs a handler with the provided service.
func NewJobHandler(jobs *services.JobService, reporter *Reporter) *JobHandler {
	return &JobHandler{jobs: jobs, reporter: reporter}
}

// JobRouter registers job routes on the given router. guard wraps every
// mutating route.
func JobRouter(
	r chi.Router,
	jobs *services.JobService,
	details *services.JobDetailService,
	guard func(http.Handler) http.Handler,
	reporter *Reporter,
) {
	if guard == nil {
		guard = passThrough
	}
	handler := NewJobHandler(jobs, reporter)
	detailHandler := NewJobDetailHandler(details, reporter)

	r.Get("/", handler.ListJobs)
	r.With(guard).Post("/", handler.CreateJob)
	r.Route("/{jobID}", func(r chi.Router) {
		r.Get("/", handler.GetJob)
		r.With(guard).Put("/", handler.UpdateJob)
		r.With(guard).Patch("/", handler.UpdateJob)
		r.With(guard).Delete("/", handler.DeleteJob)
		r.Get("/detail", detailHandler.ShowJobDetail)
		if jobs.LogosEnabled() {
			r.With(guard).Put("/logo", handler.PutLogo)
			r.Get("/logo", handler.GetLogo)
		}
	})
}

func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.List(r.Context())
	if err != nil {
		h.reporter.Internal(w, r, "Job listing", err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Message: "Jobs retrieved successfully", Data: jobs})
}

func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.Get(r.Context(), jobIDParam(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Job not found")
			return
		}
		h.reporter.Internal(w, r, "Job retrieval", err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Message: "Job retrieved successfully", Data: job})
}

func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req services.JobInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeValidation(w, http.StatusBadRequest, "Validation Error", bodyErrors())
		return
	}

	job, err := h.jobs.Create(r.Context(), req)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			writeValidation(w, http.StatusBadRequest, "Validation Error", verr.Fields)
			return
		}
		h.reporter.Internal(w, r, "Job creation", err)
		return
	}
	writeJSON(w, http.StatusCreated, DataResponse{Message: "Job created successfully", Data: job})
}

func (h *JobHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	var req services.JobInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeValidation(w, http.StatusBadRequest, "Validation Error", bodyErrors())
		return
	}

	job, err := h.jobs.Update(r.Context(), jobIDParam(r), req)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			writeValidation(w, http.StatusBadRequest, "Validation Error", verr.Fields)
		case errors.Is(err, store.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "Job not found")
		default:
			h.reporter.Internal(w, r, "Job update", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Message: "Job updated successfully", Data: job})
}

func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.jobs.Delete(r.Context(), jobIDParam(r)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Job not found")
			return
		}
		h.reporter.Internal(w, r, "Job deletion", err)
		return
	}
	writeMessage(w, http.StatusOK, "Job deleted successfully")
}

// PutLogo stores the request body as the job's company logo.
func (h *JobHandler) PutLogo(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxLogoBytes+1))
	if err != nil {
		writeValidation(w, http.StatusBadRequest, "Validation Error", map[string][]string{
			"logo": {"The logo failed to upload."},
		})
		return
	}

	if fields := validateLogo(data); fields != nil {
		writeValidation(w, http.StatusBadRequest, "Validation Error", fields)
		return
	}

	contentType := http.DetectContentType(data[:min(len(data), sniffLength)])
	err = h.jobs.PutLogo(r.Context(), jobIDParam(r), bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Job not found")
			return
		}
		h.reporter.Internal(w, r, "Logo upload", err)
		return
	}
	writeMessage(w, http.StatusOK, "Logo uploaded successfully")
}

// GetLogo streams the job's company logo.
func (h *JobHandler) GetLogo(w http.ResponseWriter, r *http.Request) {
	logo, err := h.jobs.OpenLogo(r.Context(), jobIDParam(r))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			writeMessage(w, http.StatusNotFound, "Logo not found")
			return
		}
		h.reporter.Internal(w, r, "Logo retrieval", err)
		return
	}
	defer logo.Body.Close()

	contentType := logo.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if logo.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(logo.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, logo.Body)
}

func validateLogo(data []byte) map[string][]string {
	switch {
	case len(data) == 0:
		return map[string][]string{"logo": {"The logo field is required."}}
	case len(data) > maxLogoBytes:
		return map[string][]string{"logo": {fmt.Sprintf("The logo must not be greater than %d kilobytes.", maxLogoBytes>>10)}}
	}
	if !strings.HasPrefix(http.DetectContentType(data[:min(len(data), sniffLength)]), "image/") {
		return map[string][]string{"logo": {"The logo must be an image."}}
	}
	return nil
}

func jobIDParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "jobID"))
}
