package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rekrut-id/apiserver/internal/services"
	"github.com/rekrut-id/apiserver/internal/store"
)

// JobDetailHandler provides HTTP handlers for job details.
type JobDetailHandler struct {
	details  *services.JobDetailService
	reporter *Reporter
}

func NewJobDetailHandler(details *services.JobDetailService, reporter *Reporter) *JobDetailHandler {
	return &JobDetailHandler{details: details, reporter: reporter}
}

// JobDetailRouter registers the job detail management routes. Reading a
// detail goes through JobRouter at /jobs/{jobID}/detail.
func JobDetailRouter(
	r chi.Router,
	details *services.JobDetailService,
	guard func(http.Handler) http.Handler,
	reporter *Reporter,
) {
	if guard == nil {
		guard = passThrough
	}
	handler := NewJobDetailHandler(details, reporter)

	r.With(guard).Post("/", handler.CreateJobDetail)
	r.Route("/{jobID}", func(r chi.Router) {
		r.Use(guard)
		r.Put("/", handler.UpdateJobDetail)
		r.Patch("/", handler.UpdateJobDetail)
		r.Delete("/", handler.DeleteJobDetail)
	})
}

// ShowJobDetail returns the job, its detail and up to three other jobs.
func (h *JobDetailHandler) ShowJobDetail(w http.ResponseWriter, r *http.Request) {
	view, err := h.details.Show(r.Context(), jobIDParam(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Job detail not found for the given job ID.")
			return
		}
		h.reporter.Internal(w, r, "Job detail retrieval", err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Message: "Job detail retrieved successfully", Data: view})
}

func (h *JobDetailHandler) CreateJobDetail(w http.ResponseWriter, r *http.Request) {
	var req services.JobDetailInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeValidation(w, http.StatusBadRequest, "", bodyErrors())
		return
	}

	detail, err := h.details.Create(r.Context(), req)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			writeValidation(w, http.StatusBadRequest, "", verr.Fields)
			return
		}
		h.reporter.Internal(w, r, "Job detail creation", err)
		return
	}
	writeJSON(w, http.StatusCreated, DataResponse{Message: "Job detail created successfully", Data: detail})
}

func (h *JobDetailHandler) UpdateJobDetail(w http.ResponseWriter, r *http.Request) {
	var req services.JobDetailInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeValidation(w, http.StatusBadRequest, "", bodyErrors())
		return
	}

	detail, err := h.details.Update(r.Context(), jobIDParam(r), req)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Job detail not found.")
			return
		}
		h.reporter.Internal(w, r, "Job detail update", err)
		return
	}
	writeJSON(w, http.StatusOK, DataResponse{Message: "Job detail updated successfully", Data: detail})
}

func (h *JobDetailHandler) DeleteJobDetail(w http.ResponseWriter, r *http.Request) {
	if err := h.details.Delete(r.Context(), jobIDParam(r)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Job detail not found.")
			return
		}
		h.reporter.Internal(w, r, "Job detail deletion", err)
		return
	}
	writeMessage(w, http.StatusOK, "Job detail deleted successfully.")
}
