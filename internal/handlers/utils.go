package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

const (
	maxJSONBodyBytes = 1 << 20

	internalErrorMessage = "An internal server error occurred."
	invalidBodyMessage   = "The request body must be valid JSON."
)

// MessageResponse is the payload for plain status messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationResponse carries field errors keyed by input name.
type ValidationResponse struct {
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors"`
}

// ErrorResponse is the payload for unexpected failures.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// DataResponse wraps a resource with a status message.
type DataResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Reporter logs unexpected errors and renders them as 500 responses.
// In debug mode the response carries the error text.
type Reporter struct {
	logger *slog.Logger
	debug  bool
}

func NewReporter(logger *slog.Logger, debug bool) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger, debug: debug}
}

// Internal answers 500 for the failed operation op, e.g. "Login".
func (rp *Reporter) Internal(w http.ResponseWriter, r *http.Request, op string, err error) {
	rp.logger.ErrorContext(r.Context(), "request failed",
		"op", op,
		"error", err,
		"request_id", middleware.GetReqID(r.Context()),
	)

	detail := internalErrorMessage
	if rp.debug {
		detail = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Message: op + " failed due to an unexpected error.",
		Error:   detail,
	})
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Message: message})
}

func writeValidation(w http.ResponseWriter, status int, message string, fields map[string][]string) {
	writeJSON(w, status, ValidationResponse{Message: message, Errors: fields})
}

// decodeJSON reads a JSON object from the request body. An empty body
// decodes to the zero value so that missing fields surface as field errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func bodyErrors() map[string][]string {
	return map[string][]string{"body": {invalidBodyMessage}}
}

// Healthz reports that the process is serving.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
