package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/adamspd/quizdesk/models"
	"github.com/adamspd/quizdesk/utils"
)

// apiError pairs a status and client-facing message with the cause.
type apiError struct {
	Status  int
	Message string
	Err     error
}

func (e *apiError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *apiError) Unwrap() error { return e.Err }

// toAPIError maps domain errors to HTTP responses. Anything unrecognised is
// a store failure.
func toAPIError(err error) *apiError {
	var apiErr *apiError
	var validation *models.ValidationError

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &validation):
		return &apiError{Status: http.StatusBadRequest, Message: validation.Message, Err: err}
	case errors.Is(err, models.ErrInvalidID):
		return &apiError{Status: http.StatusBadRequest, Message: "invalid id", Err: err}
	case errors.Is(err, models.ErrInvalidRequest):
		return &apiError{Status: http.StatusBadRequest, Message: "invalid request", Err: err}
	case errors.Is(err, models.ErrNotFound):
		return &apiError{Status: http.StatusNotFound, Message: "not found", Err: err}
	case errors.Is(err, models.ErrDuplicateEmail):
		return &apiError{Status: http.StatusConflict, Message: "email already exists", Err: err}
	default:
		return &apiError{Status: http.StatusInternalServerError, Message: "db error", Err: err}
	}
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		utils.LogError("%s %s failed (request %s): %v", r.Method, r.URL.Path, requestIDFromContext(r.Context()), err)
	} else {
		utils.LogHTTP("%s %s rejected: %v", r.Method, r.URL.Path, err)
	}
	writeError(w, apiErr.Status, apiErr.Message)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.LogError("Failed to encode response: %v", err)
	}
}

var errTrailingData = errors.New("unexpected data after JSON body")

// readJSON decodes a single JSON value from a body capped at limit bytes.
// Anything but whitespace after the value is an error.
func readJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	body := http.MaxBytesReader(w, r.Body, limit)
	defer body.Close()

	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			err = errTrailingData
		}
		return err
	}
	return nil
}
