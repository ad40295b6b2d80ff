package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"deal-scanner/models"
)

type AppError struct {
	Code    int    `json:"-"`     // HTTP Status Code
	Message string `json:"error"` // User-friendly message
	Err     error  `json:"-"`     // Internal error (for logging)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError attaches a status code and client-facing message to err.
func WrapError(err error, message string, code int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WriteResponse sends data as JSON with the given status code.
func WriteResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError maps err onto a status code and writes {"error": message}.
// Errors that are not AppErrors are classified by their sentinel.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = classify(err)
	}
	WriteResponse(w, appErr.Code, appErr)
}

func classify(err error) *AppError {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return WrapError(err, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFound):
		return WrapError(err, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return WrapError(err, "marketplace unavailable", http.StatusBadGateway)
	default:
		return WrapError(err, "internal server error", http.StatusInternalServerError)
	}
}
