package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"galaxy-gen/internal/errors"
)

// ErrorResponse represents the JSON error response sent to clients
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Error logs err and sends it to the client as JSON. Handlers should not log
// the same error themselves.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	errorType := errors.GetType(err)
	statusCode := StatusCode(errorType)

	logError(logger, r, err, errorType, statusCode)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   string(errorType),
		Message: err.Error(),
		Code:    statusCode,
	})
}

// StatusCode maps error types to HTTP status codes
func StatusCode(errorType errors.ErrorType) int {
	switch errorType {
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case errors.ErrorTypeExternal:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func logError(logger *slog.Logger, r *http.Request, err error, errorType errors.ErrorType, statusCode int) {
	logCtx := logger.With(
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"error_type", errorType,
		"status_code", statusCode,
	)

	switch errorType {
	case errors.ErrorTypeNotFound, errors.ErrorTypeValidation, errors.ErrorTypeMethodNotAllowed:
		// Client mistakes.
		logCtx.Debug("Request rejected", "error", err)
	case errors.ErrorTypeExternal:
		logCtx.Error("External service error", "error", err)
	default:
		logCtx.Error("Internal server error", "error", err)
	}
}

// Success sends a JSON success response to the client
func Success(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		// The status code has already been sent.
		_ = json.NewEncoder(w).Encode(data)
	}
}
