// Package httpresponse writes the JSON bodies shared by every REST handler.
package httpresponse

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
	"github.com/Black-And-White-Club/green-quest/app/shared/persistence"
)

// ErrorBody is the body of every non-2xx response.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Failure writes a domain failure. The message is safe to show to the caller.
func Failure(w http.ResponseWriter, status int, failure error) {
	JSON(w, status, ErrorBody{Success: false, Error: failure.Error()})
}

// Error writes an infrastructure error: 504 for persistence timeouts, 500 otherwise.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := StatusForError(err)
	logger.ErrorContext(r.Context(), "Request failed",
		attr.ExtractCorrelationID(r.Context()),
		attr.String("path", r.URL.Path),
		attr.Int("status", status),
		attr.Error(err),
	)
	JSON(w, status, ErrorBody{Success: false, Error: err.Error()})
}

// StatusForError maps an infrastructure error to its HTTP status.
func StatusForError(err error) int {
	if errors.Is(err, persistence.ErrTimedOut) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// Decode reads a JSON request body into v, rejecting unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
