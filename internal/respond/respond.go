// Package respond writes the JSON bodies shared by handlers and middleware.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/AnshRaj112/reportguard-backend/internal/apperr"
)

// ErrorBody is the envelope for every error response.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]interface{}{"message": msg})
}

// Error writes err in the error envelope with the status its kind maps to.
// Internal errors carry the underlying cause in the error field.
func Error(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	body := ErrorBody{Message: "Internal server error"}

	var e *apperr.Error
	if errors.As(err, &e) {
		body.Message = e.Message
		if e.Kind == apperr.KindInternal && e.Err != nil {
			body.Error = e.Err.Error()
		}
	} else {
		body.Error = err.Error()
	}
	if status >= http.StatusInternalServerError {
		log.Printf("❌ %s: %v", body.Message, err)
	}
	JSON(w, status, body)
}

// Decode reads a JSON request body into dst.
func Decode(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return apperr.Validation("Request body is required")
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("Request body is required")
		}
		return apperr.Validation("Invalid request body")
	}
	return nil
}
