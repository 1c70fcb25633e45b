// Package httpx holds the HTTP plumbing shared by the campusdesk services:
// JSON helpers, middleware and a context-driven server runner.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/campusdesk/campusdesk/internal/common"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg} with the given status.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{Error: msg})
}

// DecodeJSON reads a single JSON object from the request body into v.
// Oversized, empty or malformed bodies yield an error wrapping
// common.ErrorValidation.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, common.MaxRequestBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return fmt.Errorf("%w: request body too large", common.ErrorValidation)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: empty request body", common.ErrorValidation)
		default:
			return fmt.Errorf("%w: malformed JSON body", common.ErrorValidation)
		}
	}
	return nil
}

// Health answers liveness probes.
func Health(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": service})
	}
}
