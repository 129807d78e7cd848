// Package http provides HTTP utilities including chi-compatible error handling
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/mmchougule/private-position-ee/pkg/app/errors"
)

// HandlerFunc defines a function that returns an error for clean error handling
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// HandleError wraps an error-returning HandlerFunc into a standard http.HandlerFunc
// so handlers can return ServiceErrors and let the adapter translate them.
func HandleError(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			WriteError(w, err)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
	Phase string `json:"phase,omitempty"`
}

// WriteError renders an error as a JSON response. ServiceErrors map to
// their category's status code and expose the phase tag; everything else
// is an opaque 500.
func WriteError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	var svcErr *apperrors.ServiceError
	if errors.As(err, &svcErr) {
		code := svcErr.StatusCode()
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(&errorResponse{
			Error: svcErr.Error(),
			Code:  code,
			Phase: string(svcErr.Phase),
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(&errorResponse{
		Error: "Unexpected Service Error",
		Code:  http.StatusInternalServerError,
	})
}

// WriteJSON renders a success payload.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
