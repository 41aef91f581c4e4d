package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"meetreg/internal/domain"
)

// errorResponse is the JSON envelope for every non-2xx response.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// httpStatusFromDomainError maps domain errors to HTTP status codes. Quota
// and eligibility rejections are 422: the request was well formed but the
// meet's rules refuse it.
func httpStatusFromDomainError(err error) int {
	var notFound *domain.NotFoundError
	var authorization *domain.AuthorizationError
	var validation *domain.ValidationError
	var conflict *domain.ConflictError
	var quota *domain.QuotaExceededError
	var ineligible *domain.IneligibleEventError
	var persistence *domain.PersistenceError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &authorization):
		return http.StatusForbidden
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &quota), errors.As(err, &ineligible):
		return http.StatusUnprocessableEntity
	case errors.As(err, &persistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := httpStatusFromDomainError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Do not leak internals on unexpected failures.
		message = "internal server error"
	}
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
