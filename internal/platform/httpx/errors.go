// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/odyssey-erp/backoffice/internal/shared"
)

// StatusFor maps a domain error onto its transport status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrAuthenticationMissing), errors.Is(err, shared.ErrAuthenticationInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrAuthorizationRoleMismatch), errors.Is(err, shared.ErrAuthorizationPrincipalNotEnrolled):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	detail := shared.UserSafeMessage(err)
	if status == http.StatusInternalServerError {
		detail = ""
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="backoffice"`)
	}
	Problem(w, status, http.StatusText(status), detail)
}
