package shared

import "errors"

var (
	// ErrAuthenticationMissing indicates the request carried no credential.
	ErrAuthenticationMissing = errors.New("authentication required")
	// ErrAuthenticationInvalid indicates the credential failed verification.
	ErrAuthenticationInvalid = errors.New("invalid credentials")
	// ErrAuthorizationRoleMismatch indicates the credential belongs to another role.
	ErrAuthorizationRoleMismatch = errors.New("role not permitted")
	// ErrAuthorizationPrincipalNotEnrolled indicates the principal is missing or soft-deleted.
	ErrAuthorizationPrincipalNotEnrolled = errors.New("principal not enrolled")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates the request payload was rejected.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates a uniqueness constraint was violated.
	ErrConflict = errors.New("conflict")
)

// UserSafeMessage returns a message that can be shown to API clients without
// leaking storage or crypto details.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthenticationMissing):
		return ErrAuthenticationMissing.Error()
	case errors.Is(err, ErrAuthenticationInvalid):
		return ErrAuthenticationInvalid.Error()
	case errors.Is(err, ErrAuthorizationRoleMismatch):
		return ErrAuthorizationRoleMismatch.Error()
	case errors.Is(err, ErrAuthorizationPrincipalNotEnrolled):
		return ErrAuthorizationPrincipalNotEnrolled.Error()
	case errors.Is(err, ErrNotFound):
		return ErrNotFound.Error()
	case errors.Is(err, ErrConflict):
		return ErrConflict.Error()
	case errors.Is(err, ErrValidation):
		// Validation errors are built by this codebase and carry field names only.
		return err.Error()
	default:
		return "internal error"
	}
}
