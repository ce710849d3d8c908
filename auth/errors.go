package auth

import (
	"errors"
	"net/http"

	apperrors "github.com/esteticaio/api/errors"
)

var (
	// ErrInvalidCredentials is returned by login for an unknown identity
	// key or a wrong password, without saying which.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrUnauthenticated covers a missing, malformed, tampered or expired
	// token and a token whose subject no longer exists.
	ErrUnauthenticated = errors.New("auth: unauthenticated")

	// ErrForbidden is returned when an authenticated principal lacks the required role.
	ErrForbidden = errors.New("auth: forbidden")

	// ErrIdentityNotFound is returned by UserLookup implementations.
	ErrIdentityNotFound = errors.New("auth: identity not found")
)

// Client-facing messages. Unauthenticated and invalid-credential failures
// share one message so callers cannot tell them apart.
const (
	MessageUnauthenticated = "Could not validate credentials."
	MessageForbidden       = "You do not have permission to access this resource."
)

// ToAppError maps an authentication error to its HTTP representation.
// Unrecognised errors become internal errors.
func ToAppError(err error) *apperrors.AppError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		return apperrors.Unauthorized(MessageUnauthenticated).
			WithHeader("WWW-Authenticate", "Bearer")
	case errors.Is(err, ErrForbidden):
		return apperrors.Forbidden(MessageForbidden)
	default:
		return apperrors.Wrap(err)
	}
}

// IsAuthError reports whether err is one of the three client-facing kinds.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrForbidden)
}

// statusOf is used for span outcomes.
func statusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return ToAppError(err).HTTPStatus
}
