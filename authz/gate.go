package authz

import (
	"github.com/esteticaio/api/auth"
)

// RequireRole returns id unchanged when its role equals role, and
// auth.ErrForbidden otherwise. A nil identity has not been authenticated
// and yields auth.ErrUnauthenticated.
func RequireRole(id *auth.Identity, role string) (*auth.Identity, error) {
	if id == nil {
		return nil, auth.ErrUnauthenticated
	}
	if id.Role != role {
		return nil, auth.ErrForbidden
	}
	return id, nil
}

// Policy decides whether an identity may proceed.
type Policy func(id *auth.Identity) error

// Role returns a Policy that requires the exact role.
func Role(role string) Policy {
	return func(id *auth.Identity) error {
		_, err := RequireRole(id, role)
		return err
	}
}

// Check runs p against id.
func (p Policy) Check(id *auth.Identity) error {
	return p(id)
}
