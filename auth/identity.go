package auth

import "context"

// Well-known roles.
const (
	RoleAdmin        = "admin"
	RoleProfessional = "professional"
	RoleReceptionist = "receptionist"
)

// DefaultRole is assigned to accounts created without an explicit role.
const DefaultRole = RoleProfessional

// Identity is the resolved principal for a request. Email is the stable
// identity key carried in the token's "sub" claim.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Account is an Identity together with its stored credential hash.
type Account struct {
	Identity
	PasswordHash string
}

// UserLookup resolves an identity key to an Identity. It returns
// ErrIdentityNotFound when no user has that key; any other error is an
// infrastructure failure.
type UserLookup interface {
	FindByIdentityKey(ctx context.Context, key string) (*Identity, error)
}

// AccountLookup resolves an identity key to an Account for login.
// Same error contract as UserLookup.
type AccountLookup interface {
	FindAccount(ctx context.Context, key string) (*Account, error)
}
