package users

import (
	"context"
	"errors"

	"github.com/esteticaio/api/auth"
)

// Lookup resolves identity keys (emails) against the repository.
type Lookup struct {
	repo *Repository
}

var (
	_ auth.UserLookup    = (*Lookup)(nil)
	_ auth.AccountLookup = (*Lookup)(nil)
)

// NewLookup creates a Lookup.
func NewLookup(repo *Repository) *Lookup {
	return &Lookup{repo: repo}
}

// FindByIdentityKey implements auth.UserLookup.
func (l *Lookup) FindByIdentityKey(ctx context.Context, key string) (*auth.Identity, error) {
	u, err := l.find(ctx, key)
	if err != nil {
		return nil, err
	}
	return u.Identity(), nil
}

// FindAccount implements auth.AccountLookup.
func (l *Lookup) FindAccount(ctx context.Context, key string) (*auth.Account, error) {
	u, err := l.find(ctx, key)
	if err != nil {
		return nil, err
	}
	return u.Account(), nil
}

func (l *Lookup) find(ctx context.Context, key string) (*User, error) {
	u, err := l.repo.FindByEmail(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, auth.ErrIdentityNotFound
	}
	return u, err
}
