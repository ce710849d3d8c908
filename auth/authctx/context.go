// Package authctx carries the resolved identity through a request context.
//
//	ctx = authctx.Set(ctx, identity)   // authentication middleware
//	id, ok := authctx.Get(ctx)         // handlers
package authctx

import (
	"context"
	"fmt"

	"github.com/esteticaio/api/auth"
)

type contextKey struct{}

var identityKey = contextKey{}

// Set stores the resolved identity in ctx.
func Set(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Get returns the identity stored in ctx.
func Get(ctx context.Context) (*auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*auth.Identity)
	return id, ok && id != nil
}

// MustGet returns the identity stored in ctx and panics when there is none.
// Only call it behind the authentication middleware.
func MustGet(ctx context.Context) *auth.Identity {
	id, ok := Get(ctx)
	if !ok {
		panic("authctx: no identity in context")
	}
	return id
}

// ErrNoIdentity is returned when no identity is stored in the context.
// It matches auth.ErrUnauthenticated.
var ErrNoIdentity = fmt.Errorf("authctx: no identity in context: %w", auth.ErrUnauthenticated)

// GetOrError returns the identity stored in ctx or ErrNoIdentity.
func GetOrError(ctx context.Context) (*auth.Identity, error) {
	id, ok := Get(ctx)
	if !ok {
		return nil, ErrNoIdentity
	}
	return id, nil
}
