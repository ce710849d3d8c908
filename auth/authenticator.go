package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/esteticaio/api/auth/jwt"
	"github.com/esteticaio/api/logger"
	"github.com/esteticaio/api/observability"
)

// TokenDecoder verifies an access token and returns its claims.
// *jwt.Service implements it.
type TokenDecoder interface {
	Decode(token string) (jwt.Claims, error)
}

// Authenticator resolves bearer tokens into identities. It holds no
// per-request state and is safe for concurrent use.
type Authenticator struct {
	tokens TokenDecoder
	users  UserLookup
	log    *logger.Logger
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(tokens TokenDecoder, users UserLookup) *Authenticator {
	return &Authenticator{
		tokens: tokens,
		users:  users,
		log:    logger.WithComponent("auth"),
	}
}

// Resolve decodes token and looks up its subject. Every token or subject
// problem yields ErrUnauthenticated; a failing lookup is returned wrapped
// so it surfaces as an internal error. It performs exactly one lookup per
// decoded token and writes nothing.
func (a *Authenticator) Resolve(ctx context.Context, token string) (*Identity, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanAuthResolve)
	defer span.End()

	id, err := a.resolve(ctx, token)
	observability.SetSpanAttribute(ctx, observability.AttrOutcome, statusOf(err))
	observability.DefaultMetrics().RecordAuth(ctx, "resolve", statusOf(err))
	if err != nil {
		if !errors.Is(err, ErrUnauthenticated) {
			observability.SetSpanError(ctx, err)
		}
		return nil, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrUserID, id.ID)
	observability.SetSpanAttribute(ctx, observability.AttrRole, id.Role)
	return id, nil
}

func (a *Authenticator) resolve(ctx context.Context, token string) (*Identity, error) {
	log := a.log.WithContext(ctx)

	claims, err := a.tokens.Decode(token)
	if err != nil {
		log.Debug("token rejected", logger.Fields("reason", string(jwt.ReasonOf(err))))
		return nil, ErrUnauthenticated
	}

	sub := claims.Subject()
	if sub == "" {
		log.Debug("token rejected", logger.Fields("reason", "missing subject"))
		return nil, ErrUnauthenticated
	}

	id, err := a.users.FindByIdentityKey(ctx, sub)
	switch {
	case errors.Is(err, ErrIdentityNotFound):
		log.Debug("token rejected", logger.Fields("reason", "unknown subject"))
		return nil, ErrUnauthenticated
	case err != nil:
		log.WithError(err).Error("identity lookup failed")
		return nil, fmt.Errorf("auth: lookup identity: %w", err)
	case id == nil:
		return nil, ErrUnauthenticated
	}
	return id, nil
}
