package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/esteticaio/api/auth/jwt"
	"github.com/esteticaio/api/auth/password"
	"github.com/esteticaio/api/logger"
	"github.com/esteticaio/api/observability"
)

// TokenTypeBearer is the token_type reported to clients.
const TokenTypeBearer = "bearer"

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenEncoder signs a claim set. *jwt.Service implements it.
type TokenEncoder interface {
	Encode(claims jwt.Claims, ttl time.Duration) (string, error)
}

// LoginService checks a credential pair and issues an access token.
type LoginService struct {
	accounts  AccountLookup
	hasher    password.Hasher
	tokens    TokenEncoder
	dummyHash string
	log       *logger.Logger
}

// NewLoginService creates a LoginService. It hashes a random secret once
// so that logins for unknown keys spend the same work as real ones.
func NewLoginService(accounts AccountLookup, hasher password.Hasher, tokens TokenEncoder) (*LoginService, error) {
	secret, err := password.GenerateToken(16)
	if err != nil {
		return nil, err
	}
	dummy, err := hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("auth: prepare login: %w", err)
	}
	return &LoginService{
		accounts:  accounts,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
		log:       logger.WithComponent("auth"),
	}, nil
}

// Login verifies secret for the account keyed by email and returns a
// token carrying {sub: email, role: role}. Unknown email and wrong secret
// both return ErrInvalidCredentials.
func (s *LoginService) Login(ctx context.Context, email, secret string) (*Token, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanAuthLogin)
	defer span.End()

	tok, err := s.login(ctx, email, secret)
	observability.SetSpanAttribute(ctx, observability.AttrOutcome, statusOf(err))
	observability.DefaultMetrics().RecordAuth(ctx, "login", statusOf(err))
	if err != nil && !errors.Is(err, ErrInvalidCredentials) {
		observability.SetSpanError(ctx, err)
	}
	return tok, err
}

func (s *LoginService) login(ctx context.Context, email, secret string) (*Token, error) {
	log := s.log.WithContext(ctx)

	acct, err := s.accounts.FindAccount(ctx, email)
	switch {
	case errors.Is(err, ErrIdentityNotFound) || (err == nil && acct == nil):
		s.hasher.Verify(secret, s.dummyHash)
		log.Debug("login rejected", logger.Fields("reason", "unknown identity"))
		return nil, ErrInvalidCredentials
	case err != nil:
		log.WithError(err).Error("account lookup failed")
		return nil, fmt.Errorf("auth: lookup account: %w", err)
	}

	if !s.hasher.Verify(secret, acct.PasswordHash) {
		log.Debug("login rejected", logger.Fields("reason", "password mismatch"))
		return nil, ErrInvalidCredentials
	}

	access, err := s.tokens.Encode(jwt.Claims{
		jwt.ClaimSubject: acct.Email,
		jwt.ClaimRole:    acct.Role,
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("auth: issue token: %w", err)
	}

	log.Info("login succeeded", logger.Fields(logger.FieldUserID, acct.ID, logger.FieldRole, acct.Role))
	return &Token{AccessToken: access, TokenType: TokenTypeBearer}, nil
}
