// Package jwt is the access-token codec: it signs claim sets with a fixed
// HMAC secret and algorithm, and verifies them back.
//
// Usage:
//
//	codec, err := jwt.NewService(jwt.Config{Secret: secret})
//	token, err := codec.Encode(jwt.Claims{"sub": "a@b.com", "role": "admin"}, 0)
//	claims, err := codec.Decode(token) // errors.Is(err, jwt.ErrInvalidToken) on failure
package jwt

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Service encodes and decodes access tokens. It is immutable after
// construction and safe for concurrent use.
type Service struct {
	cfg    Config
	now    func() time.Time
	method gojwt.SigningMethod
	key    []byte
	parser *gojwt.Parser
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, for deterministic expiry in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a token codec from cfg.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Service{
		cfg:    cfg,
		now:    time.Now,
		method: cfg.signingMethod(),
		key:    []byte(cfg.Secret),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = gojwt.NewParser(s.parserOptions()...)
	return s, nil
}

// Encode signs claims with exp = now + ttl. A ttl <= 0 uses the configured
// default. The caller's map is not modified.
func (s *Service) Encode(claims Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.cfg.AccessTokenTTL
	}
	return s.EncodeUntil(claims, s.now().Add(ttl))
}

// EncodeUntil signs claims with a caller-supplied absolute expiry.
func (s *Service) EncodeUntil(claims Claims, exp time.Time) (string, error) {
	mc := claims.clone()
	mc[ClaimExpiresAt] = exp.Unix()
	if s.cfg.Issuer != "" {
		mc[ClaimIssuer] = s.cfg.Issuer
	}
	signed, err := gojwt.NewWithClaims(s.method, mc).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the algorithm, signature and expiry of token and returns
// its claims. Every failure is an *InvalidTokenError.
func (s *Service) Decode(token string) (Claims, error) {
	mc := gojwt.MapClaims{}
	parsed, err := s.parser.ParseWithClaims(token, mc, s.keyFunc)
	if err != nil {
		return nil, invalid(classify(parsed, s.method.Alg(), err), err)
	}
	if !parsed.Valid {
		return nil, invalid(ReasonClaims, nil)
	}
	return Claims(mc), nil
}

func (s *Service) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != s.method.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	return s.key, nil
}

func (s *Service) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.method.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	return opts
}
