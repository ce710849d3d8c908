package jwt

import (
	"errors"
	"fmt"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is matched by every decode failure.
var ErrInvalidToken = errors.New("jwt: invalid token")

// Reason names why a token was rejected. It is for logs only and must not
// reach clients.
type Reason string

const (
	ReasonMalformed Reason = "malformed"
	ReasonSignature Reason = "signature"
	ReasonAlgorithm Reason = "algorithm"
	ReasonExpired   Reason = "expired"
	ReasonClaims    Reason = "claims"
)

// InvalidTokenError is returned by Decode.
type InvalidTokenError struct {
	Reason Reason
	Err    error
}

func (e *InvalidTokenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("jwt: invalid token (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("jwt: invalid token (%s)", e.Reason)
}

func (e *InvalidTokenError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidToken) hold for every reason.
func (e *InvalidTokenError) Is(target error) bool { return target == ErrInvalidToken }

// ReasonOf returns the rejection reason carried by err, or "" when err is
// not a decode failure.
func ReasonOf(err error) Reason {
	var ite *InvalidTokenError
	if errors.As(err, &ite) {
		return ite.Reason
	}
	return ""
}

func invalid(reason Reason, err error) error {
	return &InvalidTokenError{Reason: reason, Err: err}
}

// classify maps a golang-jwt parse error to a Reason. Order matters: an
// expired token whose signature is valid reports expired, and an algorithm
// swap reports algorithm even though the library files it under signature.
func classify(token *gojwt.Token, expectedAlg string, err error) Reason {
	switch {
	case errors.Is(err, gojwt.ErrTokenMalformed):
		return ReasonMalformed
	case errors.Is(err, gojwt.ErrTokenUnverifiable):
		return ReasonAlgorithm
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		if token != nil && token.Method != nil && token.Method.Alg() != expectedAlg {
			return ReasonAlgorithm
		}
		return ReasonSignature
	case errors.Is(err, gojwt.ErrTokenExpired):
		return ReasonExpired
	default:
		return ReasonClaims
	}
}
