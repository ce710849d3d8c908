package jwt

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Registered claim names used by the API.
const (
	ClaimSubject   = "sub"
	ClaimRole      = "role"
	ClaimExpiresAt = "exp"
	ClaimIssuer    = "iss"
)

// Claims is the decoded claim set of a token.
type Claims map[string]any

// Subject returns the "sub" claim, or "" when absent or not a string.
func (c Claims) Subject() string {
	s, _ := c[ClaimSubject].(string)
	return s
}

// Role returns the "role" claim, or "" when absent or not a string.
func (c Claims) Role() string {
	s, _ := c[ClaimRole].(string)
	return s
}

// ExpiresAt returns the "exp" claim as a time. The zero time is returned
// when the claim is absent or malformed.
func (c Claims) ExpiresAt() time.Time {
	d, err := gojwt.MapClaims(c).GetExpirationTime()
	if err != nil || d == nil {
		return time.Time{}
	}
	return d.Time
}

func (c Claims) clone() gojwt.MapClaims {
	out := make(gojwt.MapClaims, len(c)+2)
	for k, v := range c {
		out[k] = v
	}
	return out
}
