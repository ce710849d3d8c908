package auth

import (
	"fmt"

	"github.com/esteticaio/api/auth/jwt"
	"github.com/esteticaio/api/auth/password"
)

// Config holds authentication configuration.
type Config struct {
	// JWT configures the access-token codec.
	JWT jwt.Config `mapstructure:"jwt"`

	// Password configures credential hashing.
	Password password.Config `mapstructure:"password"`
}

// ApplyDefaults sets defaults for both sections.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
	c.Password.ApplyDefaults()
}

// Validate checks both sections.
func (c *Config) Validate() error {
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("auth.password: %w", err)
	}
	return nil
}

// Describe returns a one-liner for the startup summary, e.g.
// "JWT(HS256) TTL=30m0s password=bcrypt".
func (c *Config) Describe() string {
	return fmt.Sprintf("JWT(%s) TTL=%s password=%s", c.JWT.Method, c.JWT.AccessTokenTTL, c.Password.Algorithm)
}
