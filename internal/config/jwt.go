package config

import "fmt"

// AuthConfig holds the HS256 secret used to verify bearer tokens on the HTTP API.
// An empty Secret leaves the API unauthenticated.
type AuthConfig struct {
	Secret          string `mapstructure:"secret"`
	SecretFile      string `mapstructure:"secret_file"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
}

// Enabled reports whether bearer tokens are required.
func (c AuthConfig) Enabled() bool {
	return c.Secret != ""
}

// Validate checks the token settings when auth is enabled.
func (c AuthConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if len(c.Secret) < 32 {
		return &ValidationError{Field: "auth.secret", Message: fmt.Sprintf("must be at least 32 characters, got %d", len(c.Secret))}
	}
	if c.ExpirationHours < 1 {
		return &ValidationError{Field: "auth.expiration_hours", Message: fmt.Sprintf("must be at least 1 hour, got %d", c.ExpirationHours)}
	}
	return nil
}
