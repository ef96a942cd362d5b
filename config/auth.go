package config

import "time"

const defaultExpiryBuffer = 5 * time.Minute

// AuthConfig contains credential lifetime and navigation configuration.
type AuthConfig struct {
	// ExpiryBuffer is how long before the credential's exp instant a
	// session is already treated as expired.
	ExpiryBuffer time.Duration `env:"EXPIRY_BUFFER" envDefault:"5m"`

	// SignInPath is where invalidated sessions are redirected.
	SignInPath string `env:"SIGNIN_PATH" envDefault:"/signin"`
}

// Sanitize applies guardrails to auth configuration.
func (c *AuthConfig) Sanitize() {
	if c.ExpiryBuffer <= 0 {
		c.ExpiryBuffer = defaultExpiryBuffer
	}
	if c.SignInPath == "" {
		c.SignInPath = "/signin"
	}
}
