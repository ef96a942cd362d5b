package config

import "time"

// defaultRequestTimeout bounds every call to the school API.
const defaultRequestTimeout = 30 * time.Second

// APIConfig contains school API endpoint configuration.
type APIConfig struct {
	// BaseURL is the school API root, including any path prefix.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:3000/api"`

	// Timeout is the hard per-request timeout.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to API configuration.
func (c *APIConfig) Sanitize() {
	if c.Timeout <= 0 {
		c.Timeout = defaultRequestTimeout
	}
}
