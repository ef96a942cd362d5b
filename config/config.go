package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config files for
// details on available environment variables:
//   - api.go: school API endpoint configuration
//   - auth.go: credential expiry and sign-in configuration
//   - cache.go: credential cache backend configuration
//   - redis.go: Redis connection configuration
type AppConfig struct {
	// API is the school API endpoint configuration.
	API APIConfig `envPrefix:"API_"`

	// Auth is the credential handling configuration.
	Auth AuthConfig `envPrefix:"AUTH_"`

	// Cache selects and configures the credential cache backend.
	Cache CacheConfig `envPrefix:"CACHE_"`

	// Redis connection settings (used when Cache.Backend is redis).
	Redis RedisConfig `envPrefix:"REDIS_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment
// variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.Auth.Sanitize()
	c.Cache.Sanitize()
}
