package config

import "fmt"

// CacheBackend selects where the credential cache lives.
type CacheBackend string

const (
	// CacheBackendRedis stores the session record in a redis hash.
	CacheBackendRedis CacheBackend = "redis"
	// CacheBackendFile stores the session record on disk.
	CacheBackendFile CacheBackend = "file"
	// CacheBackendMemory keeps the session record in process memory only.
	CacheBackendMemory CacheBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler so env parsing
// rejects unknown backends instead of silently accepting them.
func (b *CacheBackend) UnmarshalText(text []byte) error {
	switch CacheBackend(text) {
	case CacheBackendRedis, CacheBackendFile, CacheBackendMemory:
		*b = CacheBackend(text)
		return nil
	default:
		return fmt.Errorf("invalid cache backend %q (valid options: redis, file, memory)", string(text))
	}
}

// CacheConfig contains credential cache configuration.
type CacheConfig struct {
	Backend CacheBackend `env:"BACKEND" envDefault:"file"`

	// FilePath overrides the default on-disk session location. Only
	// used by the file backend; empty means the per-user default.
	FilePath string `env:"FILE_PATH"`
}

// Sanitize applies guardrails to cache configuration.
func (c *CacheConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = CacheBackendFile
	}
}
