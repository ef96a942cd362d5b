package config

// RedisConfig contains redis connection configuration for the redis
// cache backend.
type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`

	// Key is the hash key holding the session record.
	Key string `env:"KEY" envDefault:"schoolgate:session"`
}
