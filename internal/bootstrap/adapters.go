package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/classpoint/schoolgate/config"
	"github.com/classpoint/schoolgate/internal/adapters/filecache"
	"github.com/classpoint/schoolgate/internal/adapters/memstore"
	redisadapter "github.com/classpoint/schoolgate/internal/adapters/redis"
	"github.com/classpoint/schoolgate/internal/ports"
	"github.com/redis/go-redis/v9"
)

// BuildCredentialCache creates the credential cache selected by
// CACHE_BACKEND. The redis backend owns its client; callers that need
// to share a client use the adapter package directly.
func BuildCredentialCache(cfg *config.AppConfig, logger *slog.Logger) (ports.CredentialCache, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app config is required")
	}
	log := logger
	if log == nil {
		log = slog.Default()
	}

	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		log.Info("using redis credential cache", "addr", cfg.Redis.Addr, "key", cfg.Redis.Key)
		return redisadapter.NewCredentialCacheWithKey(client, cfg.Redis.Key), nil

	case config.CacheBackendFile:
		path := cfg.Cache.FilePath
		if path == "" {
			defaultPath, err := filecache.DefaultPath()
			if err != nil {
				return nil, fmt.Errorf("resolve session file path: %w", err)
			}
			path = defaultPath
		}
		log.Info("using file credential cache", "path", path)
		return filecache.New(path), nil

	case config.CacheBackendMemory:
		log.Info("using in-memory credential cache")
		return memstore.NewCache(), nil

	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
	}
}
