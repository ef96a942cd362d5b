package redis

// Package redis provides a Redis-backed credential cache for gateway
// deployments that share a session across processes.

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/classpoint/schoolgate/internal/ports"
)

const (
	fieldToken  = "token"
	fieldUser   = "user"
	fieldExpiry = "token_expiry"
)

// CredentialCache stores the session record in a single Redis hash so the
// three fields are written and cleared as a unit.
type CredentialCache struct {
	client redis.UniversalClient
	key    string
}

// NewCredentialCache creates a Redis-backed credential cache.
func NewCredentialCache(client redis.UniversalClient) *CredentialCache {
	return &CredentialCache{client: client, key: "schoolgate:session"}
}

// NewCredentialCacheWithKey creates a credential cache under a custom key.
func NewCredentialCacheWithKey(client redis.UniversalClient, key string) *CredentialCache {
	return &CredentialCache{client: client, key: key}
}

func (c *CredentialCache) Save(ctx context.Context, rec ports.CacheRecord) error {
	fields := map[string]any{
		fieldToken:  rec.Token,
		fieldUser:   string(rec.Identity),
		fieldExpiry: rec.Expiry,
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, c.key)
	pipe.HSet(ctx, c.key, fields)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (c *CredentialCache) Load(ctx context.Context) (ports.CacheRecord, error) {
	m, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.CacheRecord{}, ports.ErrNoSession
		}
		return ports.CacheRecord{}, fmt.Errorf("redis load session: %w", err)
	}
	if len(m) == 0 {
		return ports.CacheRecord{}, ports.ErrNoSession
	}

	rec := ports.CacheRecord{
		Token:  m[fieldToken],
		Expiry: m[fieldExpiry],
	}
	if user := m[fieldUser]; user != "" {
		rec.Identity = []byte(user)
	}

	// A record missing its token or identity survived a partial write; it
	// is corrupt and gets discarded rather than handed out.
	if !rec.Complete() {
		if delErr := c.Clear(ctx); delErr != nil {
			return ports.CacheRecord{}, fmt.Errorf("discard corrupt session: %w", delErr)
		}
		return ports.CacheRecord{}, ports.ErrNoSession
	}

	return rec, nil
}

func (c *CredentialCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
