package testutil

// Package testutil provides shared helpers for tests that need external
// infrastructure. Redis-backed tests skip when no server is reachable so
// the unit suite stays runnable everywhere.

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// TestingTB is the subset of testing.TB the helpers need.
type TestingTB interface {
	Helper()
	Logf(format string, args ...any)
	Skipf(format string, args ...any)
	Cleanup(func())
}

// SetupTestRedis returns a Redis client for testing, skipping the test when
// Redis is not available. Set TEST_REDIS_ADDR to point at a non-default
// server.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: closing redis client after ping error: %v", cerr)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}

	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: closing redis client: %v", err)
		}
	})
	return client
}
