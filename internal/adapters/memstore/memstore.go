package memstore

// Package memstore provides in-process implementations of the credential
// cache and the one-shot flag store. It backs the memory cache backend and
// doubles as the store used throughout the test suite.

import (
	"context"
	"sync"

	"github.com/classpoint/schoolgate/internal/ports"
)

// Cache is an in-memory CredentialCache. Safe for concurrent use.
type Cache struct {
	mu  sync.Mutex
	rec ports.CacheRecord
	set bool
}

// NewCache returns an empty in-memory cache.
func NewCache() *Cache { return &Cache{} }

func (c *Cache) Save(_ context.Context, rec ports.CacheRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rec = rec
	c.set = true
	return nil
}

func (c *Cache) Load(_ context.Context) (ports.CacheRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.set {
		return ports.CacheRecord{}, ports.ErrNoSession
	}
	if !c.rec.Complete() {
		// Half-written record: corrupt, discard.
		c.rec = ports.CacheRecord{}
		c.set = false
		return ports.CacheRecord{}, ports.ErrNoSession
	}
	return c.rec, nil
}

func (c *Cache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rec = ports.CacheRecord{}
	c.set = false
	return nil
}

// Flags is an in-memory FlagStore with one-shot semantics.
type Flags struct {
	mu sync.Mutex
	m  map[string]string
}

// NewFlags returns an empty in-memory flag store.
func NewFlags() *Flags { return &Flags{m: make(map[string]string)} }

func (f *Flags) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[key] = value
	return nil
}

// Take returns the flag value and deletes it, so the notice is surfaced
// exactly once.
func (f *Flags) Take(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.m[key]
	if ok {
		delete(f.m, key)
	}
	return v, ok, nil
}
