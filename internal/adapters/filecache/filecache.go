package filecache

// Package filecache persists the session record in a JSON file, the durable
// store for the CLI front end. Writes go through a temp file and rename so
// the three fields always land together; a torn or half-written file reads
// back as "no session".

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/classpoint/schoolgate/internal/ports"
)

// Cache is a file-backed CredentialCache.
type Cache struct {
	path string
}

// New returns a cache persisting to path.
func New(path string) *Cache {
	return &Cache{path: path}
}

// DefaultPath returns the per-user session file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "schoolgate", "session.json"), nil
}

func (c *Cache) Save(_ context.Context, rec ports.CacheRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (c *Cache) Load(ctx context.Context) (ports.CacheRecord, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ports.CacheRecord{}, ports.ErrNoSession
		}
		return ports.CacheRecord{}, fmt.Errorf("read session file: %w", err)
	}

	var rec ports.CacheRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		// Unreadable session files are corrupt, not fatal.
		if clearErr := c.Clear(ctx); clearErr != nil {
			return ports.CacheRecord{}, clearErr
		}
		return ports.CacheRecord{}, ports.ErrNoSession
	}
	if !rec.Complete() {
		if clearErr := c.Clear(ctx); clearErr != nil {
			return ports.CacheRecord{}, clearErr
		}
		return ports.CacheRecord{}, ports.ErrNoSession
	}
	return rec, nil
}

func (c *Cache) Clear(_ context.Context) error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
