package bootstrap

import (
	"path/filepath"
	"testing"

	"github.com/classpoint/schoolgate/config"
	"github.com/classpoint/schoolgate/internal/adapters/filecache"
	"github.com/classpoint/schoolgate/internal/adapters/memstore"
)

func memoryConfig() *config.AppConfig {
	cfg := &config.AppConfig{}
	cfg.Cache.Backend = config.CacheBackendMemory
	cfg.API.BaseURL = "http://localhost:3000/api"
	cfg.Sanitize()
	return cfg
}

func TestNewGateway(t *testing.T) {
	gw, err := NewGateway(GatewayDeps{Config: memoryConfig()})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}

	if gw.Cache == nil {
		t.Error("expected cache to be wired")
	}
	if gw.Flags == nil {
		t.Error("expected flag store to be wired")
	}
	if gw.Clock == nil {
		t.Error("expected clock to be wired")
	}
	if gw.Pipeline == nil {
		t.Error("expected pipeline to be wired")
	}
	if gw.API == nil {
		t.Error("expected api client to be wired")
	}
	if gw.Store == nil {
		t.Error("expected session store to be wired")
	}
}

func TestNewGateway_NilConfig(t *testing.T) {
	if _, err := NewGateway(GatewayDeps{}); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestBuildCredentialCache(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		cfg := memoryConfig()
		cache, err := BuildCredentialCache(cfg, nil)
		if err != nil {
			t.Fatalf("build cache: %v", err)
		}
		if _, ok := cache.(*memstore.Cache); !ok {
			t.Fatalf("expected memstore cache, got %T", cache)
		}
	})

	t.Run("file backend with explicit path", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.Cache.Backend = config.CacheBackendFile
		cfg.Cache.FilePath = filepath.Join(t.TempDir(), "session.json")

		cache, err := BuildCredentialCache(cfg, nil)
		if err != nil {
			t.Fatalf("build cache: %v", err)
		}
		if _, ok := cache.(*filecache.Cache); !ok {
			t.Fatalf("expected file cache, got %T", cache)
		}
	})

	t.Run("nil config", func(t *testing.T) {
		if _, err := BuildCredentialCache(nil, nil); err == nil {
			t.Fatal("expected error for nil config")
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.Cache.Backend = config.CacheBackend("sqlite")
		if _, err := BuildCredentialCache(cfg, nil); err == nil {
			t.Fatal("expected error for unknown backend")
		}
	})
}
