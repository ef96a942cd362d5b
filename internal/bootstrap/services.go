package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/classpoint/schoolgate/config"
	"github.com/classpoint/schoolgate/internal/adapters/memstore"
	"github.com/classpoint/schoolgate/internal/adapters/schoolapi"
	"github.com/classpoint/schoolgate/internal/credential"
	"github.com/classpoint/schoolgate/internal/ports"
	"github.com/classpoint/schoolgate/internal/session"
	"github.com/classpoint/schoolgate/internal/transport"
)

// Gateway holds the wired session gateway components.
type Gateway struct {
	Cache    ports.CredentialCache
	Flags    ports.FlagStore
	Clock    *credential.Clock
	Pipeline *transport.Pipeline
	API      *schoolapi.Client
	Store    *session.Store
}

// GatewayDeps groups dependencies for gateway construction.
type GatewayDeps struct {
	Config    *config.AppConfig
	Navigator ports.Navigator
	Logger    *slog.Logger
}

// NewGateway wires the credential cache, transport pipeline, school API
// client and session store. The store's invalidation handler is
// registered on the pipeline here so neither package needs to know
// about the other's construction.
func NewGateway(deps GatewayDeps) (*Gateway, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("app config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cache, err := BuildCredentialCache(deps.Config, logger)
	if err != nil {
		return nil, fmt.Errorf("build credential cache: %w", err)
	}

	flags := memstore.NewFlags()
	clock := credential.NewClock(deps.Config.Auth.ExpiryBuffer)

	pipeline := transport.New(transport.Options{
		Cache:   cache,
		Flags:   flags,
		Clock:   clock,
		Timeout: deps.Config.API.Timeout,
		Logger:  logger,
	})

	api := schoolapi.New(schoolapi.Options{
		Pipeline: pipeline,
		BaseURL:  deps.Config.API.BaseURL,
	})

	store := session.NewStore(session.Options{
		Cache:     cache,
		API:       api,
		Clock:     clock,
		Navigator: deps.Navigator,
		Logger:    logger,
	})

	pipeline.OnInvalidate(store.HandleInvalidation)

	return &Gateway{
		Cache:    cache,
		Flags:    flags,
		Clock:    clock,
		Pipeline: pipeline,
		API:      api,
		Store:    store,
	}, nil
}
