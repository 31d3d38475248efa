//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/janhq/rooms-api/internal/config"
	"github.com/janhq/rooms-api/internal/domain"
	"github.com/janhq/rooms-api/internal/domain/room"
	"github.com/janhq/rooms-api/internal/infrastructure/hms"
	"github.com/janhq/rooms-api/internal/infrastructure/identity"
	"github.com/janhq/rooms-api/internal/infrastructure/observability"
	"github.com/janhq/rooms-api/internal/infrastructure/ratelimit"
	"github.com/janhq/rooms-api/internal/infrastructure/store"
	"github.com/janhq/rooms-api/internal/interfaces"
)

// ProviderSet is the wire provider set for the application.
var ProviderSet = wire.NewSet(
	// Infrastructure providers
	ProvideCredentialManager,
	ProvideHMSClient,
	hms.NewPlatform,
	ProvideIdentityClient,
	ProvideRoomStore,
	ProvideLimiter,
	observability.NewJobInstrumenter,
	ProvideSweeper,
	wire.Bind(new(room.Store), new(*store.MemoryStore)),
	wire.Bind(new(room.Platform), new(*hms.Platform)),
	wire.Bind(new(room.NameResolver), new(*identity.Client)),

	// Domain providers
	domain.ServiceProvider,

	// Interface providers
	interfaces.InterfacesProvider,

	// Application
	NewApplication,
)

// ProvideIdentityClient provides the display name resolver.
func ProvideIdentityClient(cfg *config.Config, log zerolog.Logger) *identity.Client {
	return identity.NewClient(cfg.IdentityAPIURL, cfg.IdentityAPIKey, cfg.IdentityTimeout, log)
}

// ProvideRoomStore provides the in-memory room table.
func ProvideRoomStore(log zerolog.Logger) *store.MemoryStore {
	return store.NewMemoryStore(log)
}

// ProvideLimiter provides the per-client rate limiter.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.NewLimiter(cfg.RateLimitWindow, cfg.RateLimitMax)
}

// CreateApplication creates the application with all dependencies wired.
func CreateApplication(cfg *config.Config, log zerolog.Logger) (*Application, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
