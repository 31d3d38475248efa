// @title           Rooms API
// @version         1.0
// @description     Brokers ephemeral audio/video rooms on the 100ms platform.
// @description     Creates, joins and disables owner rooms and sweeps idle ones.

// @contact.name   Jan Team
// @contact.url    https://github.com/janhq/jan-server

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8190
// @BasePath  /

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/janhq/rooms-api/internal/config"
	"github.com/janhq/rooms-api/internal/domain"
	"github.com/janhq/rooms-api/internal/infrastructure/credential"
	"github.com/janhq/rooms-api/internal/infrastructure/hms"
	"github.com/janhq/rooms-api/internal/infrastructure/identity"
	"github.com/janhq/rooms-api/internal/infrastructure/logger"
	"github.com/janhq/rooms-api/internal/infrastructure/observability"
	"github.com/janhq/rooms-api/internal/infrastructure/ratelimit"
	"github.com/janhq/rooms-api/internal/infrastructure/store"
	"github.com/janhq/rooms-api/internal/interfaces/httpserver"
)

// Application holds the main application components.
type Application struct {
	httpServer  *httpserver.HTTPServer
	sweeper     *store.Sweeper
	credentials *credential.Manager
	log         zerolog.Logger
}

// NewApplication creates a new application instance.
func NewApplication(
	httpServer *httpserver.HTTPServer,
	sweeper *store.Sweeper,
	credentials *credential.Manager,
	log zerolog.Logger,
) *Application {
	return &Application{
		httpServer:  httpServer,
		sweeper:     sweeper,
		credentials: credentials,
		log:         log,
	}
}

// Start runs the application until ctx is cancelled.
func (a *Application) Start(ctx context.Context) error {
	// A service that cannot mint a management token cannot serve anything.
	if err := a.credentials.Warm(ctx); err != nil {
		return fmt.Errorf("mint initial management token: %w", err)
	}

	// Reconcile with the platform, then sweep idle rooms in background
	a.sweeper.Start(ctx)

	// Run HTTP server (blocks until context cancelled)
	err := a.httpServer.Run(ctx)

	a.sweeper.Stop()

	return err
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log := logger.New(cfg)
	zlog.Logger = log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup observability
	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	// Management token for the 100ms API
	credentials := ProvideCredentialManager(cfg, log)

	// 100ms client and the platform adapter used by the domain
	platform := hms.NewPlatform(ProvideHMSClient(cfg, credentials))

	// Optional display names for room descriptions
	names := identity.NewClient(cfg.IdentityAPIURL, cfg.IdentityAPIKey, cfg.IdentityTimeout, log)

	// Room table (mutex-based, no goroutine)
	roomStore := store.NewMemoryStore(log)

	jobs, err := observability.NewJobInstrumenter()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize job instrumentation")
	}

	// Sweeper (reconciles at startup, disables idle rooms)
	sweeper := ProvideSweeper(roomStore, platform, jobs, cfg, log)

	roomService := domain.ProvideRoomService(roomStore, platform, names, cfg, log)

	limiter := ratelimit.NewLimiter(cfg.RateLimitWindow, cfg.RateLimitMax)

	// Initialize HTTP server
	httpServer := httpserver.New(cfg, log, roomService, limiter)

	app := NewApplication(httpServer, sweeper, credentials, log)

	log.Info().
		Str("service", cfg.ServiceName).
		Int("port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Str("template_id", cfg.HMSTemplateID).
		Msg("starting application")

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// ProvideCredentialManager provides the management token manager.
func ProvideCredentialManager(cfg *config.Config, log zerolog.Logger) *credential.Manager {
	return credential.NewManager(credential.Options{
		AccessKey:    cfg.HMSAccessKey,
		Secret:       cfg.HMSSecret,
		RefreshAfter: cfg.HMSTokenRefresh,
		TokenTTL:     cfg.HMSTokenTTL,
	}, log)
}

// ProvideHMSClient provides a 100ms management API client.
func ProvideHMSClient(cfg *config.Config, credentials *credential.Manager) *hms.Client {
	return hms.NewClient(cfg.HMSBaseURL, cfg.UpstreamTimeout, credentials)
}

// ProvideSweeper provides the room sweeper.
func ProvideSweeper(
	roomStore *store.MemoryStore,
	platform *hms.Platform,
	jobs *observability.JobInstrumenter,
	cfg *config.Config,
	log zerolog.Logger,
) *store.Sweeper {
	return store.NewSweeper(roomStore, platform, store.SweeperOptions{
		Prefix:      cfg.RoomNamePrefix,
		TemplateID:  cfg.HMSTemplateID,
		IdleTimeout: cfg.RoomIdleTimeout,
		Interval:    cfg.RoomSweepInterval,
		CallTimeout: cfg.UpstreamTimeout,
	}, jobs, log)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
