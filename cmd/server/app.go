package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/phrazzld/watercycle-memory/internal/config"
	"github.com/phrazzld/watercycle-memory/internal/events"
	"github.com/phrazzld/watercycle-memory/internal/platform/metrics"
	"github.com/phrazzld/watercycle-memory/internal/realtime"
	"github.com/phrazzld/watercycle-memory/internal/service"
	"github.com/phrazzld/watercycle-memory/internal/store"
	"github.com/phrazzld/watercycle-memory/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	sessions *store.MemorySessionStore
	emitter  *events.InMemoryEventEmitter
	hub      *realtime.Hub

	// registry is nil when metrics are disabled.
	registry *prometheus.Registry

	games   service.GameService
	janitor *task.Janitor
}

// newApplication creates a new application instance with all dependencies
// initialized. Event handlers are registered before any session can exist.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	app.sessions = store.NewMemorySessionStore(cfg.Game.MaxSessions)
	app.emitter = events.NewInMemoryEventEmitter(logger)

	app.hub = realtime.NewHub(logger)
	app.emitter.RegisterHandler(app.hub)

	if cfg.Metrics.Enabled {
		app.registry = prometheus.NewRegistry()
		app.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		collector, err := metrics.NewCollector(app.registry)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics collector: %w", err)
		}
		app.emitter.RegisterHandler(collector)
	}

	app.games = service.NewGameService(app.sessions, app.emitter, service.GameServiceConfig{
		SessionTTL: time.Duration(cfg.Game.SessionTTLMinutes) * time.Minute,
	}, logger)

	app.janitor = task.NewJanitor(task.SweeperFunc(app.games.EvictIdle), task.JanitorConfig{
		Name:     "session_janitor",
		Interval: time.Duration(cfg.Game.JanitorIntervalSeconds) * time.Second,
	}, logger)

	logger.Info("application initialized",
		"session_ttl_minutes", cfg.Game.SessionTTLMinutes,
		"janitor_interval_seconds", cfg.Game.JanitorIntervalSeconds)

	return app, nil
}

// run starts the janitor and serves HTTP on the configured port until ctx is
// canceled.
func (app *application) run(ctx context.Context) error {
	router, err := app.setupRouter()
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	if err := app.janitor.Start(); err != nil {
		return fmt.Errorf("failed to start janitor: %w", err)
	}
	defer app.cleanup()

	addr := net.JoinHostPort("", strconv.Itoa(app.config.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return app.serve(ctx, ln, router)
}

// cleanup stops background work, ends every live session so no timer keeps
// firing, and disconnects websocket clients.
func (app *application) cleanup() {
	app.logger.Info("cleaning up application resources")
	app.janitor.Stop()

	ended, err := app.games.EndAll(context.Background())
	if err != nil {
		app.logger.Error("failed to end sessions", "error", err)
	}

	app.hub.Close()
	app.logger.Info("application cleanup completed", "ended_sessions", ended)
}
