package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yungbote/smartpath-backend/internal/config"
	"github.com/yungbote/smartpath-backend/internal/data/graph"
	"github.com/yungbote/smartpath-backend/internal/domain/catalog"
	apphttp "github.com/yungbote/smartpath-backend/internal/http"
	"github.com/yungbote/smartpath-backend/internal/observability"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	Clients  Clients
	Store    graph.Store
	Services Services
	Server   *apphttp.Server

	otelShutdown func(context.Context) error
}

// New loads configuration and wires every component. Optional backends that fail to come up
// are logged and skipped so the API can still answer from the static catalogue.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.NewWithOptions(cfg.Log.Mode, logger.Options{
		Redact:   cfg.Log.Redact,
		HashSalt: cfg.Log.HashSalt,
		Level:    cfg.Log.Level,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		Endpoint:    cfg.Otel.Endpoint,
		Insecure:    cfg.Otel.Insecure,
		SampleRatio: cfg.Otel.SampleRatio,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Otel.Environment,
		Version:     cfg.Server.APIVersion,
	})

	clients := wireClients(ctx, log, cfg)

	snap, profiles, err := loadReference(ctx, log, cfg, clients.DB)
	if err != nil {
		clients.Close(ctx)
		log.Sync()
		return nil, err
	}

	stores := wireStores(ctx, log, cfg, clients, snap)
	serviceset := wireServices(log, cfg, stores.Store, profiles)
	handlerset := wireHandlers(log, cfg, serviceset, stores)
	middleware := wireMiddleware(log, cfg)
	server := apphttp.NewServer(":"+cfg.Server.Port, routerConfig(log, cfg, handlerset, middleware))

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Store:        stores.Store,
		Services:     serviceset,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "port", a.Cfg.Server.Port)
	return a.Server.Run()
}

// Shutdown drains in-flight requests, then releases clients and flushes telemetry.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	a.Clients.Close(ctx)
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("otel shutdown: %w", err))
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
	return errors.Join(errs...)
}

func (a *App) ShutdownTimeout() time.Duration {
	if a == nil || a.Cfg == nil || a.Cfg.Server.ShutdownTimeout <= 0 {
		return 10 * time.Second
	}
	return a.Cfg.Server.ShutdownTimeout
}

// profilesOrEmpty guards wiring against a nil index.
func profilesOrEmpty(p *catalog.ProfileIndex) *catalog.ProfileIndex {
	if p == nil {
		return catalog.NewProfileIndex(nil)
	}
	return p
}
