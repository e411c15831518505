package app

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/statusdesk/status-admin/internal/config"
	"github.com/statusdesk/status-admin/internal/matcher"
	"github.com/statusdesk/status-admin/internal/semexpr"
	"github.com/statusdesk/status-admin/internal/server"
	"github.com/statusdesk/status-admin/internal/service"
	"github.com/statusdesk/status-admin/internal/storage/bolt"
)

// App owns every long-lived component of the admin service.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *bolt.Store
	server *server.Server

	Status *service.StatusService
	Logs   *service.StatusLogService
	Auth   *service.AuthService
}

// New opens the store and wires services and HTTP handlers.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	store, err := bolt.New(cfg.Storage.Path, bolt.WithLogger(logger.Named("store")))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	cache := semexpr.NewCache(cfg.Matcher.CacheSize)
	statusSvc := service.NewStatusService(store, matcher.New(cache, logger.Named("matcher")), logger.Named("status"))
	logSvc := service.NewStatusLogService(store)
	authSvc, err := service.NewAuthService(cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
		server: server.New(cfg, statusSvc, logSvc, authSvc, logger.Named("http")),
		Status: statusSvc,
		Logs:   logSvc,
		Auth:   authSvc,
	}, nil
}

// Server returns the HTTP server.
func (a *App) Server() *server.Server {
	return a.server
}

// Start blocks serving HTTP until Shutdown is called.
func (a *App) Start() error {
	a.logger.Info("http server listening",
		zap.String("addr", a.cfg.HTTP.Addr),
		zap.String("storage", a.cfg.Storage.Path),
		zap.Bool("auth", a.Auth.Enabled()),
	)
	return a.server.Start()
}

// Shutdown stops the HTTP server and closes the store.
func (a *App) Shutdown(ctx context.Context) error {
	var result *multierror.Error
	if err := a.server.Shutdown(ctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("shutdown http: %w", err))
	}
	if err := a.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// Close releases the store without touching the HTTP server, for one-shot
// commands that never call Start.
func (a *App) Close() error {
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
