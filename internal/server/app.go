// Package server wires configuration, storage, tracing and the business
// services together and runs the REST and gRPC servers until shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/blobstore"
	"github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/dmitrijs2005/gophchat/internal/server/httpapi"
	"github.com/dmitrijs2005/gophchat/internal/server/services"
	"github.com/dmitrijs2005/gophchat/internal/server/store"
	"github.com/dmitrijs2005/gophchat/internal/server/store/memory"
	"github.com/dmitrijs2005/gophchat/internal/telemetry"

	gs "github.com/dmitrijs2005/gophchat/internal/server/grpc"
)

const serviceName = "gophchat"

type App struct {
	config   *config.Config
	logger   logging.Logger
	store    store.Store
	services httpapi.Services
	shutdown func(context.Context) error
}

// openStore is a seam for tests.
var openStore = func(ctx context.Context, c *config.Config) (store.Store, error) {
	if c.Storage == config.StorageMemory {
		return memory.New(), nil
	}
	return store.OpenPostgres(ctx, c.DatabaseDSN, c.MaxOpenConns, c.ConnAcquireTimeout)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogFormat, c.LogLevel, os.Stdout)

	shutdown, err := telemetry.Setup(ctx, serviceName, c.OTelEndpoint)
	if err != nil {
		return nil, fmt.Errorf("telemetry init error: %w", err)
	}

	st, err := openStore(ctx, c)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("db init error: %w", err)
	}

	presigner := blobstore.NewS3Presigner(blobstore.S3Config{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
	})

	return &App{
		config:   c,
		logger:   logger,
		store:    st,
		services: NewServices(st, presigner, c, logger),
		shutdown: shutdown,
	}, nil
}

// NewServices builds every business service over one store.
func NewServices(st store.Store, presigner blobstore.Presigner, c *config.Config, logger logging.Logger) httpapi.Services {
	sessions := services.NewSessionService(st, c, logger)
	return httpapi.Services{
		Sessions:      sessions,
		Users:         services.NewUserService(st, sessions, c, logger),
		Membership:    services.NewMembershipService(st, logger),
		Groups:        services.NewGroupService(st, logger),
		Messages:      services.NewMessageService(st, presigner, logger),
		Friendships:   services.NewFriendshipService(st, logger),
		Reactions:     services.NewReactionService(st),
		Notifications: services.NewNotificationService(st),
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	h := httpapi.NewHandler(app.services, app.store, app.config.AdminKey, app.logger)
	s := httpapi.NewServer(app.config.HTTPAddr, h, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.services.Sessions, app.config.AdminKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
		cancelFunc()
	}
}

// Run serves until a signal arrives, ctx is cancelled or one of the
// servers fails, then releases the store and flushes traces.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Go(func() { app.startHTTPServer(ctx, cancelFunc) })
	wg.Go(func() { app.startGRPCServer(ctx, cancelFunc) })

	wg.Wait()

	shutdownCtx := context.WithoutCancel(ctx)
	if err := app.store.Close(); err != nil {
		app.logger.Error(shutdownCtx, "store close", "error", err)
	}
	if err := app.shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "telemetry shutdown", "error", err)
	}
	app.logger.Info(shutdownCtx, "Stopped")
}
