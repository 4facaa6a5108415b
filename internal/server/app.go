// Package server initializes and runs the TaskKeeper API server.
// It validates configuration, opens the store, applies migrations and seed
// users, and serves HTTP until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/rest"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

var logOutput io.Writer = os.Stdout

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	server      *rest.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	level, _ := c.SlogLevel()
	logger := logging.NewJSONLogger(logOutput, level)

	rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	// The secret is copied here and never read from config again.
	issuer := auth.NewIssuer([]byte(c.SecretKey), c.TokenTTL, nil)
	verifier := auth.NewVerifier([]byte(c.SecretKey), nil)

	as := services.NewAuthService(rm, issuer, verifier, logger, c.BcryptCost)
	if _, err := as.SeedUsers(ctx, c.SeedUsers); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("seed users error: %w", err)
	}
	ts := services.NewTaskService(rm, logger)

	srv := rest.NewServer(rest.Options{
		Address:         c.EndpointAddr,
		AllowedOrigins:  c.AllowedOrigins,
		RequestTimeout:  c.RequestTimeout,
		ShutdownTimeout: c.ShutdownTimeout,
	}, as, ts, logger)

	return &App{config: c, logger: logger, repomanager: rm, server: srv}, nil
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

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the store.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "address", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "store close failed", "error", err)
	}

	app.logger.Info(context.Background(), "App stopped")
	return runErr
}
