// Package server wires the Voices server together: it builds the repository
// manager, optionally seeds demo data, and runs the gRPC and HTTP endpoints
// until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/voices/internal/logging"
	"github.com/dmitrijs2005/voices/internal/server/config"
	"github.com/dmitrijs2005/voices/internal/server/httpapi"
	"github.com/dmitrijs2005/voices/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/voices/internal/server/services"

	gs "github.com/dmitrijs2005/voices/internal/server/grpc"
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	servers     map[string]runner
}

// newRepositoryManager is a seam for tests.
var newRepositoryManager = func(c *config.Config) (repomanager.RepositoryManager, error) {
	if c.InMemory() {
		return repomanager.NewMemoryRepositoryManager(), nil
	}
	m, err := repomanager.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	rm, err := newRepositoryManager(c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	if c.SeedDemoData {
		seeded, err := repomanager.Seed(ctx, rm, time.Now())
		if err != nil {
			_ = rm.Close()
			return nil, fmt.Errorf("seed error: %w", err)
		}
		logger.Info(ctx, "demo data", "seeded", seeded)
	}

	us := services.NewUserService(rm, c)
	ps := services.NewPostService(rm)

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		servers: map[string]runner{
			"grpc": gs.NewGRPCServer(c.EndpointAddrGRPC, logger, us, ps, c.ResponseDelay),
			"http": httpapi.NewHTTPServer(c.EndpointAddrHTTP, logger, us, ps, c.ResponseDelay),
		},
	}, nil
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

// Run blocks until ctx is cancelled, a signal arrives or any server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "in_memory", app.config.InMemory())

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	for name, srv := range app.servers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Run(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err)
				cancelFunc()
			}
		}()
	}

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(context.Background(), "closing storage", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
