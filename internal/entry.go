// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/goalpost/internal/api"
	"github.com/starford/goalpost/internal/goalservice"
	"github.com/starford/goalpost/internal/mcpserver"
	"github.com/starford/goalpost/internal/metrics"
	"github.com/starford/goalpost/internal/seed"
	"github.com/starford/goalpost/internal/sse"
	"github.com/starford/goalpost/internal/status"
	"github.com/starford/goalpost/internal/store"
	"github.com/starford/goalpost/internal/store/sqlite"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// openStore returns the injected store, or opens the configured one. The
// returned close func releases only what openStore opened.
func (a *application) openStore() (store.Store, func() error, error) {
	if a.store != nil {
		return a.store, func() error { return nil }, nil
	}
	cfg := a.config
	switch cfg.Store.Driver {
	case StoreDriverMemory:
		var st store.Store = store.NewMemory()
		if cfg.Mock.Enabled() {
			st = store.NewFlaky(st, cfg.Mock.Latency, cfg.Mock.FailureRate)
		}
		return st, st.Close, nil
	default:
		db, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("init store: %w", err)
		}
		return db, db.Close, nil
	}
}

func (a *application) newService(st store.Store, opts ...goalservice.Option) *goalservice.Service {
	analyzer := metrics.NewAnalyzer(a.config.Analytics.Thresholds())
	return goalservice.New(st, analyzer, opts...)
}

// newHandler builds the root router: health probes plus the API under /api.
func newHandler(cfg *Config, svc *goalservice.Service, events http.Handler) http.Handler {
	apiRouter := api.NewRouter(svc, api.RouterConfig{
		AuthEnabled: cfg.Auth.AuthEnabled(),
		Token:       cfg.Auth.Token,
		DefaultUser: cfg.Auth.DefaultUser,
	}, events)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)
	return r
}

// openSeed prepares the fixture syncer, or returns nil when seeding is off.
func openSeed(cfg SeedConfig, svc *goalservice.Service, logger *slog.Logger) (*seed.Syncer, error) {
	if cfg.Path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create seed dir: %w", err)
	}
	dir, err := seed.NewDir(cfg.Path)
	if err != nil {
		return nil, err
	}
	return seed.NewSyncer(dir, svc, logger), nil
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := newLogger(os.Stdout, cfg.App.LogLevel)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("seed_path", cfg.Seed.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if err := status.CheckTables(); err != nil {
		return err
	}

	st, closeStore, err := app.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	// SSE broker.
	broker := sse.NewBroker(cfg.Events.Throttle)
	defer broker.Close()

	svc := app.newService(st, goalservice.WithPublisher(broker))

	syncer, err := openSeed(cfg.Seed, svc, logger)
	if err != nil {
		return err
	}
	if syncer != nil {
		stats, err := syncer.Sync(ctx)
		if err != nil {
			logger.Warn("initial seed sync failed", slog.String("error", err.Error()))
		} else {
			logger.Info("Seed fixtures synced",
				slog.Int("created", stats.Created),
				slog.Int("updated", stats.Updated),
				slog.Int("failed", stats.Failed))
		}
	}

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: newHandler(cfg, svc, broker),
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	if syncer != nil && cfg.Seed.Watch {
		g.Go(func() error {
			return syncer.Watch(gCtx, cfg.Seed.Debounce)
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group once the HTTP server has stopped so the
// watcher exits too.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools over stdio. Logs go to stderr because stdout
// carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := newLogger(os.Stderr, cfg.App.LogLevel)

	st, closeStore, err := app.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	svc := app.newService(st)
	syncer, err := openSeed(cfg.Seed, svc, logger)
	if err != nil {
		return err
	}
	if syncer != nil {
		if _, err := syncer.Sync(ctx); err != nil {
			logger.Warn("initial seed sync failed", slog.String("error", err.Error()))
		}
	}

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(svc).ServeStdio()
}

// RunExport writes every live goal as a fixture file under dir.
func RunExport(ctx context.Context, dir string, opts ...Option) (int, error) {
	app, err := newApplication(opts)
	if err != nil {
		return 0, err
	}
	newLogger(os.Stderr, app.config.App.LogLevel)

	st, closeStore, err := app.openStore()
	if err != nil {
		return 0, err
	}
	defer closeStore()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create export dir: %w", err)
	}
	out, err := seed.NewDir(dir)
	if err != nil {
		return 0, err
	}
	return seed.Export(ctx, app.newService(st), out)
}
