package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/jelajah/internal/adapters/http/api"
	"github.com/okian/jelajah/internal/adapters/http/site"
	"github.com/okian/jelajah/internal/adapters/http/swagger"
	"github.com/okian/jelajah/internal/adapters/ingest"
	repository "github.com/okian/jelajah/internal/adapters/repository"
	app "github.com/okian/jelajah/internal/app"
	"github.com/okian/jelajah/internal/config"
	"github.com/okian/jelajah/internal/domain/region"
	"github.com/okian/jelajah/internal/domain/scoring"
	"github.com/okian/jelajah/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "jelajah exited", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log := logger.Get()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		log.Warn(ctx, "invalid log_format; keeping text", logger.String("log_format", cfg.LogFormat), logger.Error(err))
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	log = logger.Get()

	svc, store, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error(ctx, "store close failed", logger.Error(err))
		}
	}()

	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(svc, cfg, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			_ = svc.Stop(context.Background())
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(ctx, "service shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// build loads the catalog, region tables, scoring provider and store, and
// wires them into the service. A catalog that fails to load is reported
// here and the service keeps answering with no catalog data.
func build(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, repository.Store, error) {
	regions := region.Default()
	if cfg.RegionTablePath != "" {
		t, err := region.LoadTable(cfg.RegionTablePath)
		if err != nil {
			return nil, nil, err
		}
		regions = t
		log.Info(ctx, "region table loaded", logger.String("path", cfg.RegionTablePath), logger.Int("regions", t.Len()))
	}

	cat, _, err := ingest.LoadCatalog(ctx, cfg.CatalogPath,
		ingest.WithLogger(log),
		ingest.WithSampleFallback(cfg.CatalogSampleFallback))
	if err != nil {
		log.Error(ctx, "catalog unavailable; recommendations will fail until it is fixed",
			logger.String("path", cfg.CatalogPath), logger.Error(err))
	}

	provider := scoring.Load(ctx, cfg.ModelPath,
		scoring.WithLogger(log),
		scoring.WithMaxFailures(cfg.BreakerMaxFailures),
		scoring.WithOpenTimeout(time.Duration(cfg.BreakerOpenTimeoutMS)*time.Millisecond))

	store, err := repository.Open(ctx, repository.Options{
		Backend:    cfg.StoreBackend,
		SQLitePath: cfg.SQLitePath,
		BadgerPath: cfg.BadgerPath,
	}, repository.WithLogger(log))
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithCatalog(cat),
		app.WithRegionTable(regions),
		app.WithScoringProvider(provider),
		app.WithStore(store),
		app.WithTimeout(time.Duration(cfg.RequestTimeoutMS)*time.Millisecond),
		app.WithScoringConcurrency(cfg.ScoringConcurrency),
		app.WithWorkerCount(cfg.VisitWorkerCount),
		app.WithQueueSize(cfg.VisitQueueSize),
		app.WithDedupeSize(cfg.VisitDedupeSize),
	)
	return svc, store, nil
}

func newHandler(svc *app.Service, cfg *config.Config, log logger.Logger) http.Handler {
	server := api.NewServer(svc,
		api.WithLogger(log),
		api.WithRateLimit(cfg.RateLimitPerMinute))
	return server.Router(func(r chi.Router) {
		swagger.Register(r)
		site.Register(r, func() []string { return svc.Categories(context.Background()) })
	})
}
