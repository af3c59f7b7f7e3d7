// Package main is the entry point for the quote service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/quote-rotator/internal/adapters/display"
	"github.com/jsamuelsen/quote-rotator/internal/adapters/http"
	"github.com/jsamuelsen/quote-rotator/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-rotator/internal/adapters/storage/seed"
	"github.com/jsamuelsen/quote-rotator/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quote-rotator/internal/app"
	"github.com/jsamuelsen/quote-rotator/internal/platform/config"
	"github.com/jsamuelsen/quote-rotator/internal/platform/logging"
	"github.com/jsamuelsen/quote-rotator/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-rotator/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Component:    "service",
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Open the quote store and seed it
	store, err := sqlite.Open(ctx, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening quote store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("closing quote store", slog.Any("error", closeErr))
		}
	}()

	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Repository: store,
		Logger:     logger,
	})

	if err := seedStore(ctx, quoteService, cfg.Storage.SeedFile); err != nil {
		return err
	}

	// 6. Create health registry
	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(store); err != nil {
		return fmt.Errorf("registering store health check: %w", err)
	}

	// 7. Server-side rotation drives the page's displayed quote
	board := display.NewBoard(nil)

	var rotator *app.QuoteRotator
	if cfg.Rotator.Enabled {
		rotator = app.NewQuoteRotator(app.QuoteRotatorConfig{
			Source:      quoteService,
			Display:     board,
			DisplayName: "board",
			Interval:    cfg.Rotator.Interval,
			Metrics:     telemetry.NewRotatorMetrics(prometheus.DefaultRegisterer),
			Tracer:      telemetry.NewRotatorTracer(telProvider.TracerProvider()),
			Logger:      logger,
		})
	}

	// 8. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo, prometheus.DefaultGatherer)
	quoteHandler := handlers.NewQuoteHandler(quoteService, board)
	menuHandler := handlers.NewMenuHandler(handlers.MenuHandlerConfig{
		Toggler: app.NewMenuToggler(app.MenuTogglerConfig{
			BaseClass:  cfg.Menu.BaseClass,
			FoldMarker: cfg.Menu.FoldMarker,
		}),
		InitiallyFolded: cfg.Menu.InitiallyFolded,
		SecureCookie:    cfg.App.Environment == "prod",
	})
	pageHandler := handlers.NewPageHandler(handlers.PageHandlerConfig{
		Title:      cfg.App.Name,
		Service:    quoteService,
		Current:    board,
		Menu:       menuHandler,
		FoldMarker: cfg.Menu.FoldMarker,
		Interval:   cfg.Rotator.Interval,
	})

	// 9. Create HTTP server and router
	server := http.New(&cfg.Server, logger)

	err = http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName:  cfg.App.Name,
		QuoteAPIPath: cfg.Rotator.QuoteAPI,
		Quote:        quoteHandler,
		Menu:         menuHandler,
		Page:         pageHandler,
		Health:       healthHandler,
		Timeout:      cfg.Server.RequestTimeout,

		MeterProvider: telProvider.MeterProvider(),
	})
	if err != nil {
		return fmt.Errorf("setting up router: %w", err)
	}

	// 10. Run until a signal arrives or a component fails
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(gctx)
	})

	if rotator != nil {
		g.Go(func() error {
			return runRotation(gctx, rotator, logger)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}

// seedStore fills an empty store from the seed file at path. An empty path
// leaves the store alone.
func seedStore(ctx context.Context, svc *app.QuoteService, path string) error {
	if path == "" {
		return nil
	}

	quotes, err := seed.Load(path)
	if err != nil {
		return fmt.Errorf("loading seed file: %w", err)
	}

	if _, err := svc.Seed(ctx, quotes); err != nil {
		return fmt.Errorf("seeding quotes: %w", err)
	}

	return nil
}

// runRotation keeps the board rotating until ctx is done. A failed initial
// fetch is logged and leaves the page on its fallback quote.
func runRotation(ctx context.Context, rotator *app.QuoteRotator, logger *slog.Logger) error {
	rot, err := rotator.Start(ctx)
	if err != nil {
		logger.WarnContext(ctx, "server-side rotation disabled", slog.Any("error", err))
		return nil
	}

	<-ctx.Done()
	rot.Stop()

	return nil
}
