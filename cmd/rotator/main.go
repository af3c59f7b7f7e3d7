// Package main is the terminal quote rotator. It fetches the quote list from
// a running quote service once and shows a random quote every interval.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/jsamuelsen/quote-rotator/internal/adapters/clients"
	"github.com/jsamuelsen/quote-rotator/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-rotator/internal/adapters/display"
	"github.com/jsamuelsen/quote-rotator/internal/app"
	"github.com/jsamuelsen/quote-rotator/internal/platform/config"
	"github.com/jsamuelsen/quote-rotator/internal/platform/logging"
)

// Version is injected via ldflags.
var Version = "dev"

// CLI holds the rotator flags. Flags override the profile configuration.
type CLI struct {
	Profile  string           `short:"p" help:"Configuration profile (configs/<profile>.yaml)" default:"local" env:"APP_ENVIRONMENT"`
	BaseURL  string           `name:"base-url" help:"Origin of the quote service" placeholder:"URL"`
	Endpoint string           `help:"Path of the quote list endpoint" placeholder:"PATH"`
	NoColor  bool             `name:"no-color" help:"Disable colored output" env:"NO_COLOR"`
	Verbose  bool             `short:"v" help:"Log every rotation"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`
}

func main() {
	var cli CLI

	kctx := kong.Parse(&cli,
		kong.Name("rotator"),
		kong.Description("Rotate quotes from the quote service on the terminal."),
		kong.Vars{"version": Version},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kctx.FatalIfErrorf(cli.Run(ctx, os.Stdout, os.Stderr))
}

// Run rotates quotes on out until ctx is done. Logs go to logOut.
// An empty quote list ends the run immediately.
func (c *CLI) Run(ctx context.Context, out, logOut io.Writer) error {
	cfg, err := config.Load(c.Profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if c.BaseURL != "" {
		cfg.Rotator.BaseURL = c.BaseURL
	}

	if c.Endpoint != "" {
		cfg.Rotator.QuoteAPI = c.Endpoint
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := "warn"
	if c.Verbose {
		level = "trace"
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   level,
		Format:  "pretty",
		Service: "rotator",
		Version: Version,
	}, logOut)
	logging.SetDefault(logger)

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Rotator.BaseURL,
		ServiceName: "quote-api",
		Timeout:     cfg.Client.Timeout,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	rotator := app.NewQuoteRotator(app.QuoteRotatorConfig{
		Source: acl.NewQuoteClient(acl.QuoteClientConfig{
			Client: httpClient,
			Path:   cfg.Rotator.QuoteAPI,
			Logger: logger,
		}),
		Display:     display.NewTerminal(display.TerminalConfig{Out: out, NoColor: c.NoColor}),
		DisplayName: "terminal",
		Interval:    cfg.Rotator.Interval,
		Logger:      logger,
	})

	rot, err := rotator.Start(ctx)
	if err != nil {
		return err
	}

	if !rot.Active() {
		logger.WarnContext(ctx, "no quotes to rotate", slog.String("endpoint", cfg.Rotator.QuoteAPI))
		return nil
	}

	select {
	case <-rot.Done():
	case <-ctx.Done():
		rot.Stop()
	}

	return nil
}
