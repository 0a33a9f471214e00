package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/xivtools/nosol/internal/app"
	"github.com/xivtools/nosol/internal/platform/config"
	"github.com/xivtools/nosol/internal/rules"
)

func main() {
	mode := flag.String("mode", "serve", "Service mode (serve, check)")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, &logger)

	if err := runMode(ctx, application, cfg, &logger, *mode); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
			return
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func runMode(ctx context.Context, application *app.App, cfg *config.Config, logger *zerolog.Logger, mode string) error {
	switch mode {
	case "serve":
		return application.RunServe(ctx)
	case "check":
		return checkFilters(cfg, logger)
	default:
		log.Fatalf("Usage: %s --mode=[serve|check]", os.Args[0])

		return nil
	}
}

// checkFilters validates the filters file without starting any servers, for
// use in deploy pipelines.
func checkFilters(cfg *config.Config, logger *zerolog.Logger) error {
	filters, err := config.LoadFilters(cfg.FiltersPath)
	if err != nil {
		return err
	}

	engCfg := app.EngineConfig(filters)

	chatRules, err := rules.NewMatcher(engCfg.ChatFilters)
	if err != nil {
		return fmt.Errorf("chat filters: %w", err)
	}

	pfRules, err := rules.NewMatcher(engCfg.PFFilters)
	if err != nil {
		return fmt.Errorf("pf filters: %w", err)
	}

	logger.Info().
		Str("path", cfg.FiltersPath).
		Int("chat_rules", chatRules.Len()).
		Int("pf_rules", pfRules.Len()).
		Int("categories", len(engCfg.CategoryChannels)).
		Msg("filters file OK")

	return nil
}
