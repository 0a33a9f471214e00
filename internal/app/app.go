// Package app wires the filter engine together with its configuration,
// classifier, report store, and servers, and runs the service.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/xivtools/nosol/internal/chat"
	"github.com/xivtools/nosol/internal/classifier"
	"github.com/xivtools/nosol/internal/engine"
	"github.com/xivtools/nosol/internal/history"
	"github.com/xivtools/nosol/internal/platform/config"
	"github.com/xivtools/nosol/internal/platform/observability"
	"github.com/xivtools/nosol/internal/report"
	"github.com/xivtools/nosol/internal/server"
)

// App holds the application dependencies.
type App struct {
	cfg    *config.Config
	logger *zerolog.Logger
}

func New(cfg *config.Config, logger *zerolog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// EngineConfig translates the operator filters file into the engine's
// read-only configuration.
func EngineConfig(filters *config.FilterConfig) engine.Config {
	categories := make(map[classifier.Category][]chat.Channel, len(filters.Categories))

	for label, channels := range filters.Categories {
		cat, ok := classifier.ParseCategory(label)
		if !ok {
			continue
		}

		mapped := make([]chat.Channel, 0, len(channels))
		for _, ch := range channels {
			mapped = append(mapped, chat.Channel(ch))
		}

		categories[cat] = mapped
	}

	return engine.Config{
		CustomChatFilter: filters.CustomChatFilter,
		CustomPFFilter:   filters.CustomPFFilter,
		FilterIlvlPFs:    filters.FilterIlvlPFs,
		IgnorePrivatePFs: filters.IgnorePrivatePFs,
		LogFilteredChat:  filters.LogFilteredChat,
		LogFilteredPFs:   filters.LogFilteredPFs,
		MaxItemLevel:     filters.MaxItemLevel,
		ChatFilters:      filters.ChatFilters,
		PFFilters:        filters.PFFilters,
		CategoryChannels: categories,
	}
}

// RunServe starts the bridge and health servers and blocks until ctx is
// cancelled or a server fails.
func (a *App) RunServe(ctx context.Context) error {
	filters, err := config.LoadFilters(a.cfg.FiltersPath)
	if err != nil {
		return fmt.Errorf("loading filters: %w", err)
	}

	cls := classifier.New(classifier.Options{
		APIKey:  a.cfg.LLMAPIKey,
		BaseURL: a.cfg.LLMBaseURL,
		Model:   a.cfg.LLMModel,
		RPS:     a.cfg.RateLimitRPS,
	}, a.logger)

	eng, err := engine.New(EngineConfig(filters), cls, history.NewStore(a.cfg.HistoryLimit), a.logger)
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}

	var (
		reports *report.Store
		pinger  observability.Pinger
	)

	if a.cfg.ReportEnabled {
		reports, err = report.Open(a.cfg.ReportDBPath)
		if err != nil {
			return fmt.Errorf("opening report store: %w", err)
		}

		defer func() {
			if closeErr := reports.Close(); closeErr != nil {
				a.logger.Error().Err(closeErr).Msg("closing report store")
			}
		}()

		eng.SetReportSink(reports)

		pinger = reports
	}

	detector := classifier.NewHeuristicDetector()

	var reportReader server.ReportReader
	if reports != nil {
		reportReader = reports
	}

	bridge := server.New(eng, detector, reportReader, a.cfg.ListenPort, a.logger)
	health := observability.NewServer(pinger, a.cfg.HealthPort, a.logger)

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)

	go func() {
		if err := health.Start(serveCtx); err != nil {
			errCh <- fmt.Errorf("health server: %w", err)
		}
	}()

	if err := bridge.Start(serveCtx); err != nil {
		return fmt.Errorf("bridge server: %w", err)
	}

	// Bridge stopped cleanly; stop the health server and surface any error
	// it reported before shutdown.
	cancel()

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
