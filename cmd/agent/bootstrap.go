package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"account-monitor/internal/eod"
	"account-monitor/internal/eod/eodobs"
	"account-monitor/internal/interfaces"
	"account-monitor/internal/logger"
	"account-monitor/internal/monitor"
	"account-monitor/internal/monitor/monitorobs"
	"account-monitor/internal/reporter"
	"account-monitor/internal/reporter/reporterobs"
	"account-monitor/internal/reportlog"
	"account-monitor/internal/store"
	"account-monitor/internal/terminal/bridge"
	"account-monitor/internal/terminal/csvfile"
	"account-monitor/internal/terminal/statement"
	"account-monitor/internal/terminal/terminalobs"
	"account-monitor/internal/trace"
)

const (
	serviceName    = "account-monitor-agent"
	serviceVersion = "1.0.0"
)

// initializeSystem loads .env and sets up logging, tracing and the EOD
// summarizer.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(trace.LoadConfigFromEnv(serviceName, serviceVersion)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	eod.SetDefaultSummarizer(eodobs.Wrap(eod.NewSummarizer()))
	return nil
}

func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	logger.Info(ctx, "Configuration loaded",
		"platform", cfg.Platform,
		"terminal", cfg.Terminal.Kind,
		"poll_seconds", cfg.PollSeconds,
		"history_from", cfg.HistoryFrom,
		"journal", cfg.Journal.Enabled,
	)
	return cfg, nil
}

func compressOldJournal(ctx context.Context, cfg *store.Config) {
	if !cfg.Journal.Enabled {
		return
	}
	op := logger.StartOperation(ctx, "journal.CompressOlder", "retention_days", cfg.Journal.RetentionDays)
	if err := reportlog.CompressOlder(cfg.Journal.RetentionDays); err != nil {
		op.EndWithError(err)
		return
	}
	op.End()
}

func initializeTerminal(ctx context.Context, cfg *store.Config) interfaces.Terminal {
	var term interfaces.Terminal

	switch cfg.Terminal.Kind {
	case store.TerminalCSV:
		term = csvfile.New(csvfile.Params{
			AccountPath: cfg.Terminal.CSV.AccountPath,
			DealsPath:   cfg.Terminal.CSV.DealsPath,
		})
		logger.Info(ctx, "Using CSV export terminal", "deals", cfg.Terminal.CSV.DealsPath)
	case store.TerminalStatement:
		term = statement.New(statement.Params{Path: cfg.Terminal.Statement.Path})
		logger.Info(ctx, "Using HTML statement terminal", "path", cfg.Terminal.Statement.Path)
	default:
		term = bridge.New(bridge.Params{
			BaseURL: cfg.Terminal.Bridge.BaseURL,
			Timeout: cfg.BridgeTimeout(),
		})
		logger.Info(ctx, "Using terminal bridge", "base_url", cfg.Terminal.Bridge.BaseURL)
	}

	return terminalobs.Wrap(term)
}

func initializeReporter(cfg *store.Config) interfaces.Reporter {
	return reporterobs.Wrap(reporter.New(reporter.Params{
		URL:     cfg.Delivery.URL,
		Timeout: cfg.DeliveryTimeout(),
	}))
}

func initializeMonitor(cfg *store.Config, term interfaces.Terminal, rep interfaces.Reporter) interfaces.Monitor {
	return monitorobs.Wrap(monitor.New(cfg, term, rep))
}
