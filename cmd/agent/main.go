package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"account-monitor/internal/eod"
	"account-monitor/internal/logger"
	"account-monitor/internal/monitor"
	"account-monitor/internal/store"
	"account-monitor/internal/trace"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the agent configuration")
	flag.Parse()

	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, *configPath)
	if err != nil {
		os.Exit(1)
	}
	compressOldJournal(ctx, cfg)

	term := initializeTerminal(ctx, cfg)
	if err := term.Connect(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Terminal unavailable, exiting", err)
		os.Exit(1)
	}
	defer term.Close(context.Background())

	mon := initializeMonitor(cfg, term, initializeReporter(cfg))

	done := make(chan error, 1)
	go func() { done <- monitor.Run(ctx, mon, cfg.PollInterval()) }()

	eodTick := time.NewTicker(time.Minute)
	defer eodTick.Stop()

	logger.Info(ctx, "Agent started", "delivery_url", cfg.Delivery.URL)
	for {
		select {
		case <-eodTick.C:
			summarizePreviousDay(ctx, cfg)
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorWithErr(context.Background(), "Monitor stopped", err)
			}
			shutdown(cfg)
			return
		}
	}
}

// summarizePreviousDay writes yesterday's CSV once its journal is complete.
// A failed attempt is retried on the next tick.
func summarizePreviousDay(ctx context.Context, cfg *store.Config) {
	if !cfg.Journal.Enabled {
		return
	}
	ok, csvPath := eod.ShouldRunNow()
	if !ok {
		return
	}
	if _, err := eod.SummarizePreviousDay(); err != nil {
		logger.Warn(ctx, "Previous day not summarized, retrying", "csv_path", csvPath, "error", err)
	}
}

func shutdown(cfg *store.Config) {
	ctx := context.Background()
	logger.Info(ctx, "Shutting down")

	// partial summary, rewritten after midnight if more entries follow
	if cfg.Journal.Enabled {
		if _, err := eod.SummarizeToday(); err != nil {
			logger.Warn(ctx, "Today's journal not summarized", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := trace.Shutdown(shutdownCtx); err != nil {
		logger.Warn(ctx, "Trace exporter did not flush", "error", err)
	}
}
