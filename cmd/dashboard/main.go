package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"account-monitor/internal/dashboard"
	"account-monitor/internal/logger"
	"account-monitor/internal/trace"
)

func main() {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := trace.Init(trace.LoadConfigFromEnv("account-monitor-dashboard", "1.0.0")); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	cfg := &dashboard.ServerConfig{
		Port:            port,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
	srv := dashboard.NewServer(cfg, dashboard.NewStore())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		if err != nil {
			logger.ErrorWithErr(ctx, "Dashboard server failed", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(shutdownCtx, "Graceful shutdown failed", err)
	}
	_ = trace.Shutdown(shutdownCtx)
}
