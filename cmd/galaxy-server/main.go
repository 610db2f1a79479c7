package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"galaxy-gen/internal/config"
	"galaxy-gen/internal/logger"
	"galaxy-gen/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg.Bind(flag.CommandLine)
	cfg.BindServer(flag.CommandLine)
	if err := cfg.ParseFlags(flag.CommandLine, os.Args[1:]); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(2)
	}
	logger.Init(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg)
	defer srv.Close()

	slog.Info("Starting galaxy server",
		"port", cfg.Server.Port,
		"preset", cfg.Galaxy.Preset,
		"rate_limit", cfg.RateLimit.Enabled,
	)
	if err := srv.ListenAndServe(ctx); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("Server shut down")
}
