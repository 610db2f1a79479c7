//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"galaxy-gen/internal/app"
	"galaxy-gen/internal/config"
	"galaxy-gen/internal/galaxy"
	"galaxy-gen/internal/logger"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg.Bind(flag.CommandLine)
	cfg.BindWindow(flag.CommandLine)
	if err := cfg.ParseFlags(flag.CommandLine, os.Args[1:]); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(2)
	}
	logger.Init(cfg.Logging)

	params, err := galaxy.Preset(cfg.Galaxy.Preset)
	if err != nil {
		slog.Error("Unknown preset", "preset", cfg.Galaxy.Preset, "available", galaxy.Presets())
		os.Exit(2)
	}

	game, err := app.New(params, cfg.Galaxy.Seed, cfg.Galaxy.Workers, cfg.Galaxy.Preset)
	if err != nil {
		slog.Error("Failed to create galaxy", "error", err)
		os.Exit(1)
	}

	ebiten.SetWindowTitle("galaxy - " + cfg.Galaxy.Preset)
	ebiten.SetTPS(cfg.Window.TPS)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		slog.Error("Viewer stopped", "error", err)
		os.Exit(1)
	}
}
