// Command galaxy-gen generates a galaxy point cloud without a window and
// writes it as JSON, binary or PLY.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"galaxy-gen/internal/config"
	"galaxy-gen/internal/core"
	apperrors "galaxy-gen/internal/errors"
	"galaxy-gen/internal/export"
	"galaxy-gen/internal/galaxy"
	"galaxy-gen/internal/logger"
)

// kvList collects repeated -set key=value flags.
type kvList map[string]string

func (l kvList) String() string {
	parts := make([]string, 0, len(l))
	for k, v := range l {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (l kvList) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	l[strings.TrimSpace(k)] = strings.TrimSpace(v)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("Generation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("galaxy-gen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg.Bind(fs)
	overrides := kvList{}
	fs.Var(overrides, "set", "parameter override key=value (repeatable)")
	out := fs.String("out", "-", "output path, - for stdout")
	format := fs.String("format", "", "json, binary or ply (default from -out extension)")
	showStats := fs.Bool("stats", false, "print a summary to stderr")
	if err := fs.Parse(args); err != nil {
		return apperrors.WrapValidation("parse flags", err)
	}
	logger.InitWriter(stderr, cfg.Logging)

	values := map[string]string{"preset": cfg.Galaxy.Preset}
	for k, v := range overrides {
		values[k] = v
	}
	params, err := galaxy.FromMap(values)
	if err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return err
	}

	f, err := pickFormat(*format, *out)
	if err != nil {
		return err
	}

	seed := cfg.Galaxy.Seed
	if seed == 0 {
		seed = core.AutoSeed()
	}
	gen := galaxy.Generator{Workers: cfg.Galaxy.Workers}
	cloud, err := gen.Generate(ctx, params, seed)
	if err != nil {
		return apperrors.WrapInternal("generate galaxy", err)
	}
	slog.Info("Galaxy generated", "count", cloud.Len(), "seed", cloud.Seed, "format", f)

	if *showStats {
		printStats(stderr, cloud.Stats())
	}

	if *out == "-" {
		return export.Write(stdout, f, cloud)
	}
	file, err := os.Create(*out)
	if err != nil {
		return apperrors.WrapExternal("create output", err)
	}
	if err := export.Write(file, f, cloud); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return apperrors.WrapExternal("close output", err)
	}
	return nil
}

func pickFormat(name, out string) (export.Format, error) {
	if name == "" && out != "-" {
		return export.FormatForPath(out), nil
	}
	return export.ParseFormat(name)
}

func printStats(w io.Writer, s galaxy.Stats) {
	fmt.Fprintf(w, "points:      %d\n", s.Count)
	fmt.Fprintf(w, "seed:        %d\n", s.Seed)
	fmt.Fprintf(w, "arm counts:  %v\n", s.ArmCounts)
	fmt.Fprintf(w, "max radius:  %.4f\n", s.MaxRadius)
	fmt.Fprintf(w, "mean radius: %.4f\n", s.MeanRadius)
	fmt.Fprintf(w, "bounds:      %v .. %v\n", s.Min, s.Max)
}
