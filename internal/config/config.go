package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Window    WindowConfig
	Galaxy    GalaxyConfig
	Server    ServerConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
}

type WindowConfig struct {
	Width  int
	Height int
	TPS    int
}

// GalaxyConfig selects the starting parameters. A zero Seed means every
// regeneration draws a fresh seed.
type GalaxyConfig struct {
	Preset  string
	Seed    uint64
	Workers int
}

type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

type LoggingConfig struct {
	Level      string
	Format     string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
}

// Load reads an optional .env file followed by the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using system environment variables")
	}

	config := &Config{
		Window:    loadWindowConfig(),
		Galaxy:    loadGalaxyConfig(),
		Server:    loadServerConfig(),
		Logging:   loadLoggingConfig(),
		RateLimit: loadRateLimitConfig(),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// GetEnv returns the value of key or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func loadWindowConfig() WindowConfig {
	width, _ := strconv.Atoi(GetEnv("WINDOW_WIDTH", "1280"))
	height, _ := strconv.Atoi(GetEnv("WINDOW_HEIGHT", "800"))
	tps, _ := strconv.Atoi(GetEnv("WINDOW_TPS", "60"))

	return WindowConfig{
		Width:  width,
		Height: height,
		TPS:    tps,
	}
}

func loadGalaxyConfig() GalaxyConfig {
	seed, _ := strconv.ParseUint(GetEnv("GALAXY_SEED", "0"), 10, 64)
	workers, _ := strconv.Atoi(GetEnv("GALAXY_WORKERS", "0"))

	return GalaxyConfig{
		Preset:  GetEnv("GALAXY_PRESET", "default"),
		Seed:    seed,
		Workers: workers,
	}
}

func loadServerConfig() ServerConfig {
	readTimeout, _ := strconv.Atoi(GetEnv("SERVER_READ_TIMEOUT_SECONDS", "15"))
	writeTimeout, _ := strconv.Atoi(GetEnv("SERVER_WRITE_TIMEOUT_SECONDS", "30"))
	idleTimeout, _ := strconv.Atoi(GetEnv("SERVER_IDLE_TIMEOUT_SECONDS", "60"))

	return ServerConfig{
		Port:           GetEnv("SERVER_PORT", "8080"),
		ReadTimeout:    time.Duration(readTimeout) * time.Second,
		WriteTimeout:   time.Duration(writeTimeout) * time.Second,
		IdleTimeout:    time.Duration(idleTimeout) * time.Second,
		AllowedOrigins: splitList(GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}
}

func loadLoggingConfig() LoggingConfig {
	format := GetEnv("LOG_FORMAT", "text")

	return LoggingConfig{
		Level:      GetEnv("LOG_LEVEL", "info"),
		Format:     format,
		JSONFormat: format == "json",
	}
}

func loadRateLimitConfig() RateLimitConfig {
	enabled := GetEnv("RATE_LIMIT_ENABLED", "true") == "true"
	requestsPerSecond, _ := strconv.ParseFloat(GetEnv("RATE_LIMIT_REQUESTS_PER_SECOND", "5"), 64)
	burstSize, _ := strconv.Atoi(GetEnv("RATE_LIMIT_BURST_SIZE", "10"))

	return RateLimitConfig{
		Enabled:           enabled,
		RequestsPerSecond: requestsPerSecond,
		BurstSize:         burstSize,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the loaded values for obvious mistakes.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("WINDOW_TPS must be positive")
	}
	if c.Galaxy.Workers < 0 {
		return fmt.Errorf("GALAXY_WORKERS must not be negative")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.BurstSize <= 0) {
		return fmt.Errorf("rate limit requires positive RATE_LIMIT_REQUESTS_PER_SECOND and RATE_LIMIT_BURST_SIZE")
	}
	return nil
}

// ParseFlags parses args into fs and validates the result again, since
// flags may override values Load already checked.
func (c *Config) ParseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	return c.Validate()
}

// Bind attaches the configuration to the provided FlagSet so command-line
// flags override the environment.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Galaxy.Preset, "preset", c.Galaxy.Preset, "galaxy preset to start from")
	fs.Uint64Var(&c.Galaxy.Seed, "seed", c.Galaxy.Seed, "generation seed (0 picks a fresh seed each time)")
	fs.IntVar(&c.Galaxy.Workers, "workers", c.Galaxy.Workers, "generator workers (0 uses every CPU)")
	fs.StringVar(&c.Logging.Level, "log-level", c.Logging.Level, "debug, info, warn or error")
	fs.BoolVar(&c.Logging.JSONFormat, "log-json", c.Logging.JSONFormat, "emit JSON logs")
}

// BindWindow attaches the viewer window flags.
func (c *Config) BindWindow(fs *flag.FlagSet) {
	fs.IntVar(&c.Window.Width, "width", c.Window.Width, "window width")
	fs.IntVar(&c.Window.Height, "height", c.Window.Height, "window height")
	fs.IntVar(&c.Window.TPS, "tps", c.Window.TPS, "ticks per second")
}

// BindServer attaches the HTTP server flags.
func (c *Config) BindServer(fs *flag.FlagSet) {
	fs.StringVar(&c.Server.Port, "port", c.Server.Port, "listen port")
	fs.BoolVar(&c.RateLimit.Enabled, "rate-limit", c.RateLimit.Enabled, "enable per-client rate limiting")
}
