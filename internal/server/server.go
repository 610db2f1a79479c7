package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"galaxy-gen/internal/config"
	"galaxy-gen/internal/galaxy"

	"github.com/gorilla/websocket"
)

// Server exposes galaxy generation over HTTP and live editing over websocket.
type Server struct {
	cfg      config.ServerConfig
	gen      galaxy.Generator
	seed     uint64
	limiter  *RateLimiter
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func New(cfg *config.Config) *Server {
	s := &Server{
		cfg:     cfg.Server,
		gen:     galaxy.Generator{Workers: cfg.Galaxy.Workers},
		seed:    cfg.Galaxy.Seed,
		limiter: NewRateLimiter(cfg.RateLimit),
		logger:  slog.With("component", "server"),
	}
	origins := cfg.Server.AllowedOrigins
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 64 * 1024,
		CheckOrigin:     func(r *http.Request) bool { return originAllowed(origins, r) },
	}
	return s
}

// Routes builds the handler tree.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/galaxy", s.handleGalaxy)
	mux.HandleFunc("/api/galaxy/params", s.handleParams)
	mux.HandleFunc("/api/presets", s.handlePresets)
	mux.HandleFunc("/ws", s.handleWebSocket)

	s.logger.Debug("Routes configured",
		"endpoints", []string{"/api/health", "/api/galaxy", "/api/galaxy/params", "/api/presets", "/ws"},
	)

	var handler http.Handler = mux
	handler = s.limiter.Middleware(handler)
	handler = newCORS(s.cfg.AllowedOrigins, s.logger).Handler(handler)
	return logRequests(s.logger, handler)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	defer s.limiter.Close()

	srv := &http.Server{
		Addr:         net.JoinHostPort("", s.cfg.Port),
		Handler:      s.Routes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close releases background resources held by a server that was only used
// through Routes.
func (s *Server) Close() {
	s.limiter.Close()
}
