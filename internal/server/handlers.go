package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"galaxy-gen/internal/core"
	"galaxy-gen/internal/errors"
	"galaxy-gen/internal/export"
	"galaxy-gen/internal/galaxy"
	"galaxy-gen/internal/server/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ParamsResponse describes the tunables for clients that build their own
// editing surfaces.
type ParamsResponse struct {
	Defaults galaxy.Params           `json:"defaults"`
	Snapshot core.ParameterSnapshot  `json:"snapshot"`
	Controls []core.ParameterControl `json:"controls"`
}

type PresetsResponse struct {
	Presets map[string]galaxy.Params `json:"presets"`
	Names   []string                 `json:"names"`
}

// reservedQueryKeys are query parameters that never reach galaxy.FromMap.
var reservedQueryKeys = map[string]bool{"format": true, "seed": true}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, r, s.logger, errors.MethodNotAllowed(r.Method))
		return
	}
	response.Success(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleGalaxy(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("handler", "galaxy", "remote_addr", r.RemoteAddr)
	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	query := r.URL.Query()
	format, err := export.ParseFormat(query.Get("format"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	params, err := paramsFromQuery(query)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if err := params.Validate(); err != nil {
		response.Error(w, r, logger, err)
		return
	}
	seed, err := s.seedFromQuery(query.Get("seed"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	cloud, err := s.gen.Generate(r.Context(), params, seed)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("generate galaxy", err))
		return
	}
	defer cloud.Release()

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Galaxy-Seed", strconv.FormatUint(cloud.Seed, 10))
	w.Header().Set("X-Galaxy-Count", strconv.Itoa(cloud.Len()))
	if err := export.Write(w, format, cloud); err != nil {
		// Headers are gone; all that is left is to log.
		logger.Warn("Failed to stream galaxy", "format", format, "error", err)
		return
	}
	logger.Debug("Galaxy served", "format", format, "count", cloud.Len(), "seed", cloud.Seed)
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, r, s.logger, errors.MethodNotAllowed(r.Method))
		return
	}
	params, err := paramsFromQuery(r.URL.Query())
	if err != nil {
		response.Error(w, r, s.logger, err)
		return
	}
	response.Success(w, http.StatusOK, ParamsResponse{
		Defaults: galaxy.DefaultParams(),
		Snapshot: params.Snapshot(),
		Controls: galaxy.Controls(),
	})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, r, s.logger, errors.MethodNotAllowed(r.Method))
		return
	}
	names := galaxy.Presets()
	out := PresetsResponse{Presets: make(map[string]galaxy.Params, len(names)), Names: names}
	for _, name := range names {
		p, err := galaxy.Preset(name)
		if err != nil {
			continue
		}
		out.Presets[name] = p
	}
	response.Success(w, http.StatusOK, out)
}

func paramsFromQuery(query map[string][]string) (galaxy.Params, error) {
	cfg := make(map[string]string, len(query))
	for key, values := range query {
		if reservedQueryKeys[key] || len(values) == 0 {
			continue
		}
		cfg[key] = values[len(values)-1]
	}
	return galaxy.FromMap(cfg)
}

// seedFromQuery parses an explicit seed, falling back to the configured one
// and then to a fresh seed.
func (s *Server) seedFromQuery(raw string) (uint64, error) {
	if raw == "" {
		if s.seed != 0 {
			return s.seed, nil
		}
		return core.AutoSeed(), nil
	}
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.WrapValidation("seed must be an unsigned integer", err)
	}
	return seed, nil
}

func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"elapsed", time.Since(start),
		)
	})
}
