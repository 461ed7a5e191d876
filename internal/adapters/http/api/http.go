// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/okian/stylemap/internal/app"
	"github.com/okian/stylemap/internal/domain/model"
	"github.com/okian/stylemap/internal/domain/stylemap"
	"github.com/okian/stylemap/pkg/logger"
	"github.com/okian/stylemap/pkg/metrics"
)

const (
	defaultMaxBodyBytes = 1 << 20
	defaultMaxRecords   = 500
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	BuildMap(ctx context.Context, records []model.PerformanceRecord, opts ...stylemap.Option) (*stylemap.MapResult, error)
	PlayerMap(ctx context.Context, playerID, queue string) (*stylemap.MapResult, error)
	BuildAllQueues(ctx context.Context, playerID string) (map[string]*stylemap.MapResult, error)
	IngestMatches(ctx context.Context, playerID string, matches []model.Match) (int, error)
	SubmitJob(ctx context.Context, playerID, queue string) (service.JobStatus, error)
	Job(ctx context.Context, id string) (service.JobStatus, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps         Dependencies
	stats        StatsProvider
	validate     *validator.Validate
	maxBodyBytes int64
	maxRecords   int
	logger       logger.Logger
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		deps:         deps,
		stats:        statsProvider,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		maxBodyBytes: defaultMaxBodyBytes,
		maxRecords:   defaultMaxRecords,
		logger:       logger.Get().Named("api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.handleHealth, "healthz"))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.handleStats, "stats"))
	mux.HandleFunc("POST /stylemap", MetricsMiddleware(s.handleBuild, "stylemap"))
	mux.HandleFunc("POST /players/{id}/matches", MetricsMiddleware(s.handleIngest, "player_matches"))
	mux.HandleFunc("GET /players/{id}/stylemap", MetricsMiddleware(s.handlePlayerMap, "player_stylemap"))
	mux.HandleFunc("GET /players/{id}/stylemaps", MetricsMiddleware(s.handlePlayerMaps, "player_stylemaps"))
	mux.HandleFunc("POST /jobs", MetricsMiddleware(s.handleSubmitJob, "jobs"))
	mux.HandleFunc("GET /jobs/{id}", MetricsMiddleware(s.handleGetJob, "job"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decode reads a size-limited JSON body into v and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, tooLarge.Limit)
		}
		return badRequest(err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return badRequest(err)
	}
	if err := s.validate.Struct(v); err != nil {
		return badRequest(err)
	}
	return nil
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %w", ErrBadRequest, err)
}

// writeFailure maps request and service errors to status codes.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", err)
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrNoHistory), errors.Is(err, service.ErrJobNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		s.logger.Error(r.Context(), "request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
