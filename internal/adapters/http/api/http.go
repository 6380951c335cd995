// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/wildcat/internal/adapters/repository"
	service "github.com/okian/wildcat/internal/app"
	"github.com/okian/wildcat/internal/domain/heat"
	"github.com/okian/wildcat/internal/domain/meet"
	"github.com/okian/wildcat/internal/domain/racetime"
	"github.com/okian/wildcat/internal/domain/roster"
	"github.com/okian/wildcat/internal/domain/types"
)

const defaultMaxListLimit = 500

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	HeatDependencies
	TeamDependencies
	StatsProvider
}

// HeatDependencies submits, scores and reads heats.
type HeatDependencies interface {
	Submit(ctx context.Context, sub heat.Submission) (id string, duplicate bool, err error)
	ScoreNow(ctx context.Context, sub heat.Submission) (repository.Record, error)
	Heat(ctx context.Context, id string) (repository.Record, error)
	Heats(ctx context.Context, limit int) ([]repository.Record, error)
	Meet() *meet.Meet
}

// TeamDependencies lists the rostered teams.
type TeamDependencies interface {
	Teams(ctx context.Context) []types.TeamInfo
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	metricsHandler http.Handler
	statsHandler   *StatsHandler
	heatsHandler   *HeatsHandler
	teamsHandler   *TeamsHandler
}

// Option configures the Server.
type Option func(*Server)

// WithMaxListLimit caps GET /heats?limit.
func WithMaxListLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.heatsHandler.maxLimit = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		metricsHandler: NewMetricsHandler(),
		statsHandler:   NewStatsHandler(deps),
		heatsHandler:   NewHeatsHandler(deps, defaultMaxListLimit),
		teamsHandler:   NewTeamsHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.metricsHandler)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /teams", MetricsMiddleware(s.teamsHandler.HandleListTeams, "teams"))
	mux.HandleFunc("POST /heats", MetricsMiddleware(s.heatsHandler.HandleSubmit, "heats_submit"))
	mux.HandleFunc("POST /heats/score", MetricsMiddleware(s.heatsHandler.HandleScore, "heats_score"))
	mux.HandleFunc("GET /heats", MetricsMiddleware(s.heatsHandler.HandleList, "heats_list"))
	mux.HandleFunc("GET /heats/{id}", MetricsMiddleware(s.heatsHandler.HandleGet, "heats_get"))
	mux.HandleFunc("GET /heats/{id}/report", MetricsMiddleware(s.heatsHandler.HandleReport, "heats_report"))
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
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

// writeFailure maps err to a status and error code.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrQueueFull), errors.Is(err, ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	case errors.Is(err, roster.ErrUnknownRunner), errors.Is(err, heat.ErrUnknownMode),
		errors.Is(err, racetime.ErrInvalidTime), errors.Is(err, ErrUnscorable):
		writeError(w, http.StatusUnprocessableEntity, "unscorable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
