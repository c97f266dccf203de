// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/okian/classwatch/internal/adapters/repository"
	service "github.com/okian/classwatch/internal/app"
	"github.com/okian/classwatch/internal/domain/model"
	"github.com/okian/classwatch/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ObservationDependencies
	AnalyticsDependencies
}

// ObservationDependencies accepts observations for asynchronous storage.
type ObservationDependencies interface {
	Submit(ctx context.Context, obs model.Observation) (service.SubmitResult, error)
}

// AnalyticsDependencies exposes the read side.
type AnalyticsDependencies interface {
	Students(ctx context.Context) ([]repository.StudentSummary, error)
	Trends(ctx context.Context, studentID string) ([]types.TrendData, error)
	Peers(ctx context.Context) ([]types.PeerComparison, error)
	Alerts(ctx context.Context, f service.AlertFilter) ([]types.InterventionAlert, error)
	Recommendations(ctx context.Context, studentID string) ([]types.Recommendation, error)
	StudentReport(ctx context.Context, studentID string) (types.StudentReport, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	observationsHandler *ObservationsHandler
	analyticsHandler    *AnalyticsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		observationsHandler: NewObservationsHandler(deps),
		analyticsHandler:    NewAnalyticsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/observations", MetricsMiddleware(s.observationsHandler.HandlePostObservation, "observations"))
	mux.HandleFunc("/students", MetricsMiddleware(s.analyticsHandler.HandleGetStudents, "students"))
	mux.HandleFunc("/students/{id}/report", MetricsMiddleware(s.analyticsHandler.HandleGetReport, "report"))
	mux.HandleFunc("/trends", MetricsMiddleware(s.analyticsHandler.HandleGetTrends, "trends"))
	mux.HandleFunc("/peers", MetricsMiddleware(s.analyticsHandler.HandleGetPeers, "peers"))
	mux.HandleFunc("/alerts", MetricsMiddleware(s.analyticsHandler.HandleGetAlerts, "alerts"))
	mux.HandleFunc("/recommendations", MetricsMiddleware(s.analyticsHandler.HandleGetRecommendations, "recommendations"))
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

// writeServiceError translates service errors into HTTP responses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, service.ErrStudentNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, service.ErrInvalidObservation), errors.Is(err, service.ErrInvalidSeverity):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
