package api

import (
	"net/http"
	"strings"

	service "github.com/okian/classwatch/internal/app"
)

// AnalyticsHandler serves the analytics read endpoints.
type AnalyticsHandler struct {
	deps AnalyticsDependencies
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(deps AnalyticsDependencies) *AnalyticsHandler {
	return &AnalyticsHandler{deps: deps}
}

func studentParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("student_id"))
}

// HandleGetStudents handles GET /students requests.
func (h *AnalyticsHandler) HandleGetStudents(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_students"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	students, err := h.deps.Students(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

// HandleGetTrends handles GET /trends?student_id= requests.
func (h *AnalyticsHandler) HandleGetTrends(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_trends"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	trends, err := h.deps.Trends(r.Context(), studentParam(r))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

// HandleGetPeers handles GET /peers requests.
func (h *AnalyticsHandler) HandleGetPeers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_peers"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	peers, err := h.deps.Peers(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, peers)
}

// HandleGetAlerts handles GET /alerts?student_id=&severity= requests.
func (h *AnalyticsHandler) HandleGetAlerts(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_alerts"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	alerts, err := h.deps.Alerts(r.Context(), service.AlertFilter{
		StudentID: studentParam(r),
		Severity:  strings.ToLower(strings.TrimSpace(r.URL.Query().Get("severity"))),
	})
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// HandleGetRecommendations handles GET /recommendations?student_id= requests.
func (h *AnalyticsHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recommendations"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	recs, err := h.deps.Recommendations(r.Context(), studentParam(r))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// HandleGetReport handles GET /students/{id}/report requests.
func (h *AnalyticsHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	report, err := h.deps.StudentReport(r.Context(), id)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
