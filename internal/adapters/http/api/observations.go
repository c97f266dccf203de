package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	service "github.com/okian/classwatch/internal/app"
	"github.com/okian/classwatch/internal/domain/model"
)

const maxBodyBytes = 1 << 20

// categoryScoreRequest mirrors the OpenAPI schema for one scored category.
type categoryScoreRequest struct {
	Category        string  `json:"category" validate:"notblank,max=128"`
	Score           float64 `json:"score"`
	IsAutoSuggested bool    `json:"is_auto_suggested"`
}

// observationRequest mirrors the OpenAPI schema for POST /observations.
type observationRequest struct {
	ID          string                 `json:"id" validate:"omitempty,max=128"`
	StudentID   string                 `json:"student_id" validate:"notblank,max=128"`
	StudentName string                 `json:"student_name" validate:"max=256"`
	Timestamp   string                 `json:"timestamp" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Categories  []categoryScoreRequest `json:"categories" validate:"required,min=1,dive"`
	Tags        []string               `json:"tags" validate:"omitempty,dive,notblank"`
}

func (req *observationRequest) toModel() (model.Observation, error) {
	ts, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		return model.Observation{}, err
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}
	obs := model.Observation{
		ID:          id,
		StudentID:   strings.TrimSpace(req.StudentID),
		StudentName: req.StudentName,
		Timestamp:   ts,
		Categories:  make([]model.CategoryScore, len(req.Categories)),
		Tags:        req.Tags,
	}
	for i, c := range req.Categories {
		obs.Categories[i] = model.CategoryScore{
			Category:        c.Category,
			Score:           c.Score,
			IsAutoSuggested: c.IsAutoSuggested,
		}
	}
	return obs, nil
}

type ackResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// ObservationsHandler handles observation submissions.
type ObservationsHandler struct {
	deps      ObservationDependencies
	validator *requestValidator
}

// NewObservationsHandler creates a new observations handler.
func NewObservationsHandler(deps ObservationDependencies) *ObservationsHandler {
	return &ObservationsHandler{deps: deps, validator: newRequestValidator()}
}

// HandlePostObservation handles POST /observations requests.
func (h *ObservationsHandler) HandlePostObservation(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_observation"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req observationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	obs, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Submit(r.Context(), obs)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	if res == service.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{ID: obs.ID, Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{ID: obs.ID, Status: "accepted"})
}
