package applications

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/httputil"
	"github.com/rentora/rentora/internal/metrics"
	"github.com/rentora/rentora/internal/service"
)

// Handler handles property application endpoints.
type Handler struct {
	logger       *slog.Logger
	applications *service.ApplicationService
	metrics      *metrics.Metrics
}

// NewHandler creates a new applications handler.
func NewHandler(logger *slog.Logger, applications *service.ApplicationService, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:       logger,
		applications: applications,
		metrics:      m,
	}
}

// SubmitRequest represents an application submission.
type SubmitRequest struct {
	PropertyID string `json:"property_id"`
	TenantID   string `json:"tenant_id"`
	Message    string `json:"message,omitempty"`
}

// UpdateStatusRequest represents a status update.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ApplicationResponse is the JSON shape of an application.
type ApplicationResponse struct {
	ID         string  `json:"id"`
	PropertyID string  `json:"property_id"`
	TenantID   string  `json:"tenant_id"`
	Message    *string `json:"message,omitempty"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func toResponse(app *domain.PropertyApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:         app.ID.String(),
		PropertyID: app.PropertyID.String(),
		TenantID:   app.TenantID.String(),
		Message:    app.Message,
		Status:     app.Status,
		CreatedAt:  app.CreatedAt.Format(timeFormat),
		UpdatedAt:  app.UpdatedAt.Format(timeFormat),
	}
}

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

func toResponses(apps []*domain.PropertyApplication) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toResponse(app))
	}
	return out
}

// Submit handles application submission.
// POST /v1/property-applications
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.PropertyID == "" {
		httputil.Error(w, http.StatusBadRequest, domain.ErrMissingPropertyID.Error())
		return
	}
	if req.TenantID == "" {
		httputil.Error(w, http.StatusBadRequest, domain.ErrMissingTenantID.Error())
		return
	}

	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid property_id")
		return
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid tenant_id")
		return
	}

	app, err := h.applications.Submit(r.Context(), propertyID, tenantID, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateApplication) && h.metrics != nil {
			h.metrics.ApplicationConflicts.Inc()
		}
		h.writeError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ApplicationsSubmitted.Inc()
	}

	httputil.JSON(w, http.StatusCreated, toResponse(app))
}

// ListForProperty handles listing applications for a property.
// GET /v1/property-applications?property_id=...
func (h *Handler) ListForProperty(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("property_id")
	if raw == "" {
		httputil.Error(w, http.StatusBadRequest, domain.ErrMissingPropertyID.Error())
		return
	}
	propertyID, err := uuid.Parse(raw)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid property_id")
		return
	}

	apps, err := h.applications.ListForProperty(r.Context(), propertyID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toResponses(apps))
}

// ListForTenant handles listing a tenant's applications.
// GET /v1/property-applications/tenant/{tenantID}
func (h *Handler) ListForTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	apps, err := h.applications.ListForTenant(r.Context(), tenantID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toResponses(apps))
}

// GetByID handles fetching a single application.
// GET /v1/property-applications/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid application id")
		return
	}

	app, err := h.applications.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(app))
}

// UpdateStatus handles overwriting an application's status.
// PUT /v1/property-applications/{id}
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid application id")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	app, err := h.applications.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(app))
}

// Remove handles deleting an application.
// DELETE /v1/property-applications/{id}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid application id")
		return
	}

	if err := h.applications.Remove(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "application deleted"})
}

// writeError maps workflow errors onto HTTP status codes. The original
// service collapsed not-found and conflict into 400; here they map to 404 and
// 409 so API clients can tell the cases apart.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingPropertyID),
		errors.Is(err, domain.ErrMissingTenantID),
		errors.Is(err, domain.ErrMissingStatus):
		httputil.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPropertyNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrApplicationNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateApplication):
		httputil.Error(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("application request failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
