package activity

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/http/middleware"
	"github.com/rentora/rentora/internal/httputil"
	"github.com/rentora/rentora/internal/presence"
	"github.com/rentora/rentora/internal/service"
)

// Handler handles presence heartbeats and the admin activity feed.
type Handler struct {
	logger   *slog.Logger
	activity *service.ActivityService
	presence *presence.Service // nil when Redis is not configured
}

// NewHandler creates a new activity handler. presence may be nil.
func NewHandler(logger *slog.Logger, activity *service.ActivityService, presence *presence.Service) *Handler {
	return &Handler{
		logger:   logger,
		activity: activity,
		presence: presence,
	}
}

// EntryResponse is the JSON shape of an activity entry.
type EntryResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id,omitempty"`
	Action      string          `json:"action"`
	Description string          `json:"description,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

func toResponse(e *domain.ActivityLog) EntryResponse {
	out := EntryResponse{
		ID:        e.ID.String(),
		Action:    e.Action,
		Metadata:  e.Metadata,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
	if e.UserID != nil {
		out.UserID = e.UserID.String()
	}
	if e.Description != nil {
		out.Description = *e.Description
	}
	return out
}

// Heartbeat marks the authenticated user online.
// POST /v1/presence/heartbeat
func (h *Handler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	if h.presence == nil {
		httputil.Error(w, http.StatusNotImplemented, "presence is not configured")
		return
	}
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	if err := h.presence.Heartbeat(r.Context(), userID); err != nil {
		h.logger.Error("heartbeat failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

// Online reports whether a user has a live heartbeat.
// GET /v1/presence/{userID}
func (h *Handler) Online(w http.ResponseWriter, r *http.Request) {
	if h.presence == nil {
		httputil.Error(w, http.StatusNotImplemented, "presence is not configured")
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	online, err := h.presence.Online(r.Context(), userID)
	if err != nil {
		h.logger.Error("presence lookup failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"user_id": userID.String(),
		"online":  online,
	})
}

// Recent returns the most recent activity entries. Admin only.
// GET /v1/admin/activity?limit=50
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.activity.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("activity lookup failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toResponse(e))
	}
	httputil.JSON(w, http.StatusOK, out)
}
