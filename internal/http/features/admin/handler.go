package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/httputil"
	"github.com/rentora/rentora/internal/repository"
	"github.com/rentora/rentora/internal/service"
)

// Handler handles admin user management endpoints.
type Handler struct {
	logger   *slog.Logger
	users    *repository.UsersRepository
	activity service.ActivityRecorder
}

// NewHandler creates a new admin handler.
func NewHandler(logger *slog.Logger, users *repository.UsersRepository, activity service.ActivityRecorder) *Handler {
	return &Handler{
		logger:   logger,
		users:    users,
		activity: activity,
	}
}

// UserResponse is the JSON shape of a user in admin listings.
type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role"`
	MFAEnabled bool   `json:"mfa_enabled"`
	CreatedAt  string `json:"created_at"`
}

func toResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		MFAEnabled: u.MFAEnabled,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
}

// ListUsers lists users by role.
// GET /v1/admin/users?role=TENANT
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	role := domain.Role(r.URL.Query().Get("role"))
	if !role.Valid() {
		httputil.Error(w, http.StatusBadRequest, domain.ErrInvalidRole.Error())
		return
	}

	users, err := h.users.ListByRole(r.Context(), role)
	if err != nil {
		h.logger.Error("user listing failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toResponse(u))
	}
	httputil.JSON(w, http.StatusOK, out)
}

// GetUser fetches one user.
// GET /v1/admin/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(user))
}

// DeleteUser soft-deletes a user account.
// DELETE /v1/admin/users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.users.SoftDelete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	h.activity.Record(r.Context(), nil, "user.deleted", "", map[string]string{
		"user_id": id.String(),
	})

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrUserNotFound) {
		httputil.Error(w, http.StatusNotFound, err.Error())
		return
	}
	h.logger.Error("admin request failed", "error", err)
	httputil.Error(w, http.StatusInternalServerError, "internal server error")
}
