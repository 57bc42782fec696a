package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/rentora/rentora/internal/httputil"
)

// Handler serves liveness and readiness probes.
type Handler struct {
	db *sql.DB
}

// NewHandler creates a new health handler.
func NewHandler(db *sql.DB) *Handler {
	return &Handler{db: db}
}

// Live reports process liveness.
// GET /health/live
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness, including database connectivity.
// GET /health/ready
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		httputil.JSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"reason": "database unreachable",
		})
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
