package properties

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/http/middleware"
	"github.com/rentora/rentora/internal/httputil"
	"github.com/rentora/rentora/internal/service"
)

// Handler handles property listing endpoints.
type Handler struct {
	logger     *slog.Logger
	properties *service.PropertyService
}

// NewHandler creates a new properties handler.
func NewHandler(logger *slog.Logger, properties *service.PropertyService) *Handler {
	return &Handler{logger: logger, properties: properties}
}

// PropertyRequest carries the listing fields for create and update.
type PropertyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	RentCents   int64  `json:"rent_cents"`
	Bedrooms    int    `json:"bedrooms"`
	Bathrooms   int    `json:"bathrooms"`
	Available   bool   `json:"available"`
}

func (r PropertyRequest) toInput() service.PropertyInput {
	return service.PropertyInput{
		Title:       r.Title,
		Description: r.Description,
		Address:     r.Address,
		City:        r.City,
		RentCents:   r.RentCents,
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		Available:   r.Available,
	}
}

// PropertyResponse is the JSON shape of a listing.
type PropertyResponse struct {
	ID          string `json:"id"`
	LandlordID  string `json:"landlord_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	RentCents   int64  `json:"rent_cents"`
	Bedrooms    int    `json:"bedrooms"`
	Bathrooms   int    `json:"bathrooms"`
	Available   bool   `json:"available"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toResponse(p *domain.Property) PropertyResponse {
	return PropertyResponse{
		ID:          p.ID.String(),
		LandlordID:  p.LandlordID.String(),
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		City:        p.City,
		RentCents:   p.RentCents,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		Available:   p.Available,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func toResponses(props []*domain.Property) []PropertyResponse {
	out := make([]PropertyResponse, 0, len(props))
	for _, p := range props {
		out = append(out, toResponse(p))
	}
	return out
}

// Create handles listing creation by the authenticated landlord.
// POST /v1/properties
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	var req PropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		httputil.Error(w, http.StatusBadRequest, domain.ErrMissingTitle.Error())
		return
	}

	p, err := h.properties.Create(r.Context(), landlordID, req.toInput())
	if err != nil {
		h.writeError(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, toResponse(p))
}

// Search handles listing search with optional filters.
// GET /v1/properties?city=&min_rent_cents=&max_rent_cents=&min_bedrooms=&available=true
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.PropertyFilter{
		City:          q.Get("city"),
		AvailableOnly: q.Get("available") == "true",
	}
	if v := q.Get("min_rent_cents"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid min_rent_cents")
			return
		}
		filter.MinRentCents = n
	}
	if v := q.Get("max_rent_cents"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid max_rent_cents")
			return
		}
		filter.MaxRentCents = n
	}
	if v := q.Get("min_bedrooms"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid min_bedrooms")
			return
		}
		filter.MinBedrooms = n
	}

	props, err := h.properties.Search(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toResponses(props))
}

// GetByID handles fetching a single listing.
// GET /v1/properties/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid property id")
		return
	}

	p, err := h.properties.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(p))
}

// ListMine handles listing the authenticated landlord's properties.
// GET /v1/properties/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}

	props, err := h.properties.ListByLandlord(r.Context(), landlordID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toResponses(props))
}

// Update handles updating a listing. Owner or admin only.
// PUT /v1/properties/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid property id")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}
	role, _ := middleware.GetRole(r.Context())

	var req PropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.properties.Update(r.Context(), id, actorID, role, req.toInput())
	if err != nil {
		h.writeError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, toResponse(p))
}

// Delete handles soft-deleting a listing. Owner or admin only.
// DELETE /v1/properties/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid property id")
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing authorization")
		return
	}
	role, _ := middleware.GetRole(r.Context())

	if err := h.properties.Delete(r.Context(), id, actorID, role); err != nil {
		h.writeError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "property deleted"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingTitle):
		httputil.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPropertyNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotPropertyOwner):
		httputil.Error(w, http.StatusForbidden, err.Error())
	default:
		h.logger.Error("property request failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
