package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentora/rentora/internal/domain"
)

// PropertyInput carries the listing fields a landlord controls.
type PropertyInput struct {
	Title       string
	Description string
	Address     string
	City        string
	RentCents   int64
	Bedrooms    int
	Bathrooms   int
	Available   bool
}

// PropertyService manages rental listings.
type PropertyService struct {
	properties PropertyStore
	activity   ActivityRecorder
}

// NewPropertyService creates a new property service.
func NewPropertyService(properties PropertyStore, activity ActivityRecorder) *PropertyService {
	return &PropertyService{properties: properties, activity: activity}
}

// Create creates a new listing owned by the landlord.
func (s *PropertyService) Create(ctx context.Context, landlordID uuid.UUID, input PropertyInput) (*domain.Property, error) {
	if input.Title == "" {
		return nil, domain.ErrMissingTitle
	}

	now := time.Now()
	p := &domain.Property{
		ID:          uuid.New(),
		LandlordID:  landlordID,
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		City:        input.City,
		RentCents:   input.RentCents,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		Available:   input.Available,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.properties.Create(ctx, p); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &landlordID, "property.created", "", map[string]string{
		"property_id": p.ID.String(),
	})

	return p, nil
}

// GetByID returns a single listing.
func (s *PropertyService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	return s.properties.GetByID(ctx, id)
}

// ListByLandlord returns all listings owned by a landlord.
func (s *PropertyService) ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*domain.Property, error) {
	return s.properties.ListByLandlord(ctx, landlordID)
}

// Search returns listings matching the filter.
func (s *PropertyService) Search(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, error) {
	return s.properties.Search(ctx, filter)
}

// Update updates a listing. Only the owning landlord (or an admin) may update.
func (s *PropertyService) Update(ctx context.Context, id, actorID uuid.UUID, actorRole domain.Role, input PropertyInput) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.LandlordID != actorID && actorRole != domain.RoleAdmin {
		return nil, domain.ErrNotPropertyOwner
	}

	p.Title = input.Title
	p.Description = input.Description
	p.Address = input.Address
	p.City = input.City
	p.RentCents = input.RentCents
	p.Bedrooms = input.Bedrooms
	p.Bathrooms = input.Bathrooms
	p.Available = input.Available
	p.UpdatedAt = time.Now()

	if err := s.properties.Update(ctx, p); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &actorID, "property.updated", "", map[string]string{
		"property_id": id.String(),
	})

	return p, nil
}

// Delete soft-deletes a listing. Only the owning landlord (or an admin) may delete.
func (s *PropertyService) Delete(ctx context.Context, id, actorID uuid.UUID, actorRole domain.Role) error {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.LandlordID != actorID && actorRole != domain.RoleAdmin {
		return domain.ErrNotPropertyOwner
	}

	if err := s.properties.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.activity.Record(ctx, &actorID, "property.deleted", "", map[string]string{
		"property_id": id.String(),
	})

	return nil
}
