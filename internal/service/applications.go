package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentora/rentora/internal/domain"
)

// ApplicationService mediates creation, retrieval, update and deletion of
// property applications. It enforces the one-application-per-tenant-per-property
// invariant and the existence preconditions a bare insert would not check.
// The service holds no state between calls; every operation re-reads from
// storage.
type ApplicationService struct {
	applications ApplicationStore
	properties   PropertyStore
	users        UserStore
	activity     ActivityRecorder
}

// NewApplicationService creates a new application service.
func NewApplicationService(applications ApplicationStore, properties PropertyStore, users UserStore, activity ActivityRecorder) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		properties:   properties,
		users:        users,
		activity:     activity,
	}
}

// Submit creates a new application for a property by a tenant.
//
// Preconditions, checked in order: both identifiers present, property exists,
// tenant exists, no prior application for the pair. The pair check is also
// backed by a unique index, so a concurrent duplicate that slips past the
// pre-check still comes back as ErrDuplicateApplication from the insert.
func (s *ApplicationService) Submit(ctx context.Context, propertyID, tenantID uuid.UUID, message string) (*domain.PropertyApplication, error) {
	if propertyID == uuid.Nil {
		return nil, domain.ErrMissingPropertyID
	}
	if tenantID == uuid.Nil {
		return nil, domain.ErrMissingTenantID
	}

	exists, err := s.properties.Exists(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrPropertyNotFound
	}

	if _, err := s.users.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}

	applied, err := s.applications.ExistsForPropertyAndTenant(ctx, propertyID, tenantID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, domain.ErrDuplicateApplication
	}

	now := time.Now()
	app := &domain.PropertyApplication{
		ID:         uuid.New(),
		PropertyID: propertyID,
		TenantID:   tenantID,
		Status:     domain.ApplicationStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if message != "" {
		app.Message = &message
	}

	if err := s.applications.Create(ctx, app); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &tenantID, "application.submitted", "tenant applied to property", map[string]string{
		"application_id": app.ID.String(),
		"property_id":    propertyID.String(),
	})

	return app, nil
}

// ListForProperty returns all applications for a property in insertion order.
func (s *ApplicationService) ListForProperty(ctx context.Context, propertyID uuid.UUID) ([]*domain.PropertyApplication, error) {
	if propertyID == uuid.Nil {
		return nil, domain.ErrMissingPropertyID
	}
	return s.applications.ListByProperty(ctx, propertyID)
}

// ListForTenant returns all applications submitted by a tenant in insertion order.
func (s *ApplicationService) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.PropertyApplication, error) {
	if tenantID == uuid.Nil {
		return nil, domain.ErrMissingTenantID
	}
	return s.applications.ListByTenant(ctx, tenantID)
}

// GetByID returns a single application.
func (s *ApplicationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PropertyApplication, error) {
	return s.applications.GetByID(ctx, id)
}

// UpdateStatus overwrites an application's status. Any non-empty status value
// is accepted and any prior status may be overwritten; there is no transition
// graph. A miss surfaces from the update itself, not a separate read.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.PropertyApplication, error) {
	if status == "" {
		return nil, domain.ErrMissingStatus
	}

	if err := s.applications.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, nil, "application.status_updated", "", map[string]string{
		"application_id": id.String(),
		"status":         status,
	})

	return app, nil
}

// Remove deletes an application. No cascading effects on related entities.
func (s *ApplicationService) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.applications.Delete(ctx, id); err != nil {
		return err
	}

	s.activity.Record(ctx, nil, "application.removed", "", map[string]string{
		"application_id": id.String(),
	})

	return nil
}
