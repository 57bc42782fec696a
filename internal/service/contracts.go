package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentora/rentora/internal/domain"
)

// UserStore is the slice of the users repository the services need.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// PropertyStore is the slice of the properties repository the services need.
type PropertyStore interface {
	Create(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*domain.Property, error)
	Search(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, error)
	Update(ctx context.Context, p *domain.Property) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// ApplicationStore is the persistence contract for property applications.
type ApplicationStore interface {
	Create(ctx context.Context, app *domain.PropertyApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PropertyApplication, error)
	ExistsForPropertyAndTenant(ctx context.Context, propertyID, tenantID uuid.UUID) (bool, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*domain.PropertyApplication, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.PropertyApplication, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActivityStore is the persistence contract for activity logs.
type ActivityStore interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	ListRecent(ctx context.Context, limit int) ([]*domain.ActivityLog, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ActivityRecorder records an audit entry. Implementations must never
// propagate failures to the caller.
type ActivityRecorder interface {
	Record(ctx context.Context, userID *uuid.UUID, action, description string, metadata any)
}
