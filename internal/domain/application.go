package domain

import (
	"time"

	"github.com/google/uuid"
)

// Application statuses observed in the product. New applications always start
// PENDING; status is otherwise a free-form overwritable field and no
// transition graph is enforced.
const (
	ApplicationStatusPending  = "PENDING"
	ApplicationStatusAccepted = "ACCEPTED"
	ApplicationStatusRejected = "REJECTED"
)

// PropertyApplication is one tenant's expressed interest in one property.
// At most one application may exist per (property, tenant) pair; the
// applications table enforces this with a unique composite index.
type PropertyApplication struct {
	ID         uuid.UUID
	PropertyID uuid.UUID
	TenantID   uuid.UUID
	Message    *string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
