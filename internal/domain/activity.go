package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActivityLog is a best-effort audit record. Writing one must never block or
// fail the operation that produced it.
type ActivityLog struct {
	ID          uuid.UUID
	UserID      *uuid.UUID
	Action      string
	Description *string
	Metadata    json.RawMessage
	CreatedAt   time.Time
}
