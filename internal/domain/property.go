package domain

import (
	"time"

	"github.com/google/uuid"
)

// Property is a rental listing owned by a landlord.
type Property struct {
	ID          uuid.UUID
	LandlordID  uuid.UUID
	Title       string
	Description string
	Address     string
	City        string
	RentCents   int64
	Bedrooms    int
	Bathrooms   int
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// PropertyFilter narrows a property search. Zero values mean "no constraint".
type PropertyFilter struct {
	City          string
	MinRentCents  int64
	MaxRentCents  int64
	MinBedrooms   int
	AvailableOnly bool
}
