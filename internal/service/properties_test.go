package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentora/rentora/internal/domain"
)

func newPropertyService() (*PropertyService, *fakePropertyStore) {
	properties := newFakePropertyStore()
	return NewPropertyService(properties, noopRecorder{}), properties
}

func TestPropertyCreate(t *testing.T) {
	svc, _ := newPropertyService()
	landlordID := uuid.New()

	p, err := svc.Create(context.Background(), landlordID, PropertyInput{
		Title:     "2-bed flat",
		City:      "Leeds",
		RentCents: 95000,
		Bedrooms:  2,
		Bathrooms: 1,
		Available: true,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, landlordID, p.LandlordID)
	assert.True(t, p.Available)
}

func TestPropertyCreate_RequiresTitle(t *testing.T) {
	svc, _ := newPropertyService()

	_, err := svc.Create(context.Background(), uuid.New(), PropertyInput{})
	assert.ErrorIs(t, err, domain.ErrMissingTitle)
}

func TestPropertyUpdate_OwnerOnly(t *testing.T) {
	svc, _ := newPropertyService()
	landlordID := uuid.New()

	p, err := svc.Create(context.Background(), landlordID, PropertyInput{Title: "Flat", Available: true})
	require.NoError(t, err)

	input := PropertyInput{Title: "Renamed", Available: false}

	_, err = svc.Update(context.Background(), p.ID, uuid.New(), domain.RoleLandlord, input)
	assert.ErrorIs(t, err, domain.ErrNotPropertyOwner)

	updated, err := svc.Update(context.Background(), p.ID, landlordID, domain.RoleLandlord, input)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.False(t, updated.Available)
}

func TestPropertyUpdate_AdminOverride(t *testing.T) {
	svc, _ := newPropertyService()

	p, err := svc.Create(context.Background(), uuid.New(), PropertyInput{Title: "Flat"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), p.ID, uuid.New(), domain.RoleAdmin, PropertyInput{Title: "Moderated"})
	require.NoError(t, err)
}

func TestPropertyDelete(t *testing.T) {
	svc, _ := newPropertyService()
	landlordID := uuid.New()

	p, err := svc.Create(context.Background(), landlordID, PropertyInput{Title: "Flat"})
	require.NoError(t, err)

	assert.ErrorIs(t,
		svc.Delete(context.Background(), p.ID, uuid.New(), domain.RoleTenant),
		domain.ErrNotPropertyOwner)

	require.NoError(t, svc.Delete(context.Background(), p.ID, landlordID, domain.RoleLandlord))

	_, err = svc.GetByID(context.Background(), p.ID)
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
}

func TestPropertySearch_Filters(t *testing.T) {
	svc, _ := newPropertyService()
	landlordID := uuid.New()

	_, err := svc.Create(context.Background(), landlordID, PropertyInput{
		Title: "Cheap studio", City: "Leeds", RentCents: 60000, Bedrooms: 1, Available: true,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), landlordID, PropertyInput{
		Title: "Family house", City: "Leeds", RentCents: 180000, Bedrooms: 4, Available: true,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), landlordID, PropertyInput{
		Title: "York flat", City: "York", RentCents: 90000, Bedrooms: 2, Available: false,
	})
	require.NoError(t, err)

	results, err := svc.Search(context.Background(), domain.PropertyFilter{City: "Leeds"})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = svc.Search(context.Background(), domain.PropertyFilter{MinBedrooms: 3})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Family house", results[0].Title)

	results, err = svc.Search(context.Background(), domain.PropertyFilter{MaxRentCents: 100000, AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Cheap studio", results[0].Title)
}
