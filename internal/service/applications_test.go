package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentora/rentora/internal/domain"
)

// fakeApplicationStore is an in-memory ApplicationStore that mirrors the
// repository's error mapping, including the unique-pair constraint.
type fakeApplicationStore struct {
	apps map[uuid.UUID]*domain.PropertyApplication
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{apps: make(map[uuid.UUID]*domain.PropertyApplication)}
}

func (f *fakeApplicationStore) Create(_ context.Context, app *domain.PropertyApplication) error {
	for _, existing := range f.apps {
		if existing.PropertyID == app.PropertyID && existing.TenantID == app.TenantID {
			return domain.ErrDuplicateApplication
		}
	}
	clone := *app
	f.apps[app.ID] = &clone
	return nil
}

func (f *fakeApplicationStore) GetByID(_ context.Context, id uuid.UUID) (*domain.PropertyApplication, error) {
	app, ok := f.apps[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	clone := *app
	return &clone, nil
}

func (f *fakeApplicationStore) ExistsForPropertyAndTenant(_ context.Context, propertyID, tenantID uuid.UUID) (bool, error) {
	for _, app := range f.apps {
		if app.PropertyID == propertyID && app.TenantID == tenantID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApplicationStore) ListByProperty(_ context.Context, propertyID uuid.UUID) ([]*domain.PropertyApplication, error) {
	var out []*domain.PropertyApplication
	for _, app := range f.apps {
		if app.PropertyID == propertyID {
			clone := *app
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeApplicationStore) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*domain.PropertyApplication, error) {
	var out []*domain.PropertyApplication
	for _, app := range f.apps {
		if app.TenantID == tenantID {
			clone := *app
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeApplicationStore) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	app, ok := f.apps[id]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	app.Status = status
	app.UpdatedAt = time.Now()
	return nil
}

func (f *fakeApplicationStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.apps[id]; !ok {
		return domain.ErrApplicationNotFound
	}
	delete(f.apps, id)
	return nil
}

type fakePropertyStore struct {
	properties map[uuid.UUID]*domain.Property
}

func newFakePropertyStore() *fakePropertyStore {
	return &fakePropertyStore{properties: make(map[uuid.UUID]*domain.Property)}
}

func (f *fakePropertyStore) Create(_ context.Context, p *domain.Property) error {
	clone := *p
	f.properties[p.ID] = &clone
	return nil
}

func (f *fakePropertyStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Property, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, domain.ErrPropertyNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakePropertyStore) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.properties[id]
	return ok, nil
}

func (f *fakePropertyStore) ListByLandlord(_ context.Context, landlordID uuid.UUID) ([]*domain.Property, error) {
	var out []*domain.Property
	for _, p := range f.properties {
		if p.LandlordID == landlordID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakePropertyStore) Search(_ context.Context, filter domain.PropertyFilter) ([]*domain.Property, error) {
	var out []*domain.Property
	for _, p := range f.properties {
		if filter.City != "" && p.City != filter.City {
			continue
		}
		if filter.MinRentCents > 0 && p.RentCents < filter.MinRentCents {
			continue
		}
		if filter.MaxRentCents > 0 && p.RentCents > filter.MaxRentCents {
			continue
		}
		if filter.MinBedrooms > 0 && p.Bedrooms < filter.MinBedrooms {
			continue
		}
		if filter.AvailableOnly && !p.Available {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakePropertyStore) Update(_ context.Context, p *domain.Property) error {
	if _, ok := f.properties[p.ID]; !ok {
		return domain.ErrPropertyNotFound
	}
	clone := *p
	f.properties[p.ID] = &clone
	return nil
}

func (f *fakePropertyStore) SoftDelete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.properties[id]; !ok {
		return domain.ErrPropertyNotFound
	}
	delete(f.properties, id)
	return nil
}

type fakeUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

// noopRecorder discards activity; tests that care use recordingRecorder.
type noopRecorder struct{}

func (noopRecorder) Record(context.Context, *uuid.UUID, string, string, any) {}

type recordingRecorder struct {
	actions []string
}

func (r *recordingRecorder) Record(_ context.Context, _ *uuid.UUID, action, _ string, _ any) {
	r.actions = append(r.actions, action)
}

func newTestEnv() (*ApplicationService, *fakeApplicationStore, *fakePropertyStore, *fakeUserStore) {
	apps := newFakeApplicationStore()
	properties := newFakePropertyStore()
	users := newFakeUserStore()
	svc := NewApplicationService(apps, properties, users, noopRecorder{})
	return svc, apps, properties, users
}

func seedProperty(properties *fakePropertyStore) uuid.UUID {
	id := uuid.New()
	properties.properties[id] = &domain.Property{ID: id, Title: "Flat 1", City: "Leeds", Available: true}
	return id
}

func seedTenant(users *fakeUserStore) uuid.UUID {
	id := uuid.New()
	users.users[id] = &domain.User{ID: id, Email: "tenant@example.com", Role: domain.RoleTenant}
	return id
}

func TestSubmit_CreatesPendingApplication(t *testing.T) {
	svc, apps, properties, users := newTestEnv()
	propertyID := seedProperty(properties)
	tenantID := seedTenant(users)

	app, err := svc.Submit(context.Background(), propertyID, tenantID, "interested")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, app.ID)
	assert.Equal(t, domain.ApplicationStatusPending, app.Status)
	assert.Equal(t, propertyID, app.PropertyID)
	assert.Equal(t, tenantID, app.TenantID)
	require.NotNil(t, app.Message)
	assert.Equal(t, "interested", *app.Message)

	stored, err := apps.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, stored.Status)
}

func TestSubmit_EmptyMessageStoredAsNull(t *testing.T) {
	svc, _, properties, users := newTestEnv()
	propertyID := seedProperty(properties)
	tenantID := seedTenant(users)

	app, err := svc.Submit(context.Background(), propertyID, tenantID, "")
	require.NoError(t, err)
	assert.Nil(t, app.Message)
}

func TestSubmit_Validation(t *testing.T) {
	svc, _, properties, users := newTestEnv()
	propertyID := seedProperty(properties)
	tenantID := seedTenant(users)

	_, err := svc.Submit(context.Background(), uuid.Nil, tenantID, "")
	assert.ErrorIs(t, err, domain.ErrMissingPropertyID)

	_, err = svc.Submit(context.Background(), propertyID, uuid.Nil, "")
	assert.ErrorIs(t, err, domain.ErrMissingTenantID)
}

func TestSubmit_PropertyMissing_NoWrite(t *testing.T) {
	svc, apps, _, users := newTestEnv()
	tenantID := seedTenant(users)

	_, err := svc.Submit(context.Background(), uuid.New(), tenantID, "")
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
	assert.Empty(t, apps.apps)
}

func TestSubmit_TenantMissing_NoWrite(t *testing.T) {
	svc, apps, properties, _ := newTestEnv()
	propertyID := seedProperty(properties)

	_, err := svc.Submit(context.Background(), propertyID, uuid.New(), "")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Empty(t, apps.apps)
}

func TestSubmit_SecondApplicationConflicts(t *testing.T) {
	svc, _, properties, users := newTestEnv()
	propertyID := seedProperty(properties)
	tenantID := seedTenant(users)

	_, err := svc.Submit(context.Background(), propertyID, tenantID, "interested")
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), propertyID, tenantID, "again")
	assert.ErrorIs(t, err, domain.ErrDuplicateApplication)
}

// racingApplicationStore reports no prior application at pre-check time but
// conflicts on insert, the shape of two submits racing past the pre-check.
type racingApplicationStore struct {
	*fakeApplicationStore
}

func (r *racingApplicationStore) ExistsForPropertyAndTenant(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

func TestSubmit_ConcurrentDuplicateSurfacesFromInsert(t *testing.T) {
	apps := newFakeApplicationStore()
	properties := newFakePropertyStore()
	users := newFakeUserStore()
	svc := NewApplicationService(&racingApplicationStore{apps}, properties, users, noopRecorder{})

	propertyID := seedProperty(properties)
	tenantID := seedTenant(users)

	_, err := svc.Submit(context.Background(), propertyID, tenantID, "")
	require.NoError(t, err)

	// The pre-check misses the first application, so the duplicate must come
	// back from the insert itself, as it would from the unique index.
	_, err = svc.Submit(context.Background(), propertyID, tenantID, "")
	assert.ErrorIs(t, err, domain.ErrDuplicateApplication)
	assert.Len(t, apps.apps, 1)
}

func TestSubmit_SamePropertyDifferentTenants(t *testing.T) {
	svc, _, properties, users := newTestEnv()
	propertyID := seedProperty(properties)
	tenant1 := seedTenant(users)
	tenant2 := seedTenant(users)

	_, err := svc.Submit(context.Background(), propertyID, tenant1, "")
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), propertyID, tenant2, "")
	require.NoError(t, err)

	list, err := svc.ListForProperty(context.Background(), propertyID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUpdateStatus_OverwritesRegardlessOfPriorValue(t *testing.T) {
	svc, _, properties, users := newTestEnv()
	propertyID := seedProperty(properties)
	tenantID := seedTenant(users)

	app, err := svc.Submit(context.Background(), propertyID, tenantID, "")
	require.NoError(t, err)

	// No transition graph: PENDING -> REJECTED -> ACCEPTED all succeed.
	updated, err := svc.UpdateStatus(context.Background(), app.ID, domain.ApplicationStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusRejected, updated.Status)

	updated, err = svc.UpdateStatus(context.Background(), app.ID, domain.ApplicationStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusAccepted, updated.Status)
}

func TestUpdateStatus_Validation(t *testing.T) {
	svc, _, _, _ := newTestEnv()

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, domain.ErrMissingStatus)
}

func TestUpdateStatus_MissSurfacesNotFound(t *testing.T) {
	svc, _, _, _ := newTestEnv()

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), domain.ApplicationStatusAccepted)
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
}

func TestRemove(t *testing.T) {
	svc, _, properties, users := newTestEnv()
	propertyID := seedProperty(properties)
	tenantID := seedTenant(users)

	app, err := svc.Submit(context.Background(), propertyID, tenantID, "")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), app.ID))

	_, err = svc.GetByID(context.Background(), app.ID)
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)

	// Removing again reports not found.
	assert.ErrorIs(t, svc.Remove(context.Background(), app.ID), domain.ErrApplicationNotFound)
}

func TestListValidation(t *testing.T) {
	svc, _, _, _ := newTestEnv()

	_, err := svc.ListForProperty(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrMissingPropertyID)

	_, err = svc.ListForTenant(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrMissingTenantID)
}

func TestSubmit_RecordsActivity(t *testing.T) {
	apps := newFakeApplicationStore()
	properties := newFakePropertyStore()
	users := newFakeUserStore()
	recorder := &recordingRecorder{}
	svc := NewApplicationService(apps, properties, users, recorder)

	propertyID := seedProperty(properties)
	tenantID := seedTenant(users)

	app, err := svc.Submit(context.Background(), propertyID, tenantID, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), app.ID, domain.ApplicationStatusAccepted)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), app.ID))

	assert.Equal(t, []string{
		"application.submitted",
		"application.status_updated",
		"application.removed",
	}, recorder.actions)
}

// Full walk through the marketplace flow: apply, re-apply, accept, list.
func TestApplicationLifecycle(t *testing.T) {
	svc, _, properties, users := newTestEnv()
	propertyID := seedProperty(properties)
	tenantID := seedTenant(users)

	app, err := svc.Submit(context.Background(), propertyID, tenantID, "interested")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, app.Status)

	_, err = svc.Submit(context.Background(), propertyID, tenantID, "again")
	assert.ErrorIs(t, err, domain.ErrDuplicateApplication)

	updated, err := svc.UpdateStatus(context.Background(), app.ID, domain.ApplicationStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusAccepted, updated.Status)

	list, err := svc.ListForProperty(context.Background(), propertyID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, app.ID, list[0].ID)
	assert.Equal(t, domain.ApplicationStatusAccepted, list[0].Status)
}
