package applications

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/service"
)

type memApplicationStore struct {
	apps map[uuid.UUID]*domain.PropertyApplication
}

func newMemApplicationStore() *memApplicationStore {
	return &memApplicationStore{apps: make(map[uuid.UUID]*domain.PropertyApplication)}
}

func (s *memApplicationStore) Create(_ context.Context, app *domain.PropertyApplication) error {
	for _, existing := range s.apps {
		if existing.PropertyID == app.PropertyID && existing.TenantID == app.TenantID {
			return domain.ErrDuplicateApplication
		}
	}
	cp := *app
	s.apps[app.ID] = &cp
	return nil
}

func (s *memApplicationStore) GetByID(_ context.Context, id uuid.UUID) (*domain.PropertyApplication, error) {
	app, ok := s.apps[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	cp := *app
	return &cp, nil
}

func (s *memApplicationStore) ExistsForPropertyAndTenant(_ context.Context, propertyID, tenantID uuid.UUID) (bool, error) {
	for _, app := range s.apps {
		if app.PropertyID == propertyID && app.TenantID == tenantID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memApplicationStore) ListByProperty(_ context.Context, propertyID uuid.UUID) ([]*domain.PropertyApplication, error) {
	var out []*domain.PropertyApplication
	for _, app := range s.apps {
		if app.PropertyID == propertyID {
			cp := *app
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memApplicationStore) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*domain.PropertyApplication, error) {
	var out []*domain.PropertyApplication
	for _, app := range s.apps {
		if app.TenantID == tenantID {
			cp := *app
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memApplicationStore) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	app, ok := s.apps[id]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	app.Status = status
	return nil
}

func (s *memApplicationStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.apps[id]; !ok {
		return domain.ErrApplicationNotFound
	}
	delete(s.apps, id)
	return nil
}

type memPropertyStore struct {
	ids map[uuid.UUID]bool
}

func (s *memPropertyStore) Create(context.Context, *domain.Property) error { return nil }
func (s *memPropertyStore) GetByID(context.Context, uuid.UUID) (*domain.Property, error) {
	return nil, domain.ErrPropertyNotFound
}
func (s *memPropertyStore) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return s.ids[id], nil
}
func (s *memPropertyStore) ListByLandlord(context.Context, uuid.UUID) ([]*domain.Property, error) {
	return nil, nil
}
func (s *memPropertyStore) Search(context.Context, domain.PropertyFilter) ([]*domain.Property, error) {
	return nil, nil
}
func (s *memPropertyStore) Update(context.Context, *domain.Property) error { return nil }
func (s *memPropertyStore) SoftDelete(context.Context, uuid.UUID) error    { return nil }

type memUserStore struct {
	ids map[uuid.UUID]bool
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if !s.ids[id] {
		return nil, domain.ErrUserNotFound
	}
	return &domain.User{ID: id, Role: domain.RoleTenant}, nil
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, *uuid.UUID, string, string, any) {}

type fixture struct {
	router     *chi.Mux
	store      *memApplicationStore
	propertyID uuid.UUID
	tenantID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	propertyID := uuid.New()
	tenantID := uuid.New()

	store := newMemApplicationStore()
	svc := service.NewApplicationService(
		store,
		&memPropertyStore{ids: map[uuid.UUID]bool{propertyID: true}},
		&memUserStore{ids: map[uuid.UUID]bool{tenantID: true}},
		noopRecorder{},
	)

	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, nil)

	r := chi.NewRouter()
	r.Post("/v1/property-applications", h.Submit)
	r.Get("/v1/property-applications", h.ListForProperty)
	r.Get("/v1/property-applications/tenant/{tenantID}", h.ListForTenant)
	r.Get("/v1/property-applications/{id}", h.GetByID)
	r.Put("/v1/property-applications/{id}", h.UpdateStatus)
	r.Delete("/v1/property-applications/{id}", h.Remove)

	return &fixture{router: r, store: store, propertyID: propertyID, tenantID: tenantID}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) submit(t *testing.T) ApplicationResponse {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/v1/property-applications", SubmitRequest{
		PropertyID: f.propertyID.String(),
		TenantID:   f.tenantID.String(),
		Message:    "interested in a viewing",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp ApplicationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)

	resp := f.submit(t)

	assert.Equal(t, f.propertyID.String(), resp.PropertyID)
	assert.Equal(t, f.tenantID.String(), resp.TenantID)
	assert.Equal(t, domain.ApplicationStatusPending, resp.Status)
	require.NotNil(t, resp.Message)
	assert.Equal(t, "interested in a viewing", *resp.Message)
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  SubmitRequest
		want int
	}{
		{
			name: "missing property id",
			req:  SubmitRequest{TenantID: f.tenantID.String()},
			want: http.StatusBadRequest,
		},
		{
			name: "missing tenant id",
			req:  SubmitRequest{PropertyID: f.propertyID.String()},
			want: http.StatusBadRequest,
		},
		{
			name: "malformed property id",
			req:  SubmitRequest{PropertyID: "not-a-uuid", TenantID: f.tenantID.String()},
			want: http.StatusBadRequest,
		},
		{
			name: "unknown property",
			req:  SubmitRequest{PropertyID: uuid.NewString(), TenantID: f.tenantID.String()},
			want: http.StatusNotFound,
		},
		{
			name: "unknown tenant",
			req:  SubmitRequest{PropertyID: f.propertyID.String(), TenantID: uuid.NewString()},
			want: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/v1/property-applications", tt.req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestSubmitDuplicateConflict(t *testing.T) {
	f := newFixture(t)
	f.submit(t)

	rec := f.do(t, http.MethodPost, "/v1/property-applications", SubmitRequest{
		PropertyID: f.propertyID.String(),
		TenantID:   f.tenantID.String(),
	})
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestListForProperty(t *testing.T) {
	f := newFixture(t)
	f.submit(t)

	rec := f.do(t, http.MethodGet, "/v1/property-applications?property_id="+f.propertyID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []ApplicationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, f.tenantID.String(), resp[0].TenantID)

	rec = f.do(t, http.MethodGet, "/v1/property-applications", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListForTenant(t *testing.T) {
	f := newFixture(t)
	f.submit(t)

	rec := f.do(t, http.MethodGet, "/v1/property-applications/tenant/"+f.tenantID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []ApplicationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)

	// Unknown tenant yields an empty list, not an error.
	rec = f.do(t, http.MethodGet, "/v1/property-applications/tenant/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp)
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	created := f.submit(t)

	rec := f.do(t, http.MethodGet, "/v1/property-applications/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ApplicationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.ID)

	rec = f.do(t, http.MethodGet, "/v1/property-applications/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/property-applications/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	created := f.submit(t)

	rec := f.do(t, http.MethodPut, "/v1/property-applications/"+created.ID, UpdateStatusRequest{Status: domain.ApplicationStatusAccepted})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ApplicationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ApplicationStatusAccepted, resp.Status)

	rec = f.do(t, http.MethodPut, "/v1/property-applications/"+created.ID, UpdateStatusRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPut, "/v1/property-applications/"+uuid.NewString(), UpdateStatusRequest{Status: domain.ApplicationStatusRejected})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	created := f.submit(t)

	rec := f.do(t, http.MethodDelete, "/v1/property-applications/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/property-applications/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodDelete, "/v1/property-applications/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResubmitAfterRemove(t *testing.T) {
	f := newFixture(t)
	created := f.submit(t)

	rec := f.do(t, http.MethodDelete, "/v1/property-applications/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := f.submit(t)
	assert.NotEqual(t, created.ID, resp.ID)
	assert.Equal(t, domain.ApplicationStatusPending, resp.Status)
}
