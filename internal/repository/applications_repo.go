package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rentora/rentora/internal/domain"
)

// ApplicationsRepository handles property application persistence.
type ApplicationsRepository struct {
	db *sql.DB
}

// NewApplicationsRepository creates a new applications repository.
func NewApplicationsRepository(db *sql.DB) *ApplicationsRepository {
	return &ApplicationsRepository{db: db}
}

// Create inserts a new application. A concurrent duplicate for the same
// (property, tenant) pair trips the unique composite constraint and is
// reported as ErrDuplicateApplication.
func (r *ApplicationsRepository) Create(ctx context.Context, app *domain.PropertyApplication) error {
	query := `
		INSERT INTO property_applications (id, property_id, tenant_id, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		app.ID, app.PropertyID, app.TenantID, app.Message, app.Status,
		app.CreatedAt, app.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateApplication
	}
	return err
}

// unique_violation per Postgres error code reference
const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// GetByID retrieves an application by ID.
func (r *ApplicationsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PropertyApplication, error) {
	query := `
		SELECT id, property_id, tenant_id, message, status, created_at, updated_at
		FROM property_applications
		WHERE id = $1
	`
	app := &domain.PropertyApplication{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&app.ID, &app.PropertyID, &app.TenantID, &app.Message, &app.Status,
		&app.CreatedAt, &app.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

// ExistsForPropertyAndTenant checks whether an application already exists for
// the (property, tenant) pair.
func (r *ApplicationsRepository) ExistsForPropertyAndTenant(ctx context.Context, propertyID, tenantID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM property_applications
			WHERE property_id = $1 AND tenant_id = $2
		)
	`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, propertyID, tenantID).Scan(&exists)
	return exists, err
}

// ListByProperty returns all applications for a property in insertion order.
func (r *ApplicationsRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*domain.PropertyApplication, error) {
	query := `
		SELECT id, property_id, tenant_id, message, status, created_at, updated_at
		FROM property_applications
		WHERE property_id = $1
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, propertyID)
}

// ListByTenant returns all applications submitted by a tenant in insertion order.
func (r *ApplicationsRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.PropertyApplication, error) {
	query := `
		SELECT id, property_id, tenant_id, message, status, created_at, updated_at
		FROM property_applications
		WHERE tenant_id = $1
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, tenantID)
}

func (r *ApplicationsRepository) list(ctx context.Context, query string, arg any) ([]*domain.PropertyApplication, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*domain.PropertyApplication
	for rows.Next() {
		app := &domain.PropertyApplication{}
		if err := rows.Scan(
			&app.ID, &app.PropertyID, &app.TenantID, &app.Message, &app.Status,
			&app.CreatedAt, &app.UpdatedAt,
		); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// UpdateStatus overwrites the status of an application. An update-miss
// surfaces as ErrApplicationNotFound, there is no separate read.
func (r *ApplicationsRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE property_applications
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

// Delete removes an application. No cascading effects on related entities.
func (r *ApplicationsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM property_applications WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}
