package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentora/rentora/internal/domain"
)

// PropertiesRepository handles property persistence.
type PropertiesRepository struct {
	db *sql.DB
}

// NewPropertiesRepository creates a new properties repository.
func NewPropertiesRepository(db *sql.DB) *PropertiesRepository {
	return &PropertiesRepository{db: db}
}

const propertyColumns = `id, landlord_id, title, description, address, city,
	rent_cents, bedrooms, bathrooms, available, created_at, updated_at, deleted_at`

// Create creates a new property.
func (r *PropertiesRepository) Create(ctx context.Context, p *domain.Property) error {
	query := `
		INSERT INTO properties (id, landlord_id, title, description, address, city,
			rent_cents, bedrooms, bathrooms, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.LandlordID, p.Title, p.Description, p.Address, p.City,
		p.RentCents, p.Bedrooms, p.Bathrooms, p.Available, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a property by ID.
func (r *PropertiesRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	query := fmt.Sprintf(`SELECT %s FROM properties WHERE id = $1 AND deleted_at IS NULL`, propertyColumns)
	p := &domain.Property{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.LandlordID, &p.Title, &p.Description, &p.Address, &p.City,
		&p.RentCents, &p.Bedrooms, &p.Bathrooms, &p.Available,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Exists checks if a property exists by ID.
func (r *PropertiesRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM properties WHERE id = $1 AND deleted_at IS NULL)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	return exists, err
}

// ListByLandlord returns all properties owned by a landlord, newest first.
func (r *PropertiesRepository) ListByLandlord(ctx context.Context, landlordID uuid.UUID) ([]*domain.Property, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM properties
		WHERE landlord_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, propertyColumns)
	rows, err := r.db.QueryContext(ctx, query, landlordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProperties(rows)
}

// Search returns properties matching the filter, newest first.
func (r *PropertiesRepository) Search(ctx context.Context, filter domain.PropertyFilter) ([]*domain.Property, error) {
	var conds []string
	var args []any

	conds = append(conds, "deleted_at IS NULL")
	if filter.City != "" {
		args = append(args, filter.City)
		conds = append(conds, fmt.Sprintf("LOWER(city) = LOWER($%d)", len(args)))
	}
	if filter.MinRentCents > 0 {
		args = append(args, filter.MinRentCents)
		conds = append(conds, fmt.Sprintf("rent_cents >= $%d", len(args)))
	}
	if filter.MaxRentCents > 0 {
		args = append(args, filter.MaxRentCents)
		conds = append(conds, fmt.Sprintf("rent_cents <= $%d", len(args)))
	}
	if filter.MinBedrooms > 0 {
		args = append(args, filter.MinBedrooms)
		conds = append(conds, fmt.Sprintf("bedrooms >= $%d", len(args)))
	}
	if filter.AvailableOnly {
		conds = append(conds, "available = TRUE")
	}

	query := fmt.Sprintf(`SELECT %s FROM properties WHERE %s ORDER BY created_at DESC`,
		propertyColumns, strings.Join(conds, " AND "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProperties(rows)
}

func scanProperties(rows *sql.Rows) ([]*domain.Property, error) {
	var properties []*domain.Property
	for rows.Next() {
		p := &domain.Property{}
		if err := rows.Scan(
			&p.ID, &p.LandlordID, &p.Title, &p.Description, &p.Address, &p.City,
			&p.RentCents, &p.Bedrooms, &p.Bathrooms, &p.Available,
			&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
		); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// Update updates a property's listing fields.
func (r *PropertiesRepository) Update(ctx context.Context, p *domain.Property) error {
	query := `
		UPDATE properties
		SET title = $2, description = $3, address = $4, city = $5,
		    rent_cents = $6, bedrooms = $7, bathrooms = $8, available = $9,
		    updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Description, p.Address, p.City,
		p.RentCents, p.Bedrooms, p.Bathrooms, p.Available, time.Now(),
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}

// SoftDelete soft-deletes a property.
func (r *PropertiesRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE properties
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}
