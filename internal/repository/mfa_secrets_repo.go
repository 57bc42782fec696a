package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentora/rentora/internal/domain"
)

// MFASecretsRepository handles TOTP secret persistence.
type MFASecretsRepository struct {
	db *sql.DB
}

// NewMFASecretsRepository creates a new MFA secrets repository.
func NewMFASecretsRepository(db *sql.DB) *MFASecretsRepository {
	return &MFASecretsRepository{db: db}
}

// Upsert stores or replaces the secret for a user.
func (r *MFASecretsRepository) Upsert(ctx context.Context, secret *domain.MFASecret) error {
	query := `
		INSERT INTO mfa_secrets (user_id, encrypted_secret, confirmed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET encrypted_secret = EXCLUDED.encrypted_secret,
		    confirmed = EXCLUDED.confirmed,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		secret.UserID, secret.EncryptedSecret, secret.Confirmed,
		secret.CreatedAt, secret.UpdatedAt,
	)
	return err
}

// GetByUserID retrieves the secret for a user.
func (r *MFASecretsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.MFASecret, error) {
	query := `
		SELECT user_id, encrypted_secret, confirmed, created_at, updated_at
		FROM mfa_secrets
		WHERE user_id = $1
	`
	secret := &domain.MFASecret{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&secret.UserID, &secret.EncryptedSecret, &secret.Confirmed,
		&secret.CreatedAt, &secret.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMFANotEnrolled
	}
	if err != nil {
		return nil, err
	}
	return secret, nil
}

// Confirm marks the secret as confirmed.
func (r *MFASecretsRepository) Confirm(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE mfa_secrets SET confirmed = TRUE, updated_at = $2 WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID, time.Now())
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMFANotEnrolled
	}
	return nil
}

// Delete removes the secret for a user.
func (r *MFASecretsRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM mfa_secrets WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
