package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rentora/rentora/internal/domain"
)

// ActivityRepository handles activity log persistence.
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create inserts an activity log entry.
func (r *ActivityRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (id, user_id, action, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Action, entry.Description, entry.Metadata, entry.CreatedAt,
	)
	return err
}

// ListRecent returns the most recent activity entries, newest first.
func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]*domain.ActivityLog, error) {
	query := `
		SELECT id, user_id, action, description, metadata, created_at
		FROM activity_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.ActivityLog
	for rows.Next() {
		entry := &domain.ActivityLog{}
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Action, &entry.Description,
			&entry.Metadata, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DeleteOlderThan removes activity entries created before cutoff.
// Returns the number of rows removed.
func (r *ActivityRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM activity_logs WHERE created_at < $1`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
