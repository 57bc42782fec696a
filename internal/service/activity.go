package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rentora/rentora/internal/domain"
)

// ActivityService writes best-effort audit entries. Failures are logged and
// swallowed so they never block the operation that produced them.
type ActivityService struct {
	logger  *slog.Logger
	entries ActivityStore
}

// NewActivityService creates a new activity service.
func NewActivityService(logger *slog.Logger, entries ActivityStore) *ActivityService {
	return &ActivityService{logger: logger, entries: entries}
}

// Record writes one activity entry. Any error is logged, never returned.
func (s *ActivityService) Record(ctx context.Context, userID *uuid.UUID, action, description string, metadata any) {
	entry := &domain.ActivityLog{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    action,
		CreatedAt: time.Now(),
	}
	if description != "" {
		entry.Description = &description
	}
	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err != nil {
			s.logger.Warn("failed to marshal activity metadata", "action", action, "error", err)
		} else {
			entry.Metadata = data
		}
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record activity", "action", action, "error", err)
	}
}

// Recent returns the most recent activity entries.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]*domain.ActivityLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.entries.ListRecent(ctx, limit)
}
