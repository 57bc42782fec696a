// Package maintenance runs the periodic housekeeping jobs.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rentora/rentora/internal/repository"
)

// Config holds maintenance settings.
type Config struct {
	ActivityRetention time.Duration
}

// Runner schedules background cleanup of expired sessions and old activity rows.
type Runner struct {
	cron     *cron.Cron
	logger   *slog.Logger
	sessions *repository.SessionsRepository
	activity *repository.ActivityRepository
	config   Config
}

// NewRunner creates a maintenance runner.
func NewRunner(logger *slog.Logger, sessions *repository.SessionsRepository, activity *repository.ActivityRepository, cfg Config) *Runner {
	return &Runner{
		cron:     cron.New(),
		logger:   logger,
		sessions: sessions,
		activity: activity,
		config:   cfg,
	}
}

// Start registers and starts the jobs. Call Stop on shutdown.
func (r *Runner) Start() error {
	if _, err := r.cron.AddFunc("@hourly", r.purgeSessions); err != nil {
		return err
	}
	if _, err := r.cron.AddFunc("@daily", r.trimActivity); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Runner) purgeSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := r.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		r.logger.Error("session purge failed", "error", err)
		return
	}
	if removed > 0 {
		r.logger.Info("purged expired sessions", "count", removed)
	}
}

func (r *Runner) trimActivity() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-r.config.ActivityRetention)
	removed, err := r.activity.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		r.logger.Error("activity trim failed", "error", err)
		return
	}
	if removed > 0 {
		r.logger.Info("trimmed old activity entries", "count", removed)
	}
}
