// Package presence tracks which users are currently online. Each heartbeat
// refreshes a Redis key with a TTL; a user whose key has expired is offline.
package presence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "presence:"

// Config holds presence store settings.
type Config struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// Service records user heartbeats in Redis.
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a presence service and verifies connectivity.
func New(cfg Config) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 90 * time.Second
	}

	return &Service{client: client, ttl: ttl}, nil
}

// Heartbeat marks the user online for the TTL window.
func (s *Service) Heartbeat(ctx context.Context, userID uuid.UUID) error {
	return s.client.Set(ctx, keyPrefix+userID.String(), time.Now().Unix(), s.ttl).Err()
}

// Online reports whether the user has a live heartbeat.
func (s *Service) Online(ctx context.Context, userID uuid.UUID) (bool, error) {
	err := s.client.Get(ctx, keyPrefix+userID.String()).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Close releases the underlying Redis connection.
func (s *Service) Close() error {
	return s.client.Close()
}
