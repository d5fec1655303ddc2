package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/primecut-foods/butchery-api/internal/core"
	"github.com/redis/go-redis/v9"
)

const (
	// ActivePeriodKey is the fixed key for the active-period snapshot
	ActivePeriodKey = "active_period"
	// DefaultSnapshotTTL bounds staleness if an invalidation is ever missed
	DefaultSnapshotTTL = 12 * time.Hour
)

// ErrCacheMiss is returned when no snapshot is cached. Callers fall back
// to the database; a miss is never a failure.
var ErrCacheMiss = fmt.Errorf("active period not cached")

// Repository implements core.PeriodCache using Redis. The snapshot is a
// whole-record JSON blob under a fixed key.
type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

// GetActive retrieves the cached active-period snapshot
func (r *Repository) GetActive(ctx context.Context) (*core.Period, error) {
	val, err := r.client.Get(ctx, ActivePeriodKey).Result()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active period snapshot: %w", err)
	}

	var period core.Period
	if err := json.Unmarshal([]byte(val), &period); err != nil {
		return nil, fmt.Errorf("failed to unmarshal active period snapshot: %w", err)
	}

	return &period, nil
}

// SetActive stores the active-period snapshot with TTL
func (r *Repository) SetActive(ctx context.Context, period *core.Period) error {
	data, err := json.Marshal(period)
	if err != nil {
		return fmt.Errorf("failed to marshal active period snapshot: %w", err)
	}

	if err := r.client.Set(ctx, ActivePeriodKey, data, DefaultSnapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to set active period snapshot: %w", err)
	}

	return nil
}

// Invalidate drops the cached snapshot
func (r *Repository) Invalidate(ctx context.Context) error {
	if err := r.client.Del(ctx, ActivePeriodKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate active period snapshot: %w", err)
	}
	return nil
}
