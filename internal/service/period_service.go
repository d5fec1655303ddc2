package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/primecut-foods/butchery-api/internal/core"
	"github.com/primecut-foods/butchery-api/internal/events"
)

// PeriodService owns the operating-period lifecycle: CRUD, the
// single-active invariant, and scope resolution for order queries.
// The active period is always resolved explicitly per call; nothing here
// holds it as ambient state.
type PeriodService struct {
	periodRepo core.PeriodRepository
	orderRepo  core.OrderRepository
	cache      core.PeriodCache
	eventBus   *events.EventBus
}

// NewPeriodService creates a new period service
func NewPeriodService(periodRepo core.PeriodRepository, orderRepo core.OrderRepository, cache core.PeriodCache, eventBus *events.EventBus) *PeriodService {
	return &PeriodService{
		periodRepo: periodRepo,
		orderRepo:  orderRepo,
		cache:      cache,
		eventBus:   eventBus,
	}
}

// Create validates and stores a new period. New periods start inactive.
func (s *PeriodService) Create(ctx context.Context, period *core.Period) (*core.Period, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	period.ID = uuid.New().String()
	period.Status = core.PeriodStatusInactive
	period.CreatedAt = time.Now()

	if err := s.periodRepo.Create(ctx, period); err != nil {
		return nil, err
	}
	return period, nil
}

// Update validates and rewrites a period's editable fields
func (s *PeriodService) Update(ctx context.Context, period *core.Period) error {
	if err := period.Validate(); err != nil {
		return err
	}
	if err := s.periodRepo.Update(ctx, period); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// Delete removes a period; the repository blocks it while orders reference it
func (s *PeriodService) Delete(ctx context.Context, id string) error {
	if err := s.periodRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// Get retrieves one period
func (s *PeriodService) Get(ctx context.Context, id string) (*core.Period, error) {
	return s.periodRepo.GetByID(ctx, id)
}

// List retrieves all periods
func (s *PeriodService) List(ctx context.Context) ([]*core.Period, error) {
	return s.periodRepo.GetAll(ctx)
}

// Activate marks one period active and every other inactive, then refreshes
// the snapshot cache and notifies dashboard subscribers.
func (s *PeriodService) Activate(ctx context.Context, id string) (*core.Period, error) {
	if err := s.periodRepo.Activate(ctx, id); err != nil {
		return nil, err
	}

	period, err := s.periodRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetActive(ctx, period); err != nil {
			log.Printf("failed to cache active period: %v", err)
		}
	}
	if s.eventBus != nil {
		s.eventBus.PublishPeriodActivated(period.ID, period.Name)
	}

	return period, nil
}

// Active resolves the currently active period, cache first. Returns nil
// when no period is active; that is a legitimate state, not an error.
func (s *PeriodService) Active(ctx context.Context) (*core.Period, error) {
	if s.cache != nil {
		if period, err := s.cache.GetActive(ctx); err == nil {
			return period, nil
		}
	}

	period, err := s.periodRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	if period != nil && s.cache != nil {
		if err := s.cache.SetActive(ctx, period); err != nil {
			log.Printf("failed to cache active period: %v", err)
		}
	}

	return period, nil
}

// ActiveName returns the active period's display name, or the placeholder
// when none is active.
func (s *PeriodService) ActiveName(ctx context.Context) (string, error) {
	period, err := s.Active(ctx)
	if err != nil {
		return "", err
	}
	if period == nil {
		return core.PeriodPlaceholderName, nil
	}
	return period.Name, nil
}

// Stats aggregates order count and revenue for one period
func (s *PeriodService) Stats(ctx context.Context, periodID string) (*core.PeriodStats, error) {
	period, err := s.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		return nil, err
	}

	stats, err := s.orderRepo.StatsByPeriod(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to get period stats: %w", err)
	}

	stats.PeriodName = period.Name
	return stats, nil
}

// ActiveStats aggregates stats for the active period. With no active
// period it returns zeroed stats under the placeholder name.
func (s *PeriodService) ActiveStats(ctx context.Context) (*core.PeriodStats, error) {
	period, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return &core.PeriodStats{PeriodName: core.PeriodPlaceholderName}, nil
	}
	return s.Stats(ctx, period.ID)
}

func (s *PeriodService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("failed to invalidate active period cache: %v", err)
	}
}
