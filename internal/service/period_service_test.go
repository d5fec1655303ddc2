package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/primecut-foods/butchery-api/internal/core"
	"github.com/primecut-foods/butchery-api/internal/events"
	"github.com/primecut-foods/butchery-api/internal/service"
)

func newPeriodFixture() (*service.PeriodService, *fakePeriodRepo, *fakeOrderRepo, *fakePeriodCache) {
	periodRepo := newFakePeriodRepo()
	orderRepo := newFakeOrderRepo()
	cache := &fakePeriodCache{}
	return service.NewPeriodService(periodRepo, orderRepo, cache, events.NewEventBus()), periodRepo, orderRepo, cache
}

func seedPeriod(t *testing.T, svc *service.PeriodService, name string) *core.Period {
	t.Helper()
	period, err := svc.Create(context.Background(), &core.Period{
		Name:      name,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", name, err)
	}
	return period
}

func TestCreateStartsInactive(t *testing.T) {
	svc, _, _, _ := newPeriodFixture()

	period := seedPeriod(t, svc, "Easter 2025")
	if period.Status != core.PeriodStatusInactive {
		t.Fatalf("new period status = %q, want %q", period.Status, core.PeriodStatusInactive)
	}
	if period.ID == "" {
		t.Fatal("new period has no id")
	}
}

func TestActivateIsExclusive(t *testing.T) {
	svc, repo, _, _ := newPeriodFixture()
	ctx := context.Background()

	easter := seedPeriod(t, svc, "Easter 2025")
	christmas := seedPeriod(t, svc, "Christmas 2025")

	if _, err := svc.Activate(ctx, easter.ID); err != nil {
		t.Fatalf("Activate easter failed: %v", err)
	}
	if _, err := svc.Activate(ctx, christmas.ID); err != nil {
		t.Fatalf("Activate christmas failed: %v", err)
	}

	activeCount := 0
	for _, period := range repo.periods {
		if period.Status == core.PeriodStatusActive {
			activeCount++
			if period.ID != christmas.ID {
				t.Errorf("active period = %q, want %q", period.Name, "Christmas 2025")
			}
		}
	}
	if activeCount != 1 {
		t.Fatalf("active period count = %d, want 1", activeCount)
	}

	active, err := svc.Active(ctx)
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if active == nil || active.ID != christmas.ID {
		t.Fatalf("Active resolved %+v, want christmas", active)
	}
}

func TestActiveNoPeriodIsNotAnError(t *testing.T) {
	svc, _, _, _ := newPeriodFixture()
	ctx := context.Background()

	seedPeriod(t, svc, "Easter 2025")

	active, err := svc.Active(ctx)
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if active != nil {
		t.Fatalf("Active = %+v, want nil with nothing activated", active)
	}

	name, err := svc.ActiveName(ctx)
	if err != nil {
		t.Fatalf("ActiveName failed: %v", err)
	}
	if name != core.PeriodPlaceholderName {
		t.Errorf("ActiveName = %q, want %q", name, core.PeriodPlaceholderName)
	}

	stats, err := svc.ActiveStats(ctx)
	if err != nil {
		t.Fatalf("ActiveStats failed: %v", err)
	}
	if stats.OrderCount != 0 || stats.Revenue != 0 {
		t.Errorf("ActiveStats = %+v, want zeroed", stats)
	}
	if stats.PeriodName != core.PeriodPlaceholderName {
		t.Errorf("ActiveStats name = %q, want placeholder", stats.PeriodName)
	}
}

func TestActiveFillsCacheOnMiss(t *testing.T) {
	svc, _, _, cache := newPeriodFixture()
	ctx := context.Background()

	easter := seedPeriod(t, svc, "Easter 2025")
	if _, err := svc.Activate(ctx, easter.ID); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	// Simulate a cache flush; the next resolve must fall back to the
	// repository and re-fill.
	cache.period = nil
	setsBefore := cache.sets

	active, err := svc.Active(ctx)
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if active == nil || active.ID != easter.ID {
		t.Fatalf("Active resolved %+v, want easter", active)
	}
	if cache.sets != setsBefore+1 {
		t.Errorf("cache sets = %d, want %d", cache.sets, setsBefore+1)
	}
	if cache.period == nil || cache.period.ID != easter.ID {
		t.Errorf("cache not refilled after miss")
	}
}

func TestStatsAggregatesPeriodOrders(t *testing.T) {
	svc, _, orderRepo, _ := newPeriodFixture()
	ctx := context.Background()

	easter := seedPeriod(t, svc, "Easter 2025")
	other := seedPeriod(t, svc, "Christmas 2025")

	orderRepo.Create(ctx, &core.Order{ID: "o1", Code: "ORD_001", PeriodID: easter.ID, Total: 120.50})
	orderRepo.Create(ctx, &core.Order{ID: "o2", Code: "ORD_002", PeriodID: easter.ID, Total: 79.50})
	orderRepo.Create(ctx, &core.Order{ID: "o3", Code: "ORD_003", PeriodID: other.ID, Total: 999})

	stats, err := svc.Stats(ctx, easter.ID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.OrderCount != 2 {
		t.Errorf("OrderCount = %d, want 2", stats.OrderCount)
	}
	if stats.Revenue != 200 {
		t.Errorf("Revenue = %v, want 200", stats.Revenue)
	}
	if stats.PeriodName != "Easter 2025" {
		t.Errorf("PeriodName = %q, want %q", stats.PeriodName, "Easter 2025")
	}
}

func TestPeriodValidation(t *testing.T) {
	svc, _, _, _ := newPeriodFixture()

	_, err := svc.Create(context.Background(), &core.Period{
		Name:      "Backwards",
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatal("Create accepted end date before start date")
	}
}
