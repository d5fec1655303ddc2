package core

import (
	"context"
	"time"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Order, error)
	// GetByPeriod returns orders scoped to one period, newest first.
	// An empty status filter matches all statuses.
	GetByPeriod(ctx context.Context, periodID string, status string, limit int) ([]*Order, error)
	GetByCustomer(ctx context.Context, customerID string) ([]*Order, error)
	GetByDeliveryRange(ctx context.Context, periodID string, from, to time.Time) ([]*Order, error)
	CountByPeriod(ctx context.Context, periodID string) (int, error)
	CountByCustomer(ctx context.Context, customerID string) (int, error)
	StatsByPeriod(ctx context.Context, periodID string) (*PeriodStats, error)
}

// PeriodRepository defines the interface for period data access
type PeriodRepository interface {
	Create(ctx context.Context, period *Period) error
	Update(ctx context.Context, period *Period) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Period, error)
	GetAll(ctx context.Context) ([]*Period, error)
	// GetActive returns the single active period, or nil when none is active.
	GetActive(ctx context.Context) (*Period, error)
	// Activate marks one period active and every other inactive, atomically.
	Activate(ctx context.Context, id string) error
}

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	GetAll(ctx context.Context) ([]*Customer, error)
	Codes(ctx context.Context) ([]string, error)
}

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	Create(ctx context.Context, employee *Employee) error
	Update(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Employee, error)
	GetByUsername(ctx context.Context, username string) (*Employee, error)
	GetAll(ctx context.Context) ([]*Employee, error)
	Codes(ctx context.Context) ([]string, error)
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetAll(ctx context.Context) ([]*Product, error)
	GetByCategory(ctx context.Context, categoryID string) ([]*Product, error)
	Codes(ctx context.Context) ([]string, error)
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Category, error)
	GetAll(ctx context.Context) ([]*Category, error)
	Codes(ctx context.Context) ([]string, error)
}

// UnitRepository defines the interface for unit-of-measure data access
type UnitRepository interface {
	Create(ctx context.Context, unit *Unit) error
	Update(ctx context.Context, unit *Unit) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Unit, error)
	GetAll(ctx context.Context) ([]*Unit, error)
	Codes(ctx context.Context) ([]string, error)
}

// PeriodCache caches the active-period snapshot as a JSON blob under a
// fixed key. A cache miss is not an error; callers fall back to the
// repository.
type PeriodCache interface {
	GetActive(ctx context.Context) (*Period, error)
	SetActive(ctx context.Context, period *Period) error
	Invalidate(ctx context.Context) error
}

// MailGateway defines the interface for outbound customer notifications.
// Implementations consume already-computed order totals and never
// recompute pricing.
type MailGateway interface {
	SendOrderConfirmation(ctx context.Context, order *Order, email string) error
}
