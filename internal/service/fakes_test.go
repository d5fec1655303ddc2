package service_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/primecut-foods/butchery-api/internal/core"
)

// In-memory fakes backing the service tests. They mirror the persistence
// contracts, including nil-on-no-active-period and mutation counting so
// tests can assert a failed commit never touched storage.

type fakePeriodRepo struct {
	periods map[string]*core.Period
}

func newFakePeriodRepo() *fakePeriodRepo {
	return &fakePeriodRepo{periods: make(map[string]*core.Period)}
}

func (r *fakePeriodRepo) Create(_ context.Context, period *core.Period) error {
	clone := *period
	r.periods[period.ID] = &clone
	return nil
}

func (r *fakePeriodRepo) Update(_ context.Context, period *core.Period) error {
	if _, ok := r.periods[period.ID]; !ok {
		return fmt.Errorf("period not found")
	}
	clone := *period
	r.periods[period.ID] = &clone
	return nil
}

func (r *fakePeriodRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.periods[id]; !ok {
		return fmt.Errorf("period not found")
	}
	delete(r.periods, id)
	return nil
}

func (r *fakePeriodRepo) GetByID(_ context.Context, id string) (*core.Period, error) {
	period, ok := r.periods[id]
	if !ok {
		return nil, fmt.Errorf("period not found")
	}
	clone := *period
	return &clone, nil
}

func (r *fakePeriodRepo) GetAll(_ context.Context) ([]*core.Period, error) {
	out := make([]*core.Period, 0, len(r.periods))
	for _, period := range r.periods {
		clone := *period
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakePeriodRepo) GetActive(_ context.Context) (*core.Period, error) {
	for _, period := range r.periods {
		if period.Status == core.PeriodStatusActive {
			clone := *period
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakePeriodRepo) Activate(_ context.Context, id string) error {
	if _, ok := r.periods[id]; !ok {
		return fmt.Errorf("period not found")
	}
	for _, period := range r.periods {
		if period.ID == id {
			period.Status = core.PeriodStatusActive
		} else {
			period.Status = core.PeriodStatusInactive
		}
	}
	return nil
}

type fakeOrderRepo struct {
	orders  map[string]*core.Order
	creates int
	updates int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*core.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *core.Order) error {
	r.creates++
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, order *core.Order) error {
	r.updates++
	if _, ok := r.orders[order.ID]; !ok {
		return fmt.Errorf("order not found")
	}
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("order not found")
	}
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*core.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order not found")
	}
	clone := *order
	return &clone, nil
}

func (r *fakeOrderRepo) GetByPeriod(_ context.Context, periodID string, status string, limit int) ([]*core.Order, error) {
	out := make([]*core.Order, 0)
	for _, order := range r.orders {
		if order.PeriodID != periodID {
			continue
		}
		if status != "" && order.Status != status {
			continue
		}
		clone := *order
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByCustomer(_ context.Context, customerID string) ([]*core.Order, error) {
	out := make([]*core.Order, 0)
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			clone := *order
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByDeliveryRange(_ context.Context, periodID string, from, to time.Time) ([]*core.Order, error) {
	out := make([]*core.Order, 0)
	for _, order := range r.orders {
		if order.PeriodID != periodID {
			continue
		}
		if order.DeliveryDate.Before(from) || order.DeliveryDate.After(to) {
			continue
		}
		clone := *order
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeOrderRepo) CountByPeriod(_ context.Context, periodID string) (int, error) {
	count := 0
	for _, order := range r.orders {
		if order.PeriodID == periodID {
			count++
		}
	}
	return count, nil
}

func (r *fakeOrderRepo) CountByCustomer(_ context.Context, customerID string) (int, error) {
	count := 0
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeOrderRepo) StatsByPeriod(_ context.Context, periodID string) (*core.PeriodStats, error) {
	stats := &core.PeriodStats{PeriodID: periodID}
	for _, order := range r.orders {
		if order.PeriodID == periodID {
			stats.OrderCount++
			stats.Revenue += order.Total
		}
	}
	return stats, nil
}

type fakeCustomerRepo struct {
	customers map[string]*core.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*core.Customer)}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *core.Customer) error {
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *core.Customer) error {
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id string) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*core.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer not found")
	}
	clone := *customer
	return &clone, nil
}

func (r *fakeCustomerRepo) GetAll(_ context.Context) ([]*core.Customer, error) {
	out := make([]*core.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		clone := *customer
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeCustomerRepo) Codes(_ context.Context) ([]string, error) {
	codes := make([]string, 0, len(r.customers))
	for _, customer := range r.customers {
		codes = append(codes, customer.Code)
	}
	return codes, nil
}

type fakeEmployeeRepo struct {
	employees map[string]*core.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]*core.Employee)}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, employee *core.Employee) error {
	clone := *employee
	r.employees[employee.ID] = &clone
	return nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, employee *core.Employee) error {
	clone := *employee
	r.employees[employee.ID] = &clone
	return nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id string) error {
	delete(r.employees, id)
	return nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*core.Employee, error) {
	employee, ok := r.employees[id]
	if !ok {
		return nil, fmt.Errorf("employee not found")
	}
	clone := *employee
	return &clone, nil
}

func (r *fakeEmployeeRepo) GetByUsername(_ context.Context, username string) (*core.Employee, error) {
	for _, employee := range r.employees {
		if employee.Username == username {
			clone := *employee
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("employee not found")
}

func (r *fakeEmployeeRepo) GetAll(_ context.Context) ([]*core.Employee, error) {
	out := make([]*core.Employee, 0, len(r.employees))
	for _, employee := range r.employees {
		clone := *employee
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeEmployeeRepo) Codes(_ context.Context) ([]string, error) {
	codes := make([]string, 0, len(r.employees))
	for _, employee := range r.employees {
		codes = append(codes, employee.Code)
	}
	return codes, nil
}

type fakeProductRepo struct {
	products map[string]*core.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*core.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, product *core.Product) error {
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *core.Product) error {
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*core.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product not found")
	}
	clone := *product
	return &clone, nil
}

func (r *fakeProductRepo) GetAll(_ context.Context) ([]*core.Product, error) {
	out := make([]*core.Product, 0, len(r.products))
	for _, product := range r.products {
		clone := *product
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeProductRepo) GetByCategory(_ context.Context, categoryID string) ([]*core.Product, error) {
	out := make([]*core.Product, 0)
	for _, product := range r.products {
		if product.CategoryID == categoryID && product.IsActive {
			clone := *product
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Codes(_ context.Context) ([]string, error) {
	codes := make([]string, 0, len(r.products))
	for _, product := range r.products {
		codes = append(codes, product.Code)
	}
	return codes, nil
}

type fakeUnitRepo struct {
	units map[string]*core.Unit
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{units: make(map[string]*core.Unit)}
}

func (r *fakeUnitRepo) Create(_ context.Context, unit *core.Unit) error {
	clone := *unit
	r.units[unit.ID] = &clone
	return nil
}

func (r *fakeUnitRepo) Update(_ context.Context, unit *core.Unit) error {
	clone := *unit
	r.units[unit.ID] = &clone
	return nil
}

func (r *fakeUnitRepo) Delete(_ context.Context, id string) error {
	delete(r.units, id)
	return nil
}

func (r *fakeUnitRepo) GetByID(_ context.Context, id string) (*core.Unit, error) {
	unit, ok := r.units[id]
	if !ok {
		return nil, fmt.Errorf("unit not found")
	}
	clone := *unit
	return &clone, nil
}

func (r *fakeUnitRepo) GetAll(_ context.Context) ([]*core.Unit, error) {
	out := make([]*core.Unit, 0, len(r.units))
	for _, unit := range r.units {
		clone := *unit
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeUnitRepo) Codes(_ context.Context) ([]string, error) {
	codes := make([]string, 0, len(r.units))
	for _, unit := range r.units {
		codes = append(codes, unit.Code)
	}
	return codes, nil
}

type fakePeriodCache struct {
	period *core.Period
	sets   int
}

func (c *fakePeriodCache) GetActive(_ context.Context) (*core.Period, error) {
	if c.period == nil {
		return nil, fmt.Errorf("cache miss")
	}
	clone := *c.period
	return &clone, nil
}

func (c *fakePeriodCache) SetActive(_ context.Context, period *core.Period) error {
	c.sets++
	clone := *period
	c.period = &clone
	return nil
}

func (c *fakePeriodCache) Invalidate(_ context.Context) error {
	c.period = nil
	return nil
}

type fakeMailGateway struct {
	sent []string
}

func (g *fakeMailGateway) SendOrderConfirmation(_ context.Context, order *core.Order, email string) error {
	g.sent = append(g.sent, order.ID+":"+email)
	return nil
}
