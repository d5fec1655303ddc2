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

// ErrNoActivePeriod is returned when an order mutation needs a period
// scope and none is active.
var ErrNoActivePeriod = fmt.Errorf("no active period")

// OrderDraft is the raw input for creating or updating an order. Derived
// fields (totals, status) are ignored on input and always recomputed.
type OrderDraft struct {
	Code          string           `json:"code"`
	CustomerID    string           `json:"customer_id"`
	EmployeeID    string           `json:"employee_id"`
	OrderDate     time.Time        `json:"order_date"`
	DeliveryDate  time.Time        `json:"delivery_date"`
	Items         []OrderItemDraft `json:"items"`
	OrderDiscount float64          `json:"order_discount"`
	Flags         core.OrderFlags  `json:"flags"`
	Comments      string           `json:"comments"`
	PendingIssues string           `json:"pending_issues"`
}

// OrderItemDraft is one raw order line
type OrderItemDraft struct {
	ProductID    string  `json:"product_id"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	Discount     float64 `json:"discount"`
	Instructions string  `json:"instructions"`
}

// OrderService assembles, prices and persists orders. Every mutation is
// stamped with the explicitly resolved active period; every list is scoped
// by period id.
type OrderService struct {
	orderRepo    core.OrderRepository
	customerRepo core.CustomerRepository
	employeeRepo core.EmployeeRepository
	productRepo  core.ProductRepository
	unitRepo     core.UnitRepository
	periods      *PeriodService
	mailGateway  core.MailGateway
	eventBus     *events.EventBus
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo core.OrderRepository,
	customerRepo core.CustomerRepository,
	employeeRepo core.EmployeeRepository,
	productRepo core.ProductRepository,
	unitRepo core.UnitRepository,
	periods *PeriodService,
	mailGateway core.MailGateway,
	eventBus *events.EventBus,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		employeeRepo: employeeRepo,
		productRepo:  productRepo,
		unitRepo:     unitRepo,
		periods:      periods,
		mailGateway:  mailGateway,
		eventBus:     eventBus,
	}
}

// assemble builds a full order from a draft: denormalized snapshots,
// sanitized pricing, derived status. Pricing never fails; lookups and
// validation can.
func (s *OrderService) assemble(ctx context.Context, draft *OrderDraft) (*core.Order, error) {
	order := &core.Order{
		Code:          draft.Code,
		CustomerID:    draft.CustomerID,
		EmployeeID:    draft.EmployeeID,
		OrderDate:     draft.OrderDate,
		DeliveryDate:  draft.DeliveryDate,
		OrderDiscount: core.SanitizeNumeric(draft.OrderDiscount, 0, core.NonNegative),
		Comments:      draft.Comments,
		PendingIssues: draft.PendingIssues,
	}

	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now()
	}

	// Snapshot customer display fields at save time
	if draft.CustomerID != "" {
		customer, err := s.customerRepo.GetByID(ctx, draft.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve customer: %w", err)
		}
		order.CustomerName = customer.FirstName + " " + customer.LastName
		order.CustomerAddress = customer.Address
		order.CustomerPhone = customer.Mobile
	}

	if draft.EmployeeID != "" {
		employee, err := s.employeeRepo.GetByID(ctx, draft.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve employee: %w", err)
		}
		order.EmployeeName = employee.FirstName + " " + employee.LastName
	}

	order.Items = make([]core.OrderItem, 0, len(draft.Items))
	for _, line := range draft.Items {
		item := core.OrderItem{
			ID:           uuid.New().String(),
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			Discount:     line.Discount,
			Instructions: line.Instructions,
		}

		if line.ProductID != "" {
			product, err := s.productRepo.GetByID(ctx, line.ProductID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve product: %w", err)
			}
			item.ProductName = product.Name
			if unit, err := s.unitRepo.GetByID(ctx, product.UnitID); err == nil {
				item.Unit = unit.Name
			}
		}

		order.Items = append(order.Items, item)
	}

	core.Reprice(order)

	// Apply flags through the setters so transition side effects hold
	order.SetReady(draft.Flags.Ready)
	order.SetPending(draft.Flags.Pending)
	if draft.Flags.Pending {
		order.PendingIssues = draft.PendingIssues
	}
	order.SetDelivered(draft.Flags.Delivered)

	return order, nil
}

// Create assembles, validates and persists a new order stamped with the
// active period. The repository is never touched when validation fails.
func (s *OrderService) Create(ctx context.Context, draft *OrderDraft) (*core.Order, error) {
	period, err := s.periods.Active(ctx)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, ErrNoActivePeriod
	}

	order, err := s.assemble(ctx, draft)
	if err != nil {
		return nil, err
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	order.ID = uuid.New().String()
	order.PeriodID = period.ID
	order.PeriodName = period.Name
	order.CreatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		s.eventBus.PublishOrderCreated(order)
	}

	return order, nil
}

// Update reassembles an existing order from a draft. The period stamp is
// kept from the stored order: which period an order belongs to is fixed at
// creation, not by when it is edited.
func (s *OrderService) Update(ctx context.Context, id string, draft *OrderDraft) (*core.Order, error) {
	existing, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	order, err := s.assemble(ctx, draft)
	if err != nil {
		return nil, err
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	order.ID = existing.ID
	order.PeriodID = existing.PeriodID
	order.PeriodName = existing.PeriodName
	order.CreatedAt = existing.CreatedAt
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.notifyStatusChange(ctx, existing, order)

	return order, nil
}

// Delete removes an order
func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.orderRepo.Delete(ctx, id)
}

// Get retrieves one order
func (s *OrderService) Get(ctx context.Context, id string) (*core.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// ListActive lists orders scoped to the active period. With no active
// period the result is empty, not an error.
func (s *OrderService) ListActive(ctx context.Context, status string, limit int) ([]*core.Order, error) {
	period, err := s.periods.Active(ctx)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return []*core.Order{}, nil
	}
	return s.orderRepo.GetByPeriod(ctx, period.ID, status, limit)
}

// ListByPeriod lists orders scoped to an explicit period
func (s *OrderService) ListByPeriod(ctx context.Context, periodID string, status string, limit int) ([]*core.Order, error) {
	return s.orderRepo.GetByPeriod(ctx, periodID, status, limit)
}

// ListByCustomer lists a customer's orders across all periods
func (s *OrderService) ListByCustomer(ctx context.Context, customerID string) ([]*core.Order, error) {
	return s.orderRepo.GetByCustomer(ctx, customerID)
}

// DeliveriesDue lists active-period orders due for delivery in a window
func (s *OrderService) DeliveriesDue(ctx context.Context, from, to time.Time) ([]*core.Order, error) {
	period, err := s.periods.Active(ctx)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return []*core.Order{}, nil
	}
	return s.orderRepo.GetByDeliveryRange(ctx, period.ID, from, to)
}

// SetFlags applies workflow flag changes to a stored order, enforcing the
// transition side effects, and persists the result. The pending-issue gate
// applies here as on any other commit.
func (s *OrderService) SetFlags(ctx context.Context, id string, flags core.OrderFlags, pendingIssues string) (*core.Order, error) {
	existing, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	order := *existing
	order.SetReady(flags.Ready)
	order.SetPending(flags.Pending)
	if flags.Pending {
		order.PendingIssues = pendingIssues
	}
	order.SetDelivered(flags.Delivered)

	if err := order.Validate(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Update(ctx, &order); err != nil {
		return nil, err
	}

	s.notifyStatusChange(ctx, existing, &order)

	return &order, nil
}

// notifyStatusChange publishes a status event and, on transition to
// Delivered, sends the customer confirmation. Mail failure is logged and
// never blocks the mutation.
func (s *OrderService) notifyStatusChange(ctx context.Context, before, after *core.Order) {
	if before.Status == after.Status {
		return
	}

	if s.eventBus != nil {
		s.eventBus.PublishOrderStatusChanged(after.ID, after.Status)
	}

	if after.Status != core.StatusDelivered || s.mailGateway == nil {
		return
	}

	customer, err := s.customerRepo.GetByID(ctx, after.CustomerID)
	if err != nil || customer.Email == "" {
		return
	}
	if err := s.mailGateway.SendOrderConfirmation(ctx, after, customer.Email); err != nil {
		log.Printf("failed to send order confirmation for %s: %v", after.Code, err)
	}
}

// NextCode proposes the next order business code
func (s *OrderService) NextCode(ctx context.Context) (string, error) {
	period, err := s.periods.Active(ctx)
	if err != nil {
		return "", err
	}
	if period == nil {
		return core.NextCode(nil, core.CodePrefixOrder), nil
	}

	orders, err := s.orderRepo.GetByPeriod(ctx, period.ID, "", 0)
	if err != nil {
		return "", err
	}

	codes := make([]string, len(orders))
	for i, order := range orders {
		codes[i] = order.Code
	}
	return core.NextCode(codes, core.CodePrefixOrder), nil
}
