package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/primecut-foods/butchery-api/internal/core"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrReferenced is returned when a delete is blocked because orders still
// reference the record. Deletes never cascade to orders.
var ErrReferenced = errors.New("record is referenced by existing orders")

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// Repository implements the core repository interfaces using GORM
type Repository struct {
	db                 *gorm.DB
	orderRepository    *orderRepository
	periodRepository   *periodRepository
	customerRepository *customerRepository
	employeeRepository *employeeRepository
	productRepository  *productRepository
	categoryRepository *categoryRepository
	unitRepository     *unitRepository
}

type orderRepository struct {
	*Repository
}

type periodRepository struct {
	*Repository
}

// NewRepository creates a new Postgres repository instance
func NewRepository(dbURL string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := &Repository{db: db}
	repo.orderRepository = &orderRepository{Repository: repo}
	repo.periodRepository = &periodRepository{Repository: repo}
	repo.customerRepository = &customerRepository{Repository: repo}
	repo.employeeRepository = &employeeRepository{Repository: repo}
	repo.productRepository = &productRepository{Repository: repo}
	repo.categoryRepository = &categoryRepository{Repository: repo}
	repo.unitRepository = &unitRepository{Repository: repo}
	return repo, nil
}

// OrderRepository returns the OrderRepository interface implementation
func (r *Repository) OrderRepository() core.OrderRepository {
	return r.orderRepository
}

// PeriodRepository returns the PeriodRepository interface implementation
func (r *Repository) PeriodRepository() core.PeriodRepository {
	return r.periodRepository
}

// CustomerRepository returns the CustomerRepository interface implementation
func (r *Repository) CustomerRepository() core.CustomerRepository {
	return r.customerRepository
}

// EmployeeRepository returns the EmployeeRepository interface implementation
func (r *Repository) EmployeeRepository() core.EmployeeRepository {
	return r.employeeRepository
}

// ProductRepository returns the ProductRepository interface implementation
func (r *Repository) ProductRepository() core.ProductRepository {
	return r.productRepository
}

// CategoryRepository returns the CategoryRepository interface implementation
func (r *Repository) CategoryRepository() core.CategoryRepository {
	return r.categoryRepository
}

// UnitRepository returns the UnitRepository interface implementation
func (r *Repository) UnitRepository() core.UnitRepository {
	return r.unitRepository
}

// AutoMigrate creates or updates the schema for every model.
func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&PeriodModel{},
		&CustomerModel{},
		&EmployeeModel{},
		&CategoryModel{},
		&UnitModel{},
		&ProductModel{},
		&OrderModel{},
		&OrderItemModel{},
	)
}

// OrderRepository implementation

// Create inserts an order with its items in a transaction
func (r *orderRepository) Create(ctx context.Context, order *core.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderModel := OrderModelFromDomain(order)
		if err := tx.Table("orders").Create(orderModel).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range order.Items {
			itemModel := OrderItemModelFromDomain(&order.Items[i])
			itemModel.OrderID = orderModel.ID
			if err := tx.Table("order_items").Create(itemModel).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		return nil
	})
}

// Update rewrites an order and replaces its items in a transaction
func (r *orderRepository) Update(ctx context.Context, order *core.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderModel := OrderModelFromDomain(order)
		result := tx.Table("orders").Where("id = ?", order.ID).Updates(orderModel.updateMap())
		if result.Error != nil {
			return fmt.Errorf("failed to update order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("order not found: %w", ErrNotFound)
		}

		if err := tx.Table("order_items").Where("order_id = ?", order.ID).Delete(&OrderItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear order items: %w", err)
		}

		for i := range order.Items {
			itemModel := OrderItemModelFromDomain(&order.Items[i])
			itemModel.OrderID = order.ID
			if err := tx.Table("order_items").Create(itemModel).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		return nil
	})
}

// Delete removes an order and its items
func (r *orderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("order_items").Where("order_id = ?", id).Delete(&OrderItemModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}

		result := tx.Table("orders").Where("id = ?", id).Delete(&OrderModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("order not found: %w", ErrNotFound)
		}
		return nil
	})
}

// fetchItems retrieves the items of one order
func (r *orderRepository) fetchItems(ctx context.Context, orderID string) ([]core.OrderItem, error) {
	var itemModels []OrderItemModel
	if err := r.db.WithContext(ctx).Table("order_items").
		Where("order_id = ?", orderID).
		Find(&itemModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}

	items := make([]core.OrderItem, len(itemModels))
	for i, im := range itemModels {
		items[i] = *im.ToDomain()
	}
	return items, nil
}

// GetByID retrieves an order by its ID with all items
func (r *orderRepository) GetByID(ctx context.Context, id string) (*core.Order, error) {
	var orderModel OrderModel
	if err := r.db.WithContext(ctx).Table("orders").Where("id = ?", id).First(&orderModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.fetchItems(ctx, id)
	if err != nil {
		return nil, err
	}

	order := orderModel.ToDomain()
	order.Items = items
	return order, nil
}

func (r *orderRepository) hydrate(ctx context.Context, orderModels []OrderModel) ([]*core.Order, error) {
	orders := make([]*core.Order, len(orderModels))
	for i, om := range orderModels {
		order := om.ToDomain()
		items, err := r.fetchItems(ctx, om.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
		orders[i] = order
	}
	return orders, nil
}

// GetByPeriod retrieves orders scoped to a period, newest first
func (r *orderRepository) GetByPeriod(ctx context.Context, periodID string, status string, limit int) ([]*core.Order, error) {
	query := r.db.WithContext(ctx).Table("orders").
		Where("period_id = ?", periodID).
		Order("created_at DESC")

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var orderModels []OrderModel
	if err := query.Find(&orderModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders by period: %w", err)
	}

	return r.hydrate(ctx, orderModels)
}

// GetByCustomer retrieves all orders for one customer across periods
func (r *orderRepository) GetByCustomer(ctx context.Context, customerID string) ([]*core.Order, error) {
	var orderModels []OrderModel
	if err := r.db.WithContext(ctx).Table("orders").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders by customer: %w", err)
	}

	return r.hydrate(ctx, orderModels)
}

// GetByDeliveryRange retrieves period-scoped orders due in a delivery window
func (r *orderRepository) GetByDeliveryRange(ctx context.Context, periodID string, from, to time.Time) ([]*core.Order, error) {
	var orderModels []OrderModel
	if err := r.db.WithContext(ctx).Table("orders").
		Where("period_id = ? AND delivery_date >= ? AND delivery_date < ?", periodID, from, to).
		Order("delivery_date ASC").
		Find(&orderModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders by delivery range: %w", err)
	}

	return r.hydrate(ctx, orderModels)
}

// CountByPeriod counts orders attached to a period
func (r *orderRepository) CountByPeriod(ctx context.Context, periodID string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("orders").
		Where("period_id = ?", periodID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders by period: %w", err)
	}
	return int(count), nil
}

// CountByCustomer counts orders attached to a customer
func (r *orderRepository) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("orders").
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders by customer: %w", err)
	}
	return int(count), nil
}

// StatsByPeriod aggregates order count and revenue for one period
func (r *orderRepository) StatsByPeriod(ctx context.Context, periodID string) (*core.PeriodStats, error) {
	type statsRow struct {
		OrderCount int
		Revenue    float64
	}

	var row statsRow
	if err := r.db.WithContext(ctx).Table("orders").
		Select("COUNT(*) as order_count, COALESCE(SUM(total), 0) as revenue").
		Where("period_id = ?", periodID).
		Scan(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to get period stats: %w", err)
	}

	return &core.PeriodStats{
		PeriodID:   periodID,
		OrderCount: row.OrderCount,
		Revenue:    row.Revenue,
	}, nil
}

// PeriodRepository implementation

// Create inserts a period
func (r *periodRepository) Create(ctx context.Context, period *core.Period) error {
	if err := r.db.WithContext(ctx).Table("periods").Create(PeriodModelFromDomain(period)).Error; err != nil {
		return fmt.Errorf("failed to create period: %w", err)
	}
	return nil
}

// Update rewrites a period's editable fields
func (r *periodRepository) Update(ctx context.Context, period *core.Period) error {
	result := r.db.WithContext(ctx).Table("periods").
		Where("id = ?", period.ID).
		Updates(map[string]interface{}{
			"name":        period.Name,
			"start_date":  period.StartDate,
			"end_date":    period.EndDate,
			"description": period.Description,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update period: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("period not found: %w", ErrNotFound)
	}
	return nil
}

// Delete removes a period. Blocked while orders reference it.
func (r *periodRepository) Delete(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Table("orders").
		Where("period_id = ?", id).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check period references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("period has %d orders: %w", count, ErrReferenced)
	}

	result := r.db.WithContext(ctx).Table("periods").Where("id = ?", id).Delete(&PeriodModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete period: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("period not found: %w", ErrNotFound)
	}
	return nil
}

// GetByID retrieves a period by its ID
func (r *periodRepository) GetByID(ctx context.Context, id string) (*core.Period, error) {
	var periodModel PeriodModel
	if err := r.db.WithContext(ctx).Table("periods").Where("id = ?", id).First(&periodModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("period not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get period: %w", err)
	}
	return periodModel.ToDomain(), nil
}

// GetAll retrieves all periods, newest start date first
func (r *periodRepository) GetAll(ctx context.Context) ([]*core.Period, error) {
	var periodModels []PeriodModel
	if err := r.db.WithContext(ctx).Table("periods").
		Order("start_date DESC").
		Find(&periodModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get periods: %w", err)
	}

	periods := make([]*core.Period, len(periodModels))
	for i := range periodModels {
		periods[i] = periodModels[i].ToDomain()
	}
	return periods, nil
}

// GetActive retrieves the single active period; nil when none is active
func (r *periodRepository) GetActive(ctx context.Context) (*core.Period, error) {
	var periodModel PeriodModel
	err := r.db.WithContext(ctx).Table("periods").
		Where("status = ?", string(core.PeriodStatusActive)).
		First(&periodModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // no active period is a legitimate state
		}
		return nil, fmt.Errorf("failed to get active period: %w", err)
	}
	return periodModel.ToDomain(), nil
}

// Activate marks one period active and all others inactive in a transaction
func (r *periodRepository) Activate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("periods").
			Where("id <> ?", id).
			Update("status", string(core.PeriodStatusInactive)).Error; err != nil {
			return fmt.Errorf("failed to deactivate periods: %w", err)
		}

		result := tx.Table("periods").
			Where("id = ?", id).
			Update("status", string(core.PeriodStatusActive))
		if result.Error != nil {
			return fmt.Errorf("failed to activate period: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("period not found: %w", ErrNotFound)
		}
		return nil
	})
}

// Database Models (with GORM tags)

// PeriodModel represents the periods table structure
type PeriodModel struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;type:varchar(255);not null;uniqueIndex"`
	Status      string    `gorm:"column:status;type:varchar(20);not null;default:'INACTIVE';index"`
	StartDate   time.Time `gorm:"column:start_date;type:timestamp;not null"`
	EndDate     time.Time `gorm:"column:end_date;type:timestamp;not null"`
	Description string    `gorm:"column:description;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

func (PeriodModel) TableName() string {
	return "periods"
}

// PeriodModelFromDomain creates PeriodModel from core.Period
func PeriodModelFromDomain(period *core.Period) *PeriodModel {
	return &PeriodModel{
		ID:          period.ID,
		Name:        period.Name,
		Status:      string(period.Status),
		StartDate:   period.StartDate,
		EndDate:     period.EndDate,
		Description: period.Description,
		CreatedAt:   period.CreatedAt,
	}
}

// ToDomain converts PeriodModel to core.Period
func (p *PeriodModel) ToDomain() *core.Period {
	return &core.Period{
		ID:          p.ID,
		Name:        p.Name,
		Status:      core.PeriodStatus(p.Status),
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

// OrderModel represents the orders table structure
type OrderModel struct {
	ID              string         `gorm:"column:id;type:uuid;primaryKey"`
	Code            string         `gorm:"column:code;type:varchar(50);not null;index"`
	CustomerID      string         `gorm:"column:customer_id;type:uuid;not null;index"`
	CustomerName    string         `gorm:"column:customer_name;type:varchar(255);not null"`
	CustomerAddress string         `gorm:"column:customer_address;type:varchar(500)"`
	CustomerPhone   string         `gorm:"column:customer_phone;type:varchar(30)"`
	EmployeeID      sql.NullString `gorm:"column:employee_id;type:uuid"`
	EmployeeName    string         `gorm:"column:employee_name;type:varchar(255)"`
	PeriodID        string         `gorm:"column:period_id;type:uuid;not null;index"`
	PeriodName      string         `gorm:"column:period_name;type:varchar(255);not null"`
	OrderDate       time.Time      `gorm:"column:order_date;type:timestamp;not null"`
	DeliveryDate    sql.NullTime   `gorm:"column:delivery_date;type:timestamp"`
	OrderDiscount   float64        `gorm:"column:order_discount;type:decimal(5,2);not null;default:0"`
	Subtotal        float64        `gorm:"column:subtotal;type:decimal(10,2);not null"`
	Total           float64        `gorm:"column:total;type:decimal(10,2);not null"`
	Ready           bool           `gorm:"column:ready;type:boolean;not null;default:false"`
	Pending         bool           `gorm:"column:pending;type:boolean;not null;default:false"`
	Delivered       bool           `gorm:"column:delivered;type:boolean;not null;default:false"`
	Status          string         `gorm:"column:status;type:varchar(20);not null;index"`
	Comments        string         `gorm:"column:comments;type:text"`
	PendingIssues   string         `gorm:"column:pending_issues;type:text"`
	CreatedAt       time.Time      `gorm:"column:created_at;type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderModelFromDomain creates OrderModel from core.Order
func OrderModelFromDomain(order *core.Order) *OrderModel {
	employeeID := sql.NullString{}
	if order.EmployeeID != "" {
		employeeID = sql.NullString{String: order.EmployeeID, Valid: true}
	}

	deliveryDate := sql.NullTime{}
	if !order.DeliveryDate.IsZero() {
		deliveryDate = sql.NullTime{Time: order.DeliveryDate, Valid: true}
	}

	return &OrderModel{
		ID:              order.ID,
		Code:            order.Code,
		CustomerID:      order.CustomerID,
		CustomerName:    order.CustomerName,
		CustomerAddress: order.CustomerAddress,
		CustomerPhone:   order.CustomerPhone,
		EmployeeID:      employeeID,
		EmployeeName:    order.EmployeeName,
		PeriodID:        order.PeriodID,
		PeriodName:      order.PeriodName,
		OrderDate:       order.OrderDate,
		DeliveryDate:    deliveryDate,
		OrderDiscount:   order.OrderDiscount,
		Subtotal:        order.Subtotal,
		Total:           order.Total,
		Ready:           order.Flags.Ready,
		Pending:         order.Flags.Pending,
		Delivered:       order.Flags.Delivered,
		Status:          order.Status,
		Comments:        order.Comments,
		PendingIssues:   order.PendingIssues,
		CreatedAt:       order.CreatedAt,
	}
}

// updateMap lists the columns rewritten on order update. CreatedAt and the
// period stamp are write-once; the period stamp only moves via backfill.
func (m *OrderModel) updateMap() map[string]interface{} {
	return map[string]interface{}{
		"code":             m.Code,
		"customer_id":      m.CustomerID,
		"customer_name":    m.CustomerName,
		"customer_address": m.CustomerAddress,
		"customer_phone":   m.CustomerPhone,
		"employee_id":      m.EmployeeID,
		"employee_name":    m.EmployeeName,
		"order_date":       m.OrderDate,
		"delivery_date":    m.DeliveryDate,
		"order_discount":   m.OrderDiscount,
		"subtotal":         m.Subtotal,
		"total":            m.Total,
		"ready":            m.Ready,
		"pending":          m.Pending,
		"delivered":        m.Delivered,
		"status":           m.Status,
		"comments":         m.Comments,
		"pending_issues":   m.PendingIssues,
		"updated_at":       gorm.Expr("CURRENT_TIMESTAMP"),
	}
}

// ToDomain converts OrderModel to core.Order
func (o *OrderModel) ToDomain() *core.Order {
	employeeID := ""
	if o.EmployeeID.Valid {
		employeeID = o.EmployeeID.String
	}

	deliveryDate := time.Time{}
	if o.DeliveryDate.Valid {
		deliveryDate = o.DeliveryDate.Time
	}

	return &core.Order{
		ID:              o.ID,
		Code:            o.Code,
		CustomerID:      o.CustomerID,
		CustomerName:    o.CustomerName,
		CustomerAddress: o.CustomerAddress,
		CustomerPhone:   o.CustomerPhone,
		EmployeeID:      employeeID,
		EmployeeName:    o.EmployeeName,
		PeriodID:        o.PeriodID,
		PeriodName:      o.PeriodName,
		OrderDate:       o.OrderDate,
		DeliveryDate:    deliveryDate,
		OrderDiscount:   o.OrderDiscount,
		Subtotal:        o.Subtotal,
		Total:           o.Total,
		Flags: core.OrderFlags{
			Ready:     o.Ready,
			Pending:   o.Pending,
			Delivered: o.Delivered,
		},
		Status:        o.Status,
		Comments:      o.Comments,
		PendingIssues: o.PendingIssues,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Items:         []core.OrderItem{}, // populated separately
	}
}

// OrderItemModel represents the order_items table structure
type OrderItemModel struct {
	ID           string         `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      string         `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID    sql.NullString `gorm:"column:product_id;type:uuid"`
	ProductName  string         `gorm:"column:product_name;type:varchar(255);not null"`
	Quantity     float64        `gorm:"column:quantity;type:decimal(10,3);not null"`
	Unit         string         `gorm:"column:unit;type:varchar(50)"`
	UnitPrice    float64        `gorm:"column:unit_price;type:decimal(10,2);not null"`
	Discount     float64        `gorm:"column:discount;type:decimal(5,2);not null;default:0"`
	Total        float64        `gorm:"column:total;type:decimal(10,2);not null"`
	Instructions string         `gorm:"column:instructions;type:text"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// OrderItemModelFromDomain creates OrderItemModel from core.OrderItem
func OrderItemModelFromDomain(item *core.OrderItem) *OrderItemModel {
	productID := sql.NullString{}
	if item.ProductID != "" {
		productID = sql.NullString{String: item.ProductID, Valid: true}
	}

	return &OrderItemModel{
		ID:           item.ID,
		OrderID:      item.OrderID,
		ProductID:    productID,
		ProductName:  item.ProductName,
		Quantity:     item.Quantity,
		Unit:         item.Unit,
		UnitPrice:    item.UnitPrice,
		Discount:     item.Discount,
		Total:        item.Total,
		Instructions: item.Instructions,
	}
}

// ToDomain converts OrderItemModel to core.OrderItem
func (oi *OrderItemModel) ToDomain() *core.OrderItem {
	productID := ""
	if oi.ProductID.Valid {
		productID = oi.ProductID.String
	}

	return &core.OrderItem{
		ID:           oi.ID,
		OrderID:      oi.OrderID,
		ProductID:    productID,
		ProductName:  oi.ProductName,
		Quantity:     oi.Quantity,
		Unit:         oi.Unit,
		UnitPrice:    oi.UnitPrice,
		Discount:     oi.Discount,
		Total:        oi.Total,
		Instructions: oi.Instructions,
	}
}
