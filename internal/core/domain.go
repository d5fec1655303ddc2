package core

import "time"

// Period represents a named operating season (e.g., "Easter 2025") used to
// bucket orders and statistics. At most one period is Active at a time.
type Period struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Status      PeriodStatus `json:"status"`
	StartDate   time.Time    `json:"start_date"`
	EndDate     time.Time    `json:"end_date"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"created_at"`
}

// PeriodStatus represents the activation state of a period
type PeriodStatus string

const (
	PeriodStatusActive   PeriodStatus = "ACTIVE"
	PeriodStatusInactive PeriodStatus = "INACTIVE"
)

// PeriodPlaceholderName is shown when no period is active.
const PeriodPlaceholderName = "Select Period"

// PeriodStats holds per-period order aggregates for the dashboard
type PeriodStats struct {
	PeriodID   string  `json:"period_id"`
	PeriodName string  `json:"period_name"`
	OrderCount int     `json:"order_count"`
	Revenue    float64 `json:"revenue"`
}

// Order represents a customer order. Customer, employee and period display
// fields are denormalized snapshots captured at save time; later edits to
// the source records do not rewrite historical orders. PeriodID is the
// stable scope reference, PeriodName is display-only.
type Order struct {
	ID              string      `json:"id"`
	Code            string      `json:"code"` // user-supplied business code, e.g. ORD_017
	CustomerID      string      `json:"customer_id"`
	CustomerName    string      `json:"customer_name"`    // Denormalized at save time
	CustomerAddress string      `json:"customer_address"` // Denormalized at save time
	CustomerPhone   string      `json:"customer_phone"`   // Denormalized at save time
	EmployeeID      string      `json:"employee_id"`
	EmployeeName    string      `json:"employee_name"` // Denormalized at save time
	PeriodID        string      `json:"period_id"`
	PeriodName      string      `json:"period_name"` // Denormalized at save time
	OrderDate       time.Time   `json:"order_date"`
	DeliveryDate    time.Time   `json:"delivery_date"`
	Items           []OrderItem `json:"items"`
	OrderDiscount   float64     `json:"order_discount"` // percent
	Subtotal        float64     `json:"subtotal"`
	Total           float64     `json:"total"`
	Flags           OrderFlags  `json:"flags"`
	Status          string      `json:"status"` // derived from Flags, never set directly
	Comments        string      `json:"comments"`
	PendingIssues   string      `json:"pending_issues"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem represents a single line in an order
type OrderItem struct {
	ID           string  `json:"id"`
	OrderID      string  `json:"order_id"`
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"` // Denormalized at save time
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	UnitPrice    float64 `json:"unit_price"`
	Discount     float64 `json:"discount"` // percent
	Total        float64 `json:"total"`
	Instructions string  `json:"instructions"`
}

// Customer represents a shop customer
type Customer struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"` // CUST_NNN
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Address   string    `json:"address"`
	Mobile    string    `json:"mobile"`
	Email     string    `json:"email"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// Employee represents a staff member who can take orders and log in
type Employee struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"` // EMP_NNN
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Mobile       string    `json:"mobile"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// Product represents a sellable item (cut, preparation, etc.)
type Product struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"` // PRD_NNN
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CategoryID  string    `json:"category_id"`
	UnitID      string    `json:"unit_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category groups products (e.g. Beef, Pork, Poultry)
type Category struct {
	ID          string `json:"id"`
	Code        string `json:"code"` // CATEG_NNN
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Unit is a unit of measure for order lines (e.g. kg, piece)
type Unit struct {
	ID   string `json:"id"`
	Code string `json:"code"` // UNIT_NNN
	Name string `json:"name"`
}

// Business code prefixes for generated entity codes
const (
	CodePrefixCustomer = "CUST_"
	CodePrefixEmployee = "EMP_"
	CodePrefixProduct  = "PRD_"
	CodePrefixCategory = "CATEG_"
	CodePrefixUnit     = "UNIT_"
	CodePrefixOrder    = "ORD_"
)
