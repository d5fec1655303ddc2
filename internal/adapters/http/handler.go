package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/primecut-foods/butchery-api/internal/adapters/postgres"
	"github.com/primecut-foods/butchery-api/internal/core"
	"github.com/primecut-foods/butchery-api/internal/service"
)

// Handler handles the back-office HTTP API: auth, catalog CRUD, periods
// and orders.
type Handler struct {
	authService    *service.AuthService
	catalogService *service.CatalogService
	periodService  *service.PeriodService
	orderService   *service.OrderService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	authService *service.AuthService,
	catalogService *service.CatalogService,
	periodService *service.PeriodService,
	orderService *service.OrderService,
) *Handler {
	return &Handler{
		authService:    authService,
		catalogService: catalogService,
		periodService:  periodService,
		orderService:   orderService,
	}
}

// fail maps domain errors to HTTP responses. Validation and reference
// violations are client errors; everything else is a 500.
func fail(c *fiber.Ctx, err error) error {
	var fe core.FieldErrors
	switch {
	case errors.As(err, &fe):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": fe,
		})
	case errors.Is(err, postgres.ErrReferenced):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, postgres.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrNoActivePeriod):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}

// Login handles credential login
// POST /api/auth/login
func (h *Handler) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	token, err := h.authService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Set JWT token in HTTP-only cookie
	c.Cookie(&fiber.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  time.Now().Add(12 * time.Hour),
		HTTPOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"message": "login successful",
		"token":   token,
	})
}

// Logout handles user logout
// POST /api/auth/logout
func (h *Handler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "auth_token",
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{
		"message": "logged out successfully",
	})
}

// GetMe returns the authenticated account from the token claims
// GET /api/auth/me
func (h *Handler) GetMe(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user_id":  c.Locals("user_id"),
		"username": c.Locals("username"),
		"name":     c.Locals("name"),
		"role":     c.Locals("role"),
	})
}

// GetCustomers retrieves all customers
// GET /api/customers
func (h *Handler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.catalogService.ListCustomers(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customers)
}

// GetCustomer retrieves one customer
// GET /api/customers/:id
func (h *Handler) GetCustomer(c *fiber.Ctx) error {
	customer, err := h.catalogService.GetCustomer(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customer)
}

// NextCustomerCode proposes the next customer code
// GET /api/customers/next-code
func (h *Handler) NextCustomerCode(c *fiber.Ctx) error {
	code, err := h.catalogService.NextCustomerCode(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"code": code})
}

// CreateCustomer creates a customer
// POST /api/customers
func (h *Handler) CreateCustomer(c *fiber.Ctx) error {
	var customer core.Customer
	if err := c.BodyParser(&customer); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	created, err := h.catalogService.CreateCustomer(c.Context(), &customer)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateCustomer updates a customer
// PUT /api/customers/:id
func (h *Handler) UpdateCustomer(c *fiber.Ctx) error {
	var customer core.Customer
	if err := c.BodyParser(&customer); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	customer.ID = c.Params("id")

	if err := h.catalogService.UpdateCustomer(c.Context(), &customer); err != nil {
		return fail(c, err)
	}
	return c.JSON(customer)
}

// DeleteCustomer deletes a customer
// DELETE /api/customers/:id
func (h *Handler) DeleteCustomer(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteCustomer(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "customer deleted"})
}

// GetEmployees retrieves all employees
// GET /api/employees
func (h *Handler) GetEmployees(c *fiber.Ctx) error {
	employees, err := h.catalogService.ListEmployees(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(employees)
}

// NextEmployeeCode proposes the next employee code
// GET /api/employees/next-code
func (h *Handler) NextEmployeeCode(c *fiber.Ctx) error {
	code, err := h.catalogService.NextEmployeeCode(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"code": code})
}

type employeeRequest struct {
	core.Employee
	Password string `json:"password"`
}

// CreateEmployee creates an employee
// POST /api/employees
func (h *Handler) CreateEmployee(c *fiber.Ctx) error {
	var req employeeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	created, err := h.catalogService.CreateEmployee(c.Context(), &req.Employee, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateEmployee updates an employee
// PUT /api/employees/:id
func (h *Handler) UpdateEmployee(c *fiber.Ctx) error {
	var req employeeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	req.Employee.ID = c.Params("id")

	if err := h.catalogService.UpdateEmployee(c.Context(), &req.Employee, req.Password); err != nil {
		return fail(c, err)
	}
	return c.JSON(req.Employee)
}

// DeleteEmployee deletes an employee
// DELETE /api/employees/:id
func (h *Handler) DeleteEmployee(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteEmployee(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "employee deleted"})
}

// GetProducts retrieves products, optionally filtered by category
// GET /api/products?category_id=...
func (h *Handler) GetProducts(c *fiber.Ctx) error {
	categoryID := c.Query("category_id", "")

	var (
		products []*core.Product
		err      error
	)
	if categoryID != "" {
		products, err = h.catalogService.ListProductsByCategory(c.Context(), categoryID)
	} else {
		products, err = h.catalogService.ListProducts(c.Context())
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

// NextProductCode proposes the next product code
// GET /api/products/next-code
func (h *Handler) NextProductCode(c *fiber.Ctx) error {
	code, err := h.catalogService.NextProductCode(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"code": code})
}

// CreateProduct creates a product
// POST /api/products
func (h *Handler) CreateProduct(c *fiber.Ctx) error {
	var product core.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	created, err := h.catalogService.CreateProduct(c.Context(), &product)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateProduct updates a product
// PUT /api/products/:id
func (h *Handler) UpdateProduct(c *fiber.Ctx) error {
	var product core.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	product.ID = c.Params("id")

	if err := h.catalogService.UpdateProduct(c.Context(), &product); err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// DeleteProduct deletes a product
// DELETE /api/products/:id
func (h *Handler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteProduct(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "product deleted"})
}

// GetCategories retrieves all categories
// GET /api/categories
func (h *Handler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.catalogService.ListCategories(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(categories)
}

// CreateCategory creates a category
// POST /api/categories
func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	var category core.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	created, err := h.catalogService.CreateCategory(c.Context(), &category)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateCategory updates a category
// PUT /api/categories/:id
func (h *Handler) UpdateCategory(c *fiber.Ctx) error {
	var category core.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	category.ID = c.Params("id")

	if err := h.catalogService.UpdateCategory(c.Context(), &category); err != nil {
		return fail(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory deletes a category
// DELETE /api/categories/:id
func (h *Handler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteCategory(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "category deleted"})
}

// GetUnits retrieves all units
// GET /api/units
func (h *Handler) GetUnits(c *fiber.Ctx) error {
	units, err := h.catalogService.ListUnits(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(units)
}

// CreateUnit creates a unit
// POST /api/units
func (h *Handler) CreateUnit(c *fiber.Ctx) error {
	var unit core.Unit
	if err := c.BodyParser(&unit); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	created, err := h.catalogService.CreateUnit(c.Context(), &unit)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateUnit updates a unit
// PUT /api/units/:id
func (h *Handler) UpdateUnit(c *fiber.Ctx) error {
	var unit core.Unit
	if err := c.BodyParser(&unit); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	unit.ID = c.Params("id")

	if err := h.catalogService.UpdateUnit(c.Context(), &unit); err != nil {
		return fail(c, err)
	}
	return c.JSON(unit)
}

// DeleteUnit deletes a unit
// DELETE /api/units/:id
func (h *Handler) DeleteUnit(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteUnit(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "unit deleted"})
}

// GetPeriods retrieves all periods
// GET /api/periods
func (h *Handler) GetPeriods(c *fiber.Ctx) error {
	periods, err := h.periodService.List(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(periods)
}

// GetActivePeriod retrieves the active period, or the placeholder marker
// GET /api/periods/active
func (h *Handler) GetActivePeriod(c *fiber.Ctx) error {
	period, err := h.periodService.Active(c.Context())
	if err != nil {
		return fail(c, err)
	}
	if period == nil {
		return c.JSON(fiber.Map{
			"active": false,
			"name":   core.PeriodPlaceholderName,
		})
	}
	return c.JSON(fiber.Map{
		"active": true,
		"period": period,
	})
}

// CreatePeriod creates a period
// POST /api/periods
func (h *Handler) CreatePeriod(c *fiber.Ctx) error {
	var period core.Period
	if err := c.BodyParser(&period); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	created, err := h.periodService.Create(c.Context(), &period)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdatePeriod updates a period
// PUT /api/periods/:id
func (h *Handler) UpdatePeriod(c *fiber.Ctx) error {
	var period core.Period
	if err := c.BodyParser(&period); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	period.ID = c.Params("id")

	if err := h.periodService.Update(c.Context(), &period); err != nil {
		return fail(c, err)
	}
	return c.JSON(period)
}

// DeletePeriod deletes a period
// DELETE /api/periods/:id
func (h *Handler) DeletePeriod(c *fiber.Ctx) error {
	if err := h.periodService.Delete(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "period deleted"})
}

// ActivatePeriod marks one period active and all others inactive
// POST /api/periods/:id/activate
func (h *Handler) ActivatePeriod(c *fiber.Ctx) error {
	period, err := h.periodService.Activate(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(period)
}

// GetOrders retrieves orders scoped to the active period
// GET /api/orders?status=Pending&limit=50&period_id=...
func (h *Handler) GetOrders(c *fiber.Ctx) error {
	status := c.Query("status", "")
	limitStr := c.Query("limit", "100")
	periodID := c.Query("period_id", "")

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		limit = 100
	}

	var orders []*core.Order
	if periodID != "" {
		orders, err = h.orderService.ListByPeriod(c.Context(), periodID, status, limit)
	} else {
		orders, err = h.orderService.ListActive(c.Context(), status, limit)
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}

// GetOrder retrieves one order
// GET /api/orders/:id
func (h *Handler) GetOrder(c *fiber.Ctx) error {
	order, err := h.orderService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// GetCustomerOrders retrieves a customer's orders across periods
// GET /api/customers/:id/orders
func (h *Handler) GetCustomerOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.ListByCustomer(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}

// NextOrderCode proposes the next order code within the active period
// GET /api/orders/next-code
func (h *Handler) NextOrderCode(c *fiber.Ctx) error {
	code, err := h.orderService.NextCode(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"code": code})
}

// CreateOrder creates an order in the active period
// POST /api/orders
func (h *Handler) CreateOrder(c *fiber.Ctx) error {
	var draft service.OrderDraft
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	order, err := h.orderService.Create(c.Context(), &draft)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// UpdateOrder rewrites an order from a draft
// PUT /api/orders/:id
func (h *Handler) UpdateOrder(c *fiber.Ctx) error {
	var draft service.OrderDraft
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	order, err := h.orderService.Update(c.Context(), c.Params("id"), &draft)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// SetOrderFlags applies workflow flag changes to an order
// PATCH /api/orders/:id/flags
func (h *Handler) SetOrderFlags(c *fiber.Ctx) error {
	var req struct {
		Flags         core.OrderFlags `json:"flags"`
		PendingIssues string          `json:"pending_issues"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	order, err := h.orderService.SetFlags(c.Context(), c.Params("id"), req.Flags, req.PendingIssues)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// DeleteOrder deletes an order
// DELETE /api/orders/:id
func (h *Handler) DeleteOrder(c *fiber.Ctx) error {
	if err := h.orderService.Delete(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "order deleted"})
}
