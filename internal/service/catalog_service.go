package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/primecut-foods/butchery-api/internal/core"
	"golang.org/x/crypto/bcrypt"
)

// CatalogService handles CRUD and code generation for the reference
// collections: customers, employees, products, categories and units.
type CatalogService struct {
	customerRepo core.CustomerRepository
	employeeRepo core.EmployeeRepository
	productRepo  core.ProductRepository
	categoryRepo core.CategoryRepository
	unitRepo     core.UnitRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	customerRepo core.CustomerRepository,
	employeeRepo core.EmployeeRepository,
	productRepo core.ProductRepository,
	categoryRepo core.CategoryRepository,
	unitRepo core.UnitRepository,
) *CatalogService {
	return &CatalogService{
		customerRepo: customerRepo,
		employeeRepo: employeeRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		unitRepo:     unitRepo,
	}
}

// NextCustomerCode proposes the next customer business code
func (s *CatalogService) NextCustomerCode(ctx context.Context) (string, error) {
	codes, err := s.customerRepo.Codes(ctx)
	if err != nil {
		return "", err
	}
	return core.NextCode(codes, core.CodePrefixCustomer), nil
}

// CreateCustomer validates and stores a customer, generating a code when
// none is supplied
func (s *CatalogService) CreateCustomer(ctx context.Context, customer *core.Customer) (*core.Customer, error) {
	if customer.Code == "" {
		code, err := s.NextCustomerCode(ctx)
		if err != nil {
			return nil, err
		}
		customer.Code = code
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	customer.ID = uuid.New().String()
	customer.CreatedAt = time.Now()
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// UpdateCustomer validates and rewrites a customer
func (s *CatalogService) UpdateCustomer(ctx context.Context, customer *core.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	return s.customerRepo.Update(ctx, customer)
}

// DeleteCustomer removes a customer; blocked while orders reference it
func (s *CatalogService) DeleteCustomer(ctx context.Context, id string) error {
	return s.customerRepo.Delete(ctx, id)
}

// GetCustomer retrieves one customer
func (s *CatalogService) GetCustomer(ctx context.Context, id string) (*core.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

// ListCustomers retrieves all customers
func (s *CatalogService) ListCustomers(ctx context.Context) ([]*core.Customer, error) {
	return s.customerRepo.GetAll(ctx)
}

// NextEmployeeCode proposes the next employee business code
func (s *CatalogService) NextEmployeeCode(ctx context.Context) (string, error) {
	codes, err := s.employeeRepo.Codes(ctx)
	if err != nil {
		return "", err
	}
	return core.NextCode(codes, core.CodePrefixEmployee), nil
}

// CreateEmployee validates and stores an employee with a hashed password
func (s *CatalogService) CreateEmployee(ctx context.Context, employee *core.Employee, password string) (*core.Employee, error) {
	if employee.Code == "" {
		code, err := s.NextEmployeeCode(ctx)
		if err != nil {
			return nil, err
		}
		employee.Code = code
	}
	if employee.Role == "" {
		employee.Role = core.RoleEmployee
	}
	if err := employee.Validate(); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, core.FieldErrors{"password": "password is required"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	employee.ID = uuid.New().String()
	employee.PasswordHash = string(hash)
	employee.IsActive = true
	employee.CreatedAt = time.Now()
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// UpdateEmployee validates and rewrites an employee; a non-empty password
// replaces the stored hash
func (s *CatalogService) UpdateEmployee(ctx context.Context, employee *core.Employee, password string) error {
	if err := employee.Validate(); err != nil {
		return err
	}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		employee.PasswordHash = string(hash)
	} else {
		existing, err := s.employeeRepo.GetByID(ctx, employee.ID)
		if err != nil {
			return err
		}
		employee.PasswordHash = existing.PasswordHash
	}

	return s.employeeRepo.Update(ctx, employee)
}

// DeleteEmployee removes an employee
func (s *CatalogService) DeleteEmployee(ctx context.Context, id string) error {
	return s.employeeRepo.Delete(ctx, id)
}

// GetEmployee retrieves one employee
func (s *CatalogService) GetEmployee(ctx context.Context, id string) (*core.Employee, error) {
	return s.employeeRepo.GetByID(ctx, id)
}

// ListEmployees retrieves all employees
func (s *CatalogService) ListEmployees(ctx context.Context) ([]*core.Employee, error) {
	return s.employeeRepo.GetAll(ctx)
}

// NextProductCode proposes the next product business code
func (s *CatalogService) NextProductCode(ctx context.Context) (string, error) {
	codes, err := s.productRepo.Codes(ctx)
	if err != nil {
		return "", err
	}
	return core.NextCode(codes, core.CodePrefixProduct), nil
}

// CreateProduct validates and stores a product
func (s *CatalogService) CreateProduct(ctx context.Context, product *core.Product) (*core.Product, error) {
	if product.Code == "" {
		code, err := s.NextProductCode(ctx)
		if err != nil {
			return nil, err
		}
		product.Code = code
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	product.ID = uuid.New().String()
	product.IsActive = true
	product.CreatedAt = time.Now()
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct validates and rewrites a product
func (s *CatalogService) UpdateProduct(ctx context.Context, product *core.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	return s.productRepo.Update(ctx, product)
}

// DeleteProduct removes a product
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.productRepo.Delete(ctx, id)
}

// GetProduct retrieves one product
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*core.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// ListProducts retrieves all products
func (s *CatalogService) ListProducts(ctx context.Context) ([]*core.Product, error) {
	return s.productRepo.GetAll(ctx)
}

// ListProductsByCategory retrieves active products in one category
func (s *CatalogService) ListProductsByCategory(ctx context.Context, categoryID string) ([]*core.Product, error) {
	return s.productRepo.GetByCategory(ctx, categoryID)
}

// NextCategoryCode proposes the next category business code
func (s *CatalogService) NextCategoryCode(ctx context.Context) (string, error) {
	codes, err := s.categoryRepo.Codes(ctx)
	if err != nil {
		return "", err
	}
	return core.NextCode(codes, core.CodePrefixCategory), nil
}

// CreateCategory validates and stores a category
func (s *CatalogService) CreateCategory(ctx context.Context, category *core.Category) (*core.Category, error) {
	if category.Code == "" {
		code, err := s.NextCategoryCode(ctx)
		if err != nil {
			return nil, err
		}
		category.Code = code
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	category.ID = uuid.New().String()
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory validates and rewrites a category
func (s *CatalogService) UpdateCategory(ctx context.Context, category *core.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	return s.categoryRepo.Update(ctx, category)
}

// DeleteCategory removes a category; blocked while products reference it
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.categoryRepo.Delete(ctx, id)
}

// ListCategories retrieves all categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]*core.Category, error) {
	return s.categoryRepo.GetAll(ctx)
}

// NextUnitCode proposes the next unit business code
func (s *CatalogService) NextUnitCode(ctx context.Context) (string, error) {
	codes, err := s.unitRepo.Codes(ctx)
	if err != nil {
		return "", err
	}
	return core.NextCode(codes, core.CodePrefixUnit), nil
}

// CreateUnit validates and stores a unit
func (s *CatalogService) CreateUnit(ctx context.Context, unit *core.Unit) (*core.Unit, error) {
	if unit.Code == "" {
		code, err := s.NextUnitCode(ctx)
		if err != nil {
			return nil, err
		}
		unit.Code = code
	}
	if err := unit.Validate(); err != nil {
		return nil, err
	}

	unit.ID = uuid.New().String()
	if err := s.unitRepo.Create(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// UpdateUnit validates and rewrites a unit
func (s *CatalogService) UpdateUnit(ctx context.Context, unit *core.Unit) error {
	if err := unit.Validate(); err != nil {
		return err
	}
	return s.unitRepo.Update(ctx, unit)
}

// DeleteUnit removes a unit; blocked while products reference it
func (s *CatalogService) DeleteUnit(ctx context.Context, id string) error {
	return s.unitRepo.Delete(ctx, id)
}

// ListUnits retrieves all units
func (s *CatalogService) ListUnits(ctx context.Context) ([]*core.Unit, error) {
	return s.unitRepo.GetAll(ctx)
}
