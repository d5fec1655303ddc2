package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/primecut-foods/butchery-api/internal/core"
	"gorm.io/gorm"
)

type customerRepository struct {
	*Repository
}

type employeeRepository struct {
	*Repository
}

type productRepository struct {
	*Repository
}

type categoryRepository struct {
	*Repository
}

type unitRepository struct {
	*Repository
}

// codes returns the business codes of one table, for code generation.
func (r *Repository) codes(ctx context.Context, table string) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).Table(table).Pluck("code", &codes).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s codes: %w", table, err)
	}
	return codes, nil
}

// CustomerRepository implementation

// CustomerModel represents the customers table structure
type CustomerModel struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	Code      string    `gorm:"column:code;type:varchar(50);not null;uniqueIndex"`
	FirstName string    `gorm:"column:first_name;type:varchar(255)"`
	LastName  string    `gorm:"column:last_name;type:varchar(255);not null"`
	Address   string    `gorm:"column:address;type:varchar(500);not null"`
	Mobile    string    `gorm:"column:mobile;type:varchar(30);not null"`
	Email     string    `gorm:"column:email;type:varchar(255)"`
	Notes     string    `gorm:"column:notes;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts CustomerModel to core.Customer
func (c *CustomerModel) ToDomain() *core.Customer {
	return &core.Customer{
		ID:        c.ID,
		Code:      c.Code,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Address:   c.Address,
		Mobile:    c.Mobile,
		Email:     c.Email,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
	}
}

// CustomerModelFromDomain creates CustomerModel from core.Customer
func CustomerModelFromDomain(customer *core.Customer) *CustomerModel {
	return &CustomerModel{
		ID:        customer.ID,
		Code:      customer.Code,
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		Address:   customer.Address,
		Mobile:    customer.Mobile,
		Email:     customer.Email,
		Notes:     customer.Notes,
		CreatedAt: customer.CreatedAt,
	}
}

// Create inserts a customer
func (r *customerRepository) Create(ctx context.Context, customer *core.Customer) error {
	if err := r.db.WithContext(ctx).Table("customers").Create(CustomerModelFromDomain(customer)).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// Update rewrites a customer's editable fields
func (r *customerRepository) Update(ctx context.Context, customer *core.Customer) error {
	result := r.db.WithContext(ctx).Table("customers").
		Where("id = ?", customer.ID).
		Updates(map[string]interface{}{
			"code":       customer.Code,
			"first_name": customer.FirstName,
			"last_name":  customer.LastName,
			"address":    customer.Address,
			"mobile":     customer.Mobile,
			"email":      customer.Email,
			"notes":      customer.Notes,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("customer not found: %w", ErrNotFound)
	}
	return nil
}

// Delete removes a customer. Blocked while orders reference it.
func (r *customerRepository) Delete(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Table("orders").
		Where("customer_id = ?", id).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check customer references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("customer has %d orders: %w", count, ErrReferenced)
	}

	result := r.db.WithContext(ctx).Table("customers").Where("id = ?", id).Delete(&CustomerModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("customer not found: %w", ErrNotFound)
	}
	return nil
}

// GetByID retrieves a customer by its ID
func (r *customerRepository) GetByID(ctx context.Context, id string) (*core.Customer, error) {
	var customerModel CustomerModel
	if err := r.db.WithContext(ctx).Table("customers").Where("id = ?", id).First(&customerModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customerModel.ToDomain(), nil
}

// GetAll retrieves all customers ordered by code
func (r *customerRepository) GetAll(ctx context.Context) ([]*core.Customer, error) {
	var customerModels []CustomerModel
	if err := r.db.WithContext(ctx).Table("customers").
		Order("code ASC").
		Find(&customerModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get customers: %w", err)
	}

	customers := make([]*core.Customer, len(customerModels))
	for i := range customerModels {
		customers[i] = customerModels[i].ToDomain()
	}
	return customers, nil
}

// Codes lists all customer business codes
func (r *customerRepository) Codes(ctx context.Context) ([]string, error) {
	return r.codes(ctx, "customers")
}

// EmployeeRepository implementation

// EmployeeModel represents the employees table structure
type EmployeeModel struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey"`
	Code         string    `gorm:"column:code;type:varchar(50);not null;uniqueIndex"`
	FirstName    string    `gorm:"column:first_name;type:varchar(255)"`
	LastName     string    `gorm:"column:last_name;type:varchar(255);not null"`
	Mobile       string    `gorm:"column:mobile;type:varchar(30)"`
	Username     string    `gorm:"column:username;type:varchar(100);not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255)"`
	Role         string    `gorm:"column:role;type:varchar(20);not null;default:'EMPLOYEE'"`
	IsActive     bool      `gorm:"column:is_active;type:boolean;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts EmployeeModel to core.Employee
func (e *EmployeeModel) ToDomain() *core.Employee {
	return &core.Employee{
		ID:           e.ID,
		Code:         e.Code,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Mobile:       e.Mobile,
		Username:     e.Username,
		PasswordHash: e.PasswordHash,
		Role:         e.Role,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
	}
}

// EmployeeModelFromDomain creates EmployeeModel from core.Employee
func EmployeeModelFromDomain(employee *core.Employee) *EmployeeModel {
	return &EmployeeModel{
		ID:           employee.ID,
		Code:         employee.Code,
		FirstName:    employee.FirstName,
		LastName:     employee.LastName,
		Mobile:       employee.Mobile,
		Username:     employee.Username,
		PasswordHash: employee.PasswordHash,
		Role:         employee.Role,
		IsActive:     employee.IsActive,
		CreatedAt:    employee.CreatedAt,
	}
}

// Create inserts an employee
func (r *employeeRepository) Create(ctx context.Context, employee *core.Employee) error {
	if err := r.db.WithContext(ctx).Table("employees").Create(EmployeeModelFromDomain(employee)).Error; err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// Update rewrites an employee's editable fields
func (r *employeeRepository) Update(ctx context.Context, employee *core.Employee) error {
	result := r.db.WithContext(ctx).Table("employees").
		Where("id = ?", employee.ID).
		Updates(map[string]interface{}{
			"code":          employee.Code,
			"first_name":    employee.FirstName,
			"last_name":     employee.LastName,
			"mobile":        employee.Mobile,
			"username":      employee.Username,
			"password_hash": employee.PasswordHash,
			"role":          employee.Role,
			"is_active":     employee.IsActive,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update employee: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("employee not found: %w", ErrNotFound)
	}
	return nil
}

// Delete removes an employee. Orders keep their denormalized employee
// snapshot, so no reference check is needed.
func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Table("employees").Where("id = ?", id).Delete(&EmployeeModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete employee: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("employee not found: %w", ErrNotFound)
	}
	return nil
}

// GetByID retrieves an employee by its ID
func (r *employeeRepository) GetByID(ctx context.Context, id string) (*core.Employee, error) {
	var employeeModel EmployeeModel
	if err := r.db.WithContext(ctx).Table("employees").Where("id = ?", id).First(&employeeModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("employee not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employeeModel.ToDomain(), nil
}

// GetByUsername retrieves an employee by login username
func (r *employeeRepository) GetByUsername(ctx context.Context, username string) (*core.Employee, error) {
	var employeeModel EmployeeModel
	if err := r.db.WithContext(ctx).Table("employees").Where("username = ?", username).First(&employeeModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("employee not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employeeModel.ToDomain(), nil
}

// GetAll retrieves all employees ordered by code
func (r *employeeRepository) GetAll(ctx context.Context) ([]*core.Employee, error) {
	var employeeModels []EmployeeModel
	if err := r.db.WithContext(ctx).Table("employees").
		Order("code ASC").
		Find(&employeeModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}

	employees := make([]*core.Employee, len(employeeModels))
	for i := range employeeModels {
		employees[i] = employeeModels[i].ToDomain()
	}
	return employees, nil
}

// Codes lists all employee business codes
func (r *employeeRepository) Codes(ctx context.Context) ([]string, error) {
	return r.codes(ctx, "employees")
}

// ProductRepository implementation

// ProductModel represents the products table structure
type ProductModel struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey"`
	Code        string    `gorm:"column:code;type:varchar(50);not null;uniqueIndex"`
	Name        string    `gorm:"column:name;type:varchar(255);not null"`
	Description string    `gorm:"column:description;type:text"`
	Price       float64   `gorm:"column:price;type:decimal(10,2);not null"`
	CategoryID  string    `gorm:"column:category_id;type:uuid;not null;index"`
	UnitID      string    `gorm:"column:unit_id;type:uuid;not null"`
	IsActive    bool      `gorm:"column:is_active;type:boolean;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts ProductModel to core.Product
func (p *ProductModel) ToDomain() *core.Product {
	return &core.Product{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		UnitID:      p.UnitID,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}

// ProductModelFromDomain creates ProductModel from core.Product
func ProductModelFromDomain(product *core.Product) *ProductModel {
	return &ProductModel{
		ID:          product.ID,
		Code:        product.Code,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		CategoryID:  product.CategoryID,
		UnitID:      product.UnitID,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
	}
}

// Create inserts a product
func (r *productRepository) Create(ctx context.Context, product *core.Product) error {
	if err := r.db.WithContext(ctx).Table("products").Create(ProductModelFromDomain(product)).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update rewrites a product's editable fields
func (r *productRepository) Update(ctx context.Context, product *core.Product) error {
	result := r.db.WithContext(ctx).Table("products").
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"code":        product.Code,
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"category_id": product.CategoryID,
			"unit_id":     product.UnitID,
			"is_active":   product.IsActive,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product not found: %w", ErrNotFound)
	}
	return nil
}

// Delete removes a product. Order lines keep their denormalized product
// name and price, so historical orders are unaffected.
func (r *productRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Table("products").Where("id = ?", id).Delete(&ProductModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product not found: %w", ErrNotFound)
	}
	return nil
}

// GetByID retrieves a product by its ID
func (r *productRepository) GetByID(ctx context.Context, id string) (*core.Product, error) {
	var productModel ProductModel
	if err := r.db.WithContext(ctx).Table("products").Where("id = ?", id).First(&productModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return productModel.ToDomain(), nil
}

// GetAll retrieves all products ordered by code
func (r *productRepository) GetAll(ctx context.Context) ([]*core.Product, error) {
	var productModels []ProductModel
	if err := r.db.WithContext(ctx).Table("products").
		Order("code ASC").
		Find(&productModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	products := make([]*core.Product, len(productModels))
	for i := range productModels {
		products[i] = productModels[i].ToDomain()
	}
	return products, nil
}

// GetByCategory retrieves active products in one category
func (r *productRepository) GetByCategory(ctx context.Context, categoryID string) ([]*core.Product, error) {
	var productModels []ProductModel
	if err := r.db.WithContext(ctx).Table("products").
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("name ASC").
		Find(&productModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by category: %w", err)
	}

	products := make([]*core.Product, len(productModels))
	for i := range productModels {
		products[i] = productModels[i].ToDomain()
	}
	return products, nil
}

// Codes lists all product business codes
func (r *productRepository) Codes(ctx context.Context) ([]string, error) {
	return r.codes(ctx, "products")
}

// CategoryRepository implementation

// CategoryModel represents the categories table structure
type CategoryModel struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey"`
	Code        string `gorm:"column:code;type:varchar(50);not null;uniqueIndex"`
	Name        string `gorm:"column:name;type:varchar(255);not null"`
	Description string `gorm:"column:description;type:text"`
}

func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts CategoryModel to core.Category
func (c *CategoryModel) ToDomain() *core.Category {
	return &core.Category{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
	}
}

// Create inserts a category
func (r *categoryRepository) Create(ctx context.Context, category *core.Category) error {
	model := &CategoryModel{ID: category.ID, Code: category.Code, Name: category.Name, Description: category.Description}
	if err := r.db.WithContext(ctx).Table("categories").Create(model).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Update rewrites a category
func (r *categoryRepository) Update(ctx context.Context, category *core.Category) error {
	result := r.db.WithContext(ctx).Table("categories").
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"code":        category.Code,
			"name":        category.Name,
			"description": category.Description,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("category not found: %w", ErrNotFound)
	}
	return nil
}

// Delete removes a category. Blocked while products reference it.
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Table("products").
		Where("category_id = ?", id).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("category has %d products: %w", count, ErrReferenced)
	}

	result := r.db.WithContext(ctx).Table("categories").Where("id = ?", id).Delete(&CategoryModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("category not found: %w", ErrNotFound)
	}
	return nil
}

// GetByID retrieves a category by its ID
func (r *categoryRepository) GetByID(ctx context.Context, id string) (*core.Category, error) {
	var categoryModel CategoryModel
	if err := r.db.WithContext(ctx).Table("categories").Where("id = ?", id).First(&categoryModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return categoryModel.ToDomain(), nil
}

// GetAll retrieves all categories ordered by code
func (r *categoryRepository) GetAll(ctx context.Context) ([]*core.Category, error) {
	var categoryModels []CategoryModel
	if err := r.db.WithContext(ctx).Table("categories").
		Order("code ASC").
		Find(&categoryModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	categories := make([]*core.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = categoryModels[i].ToDomain()
	}
	return categories, nil
}

// Codes lists all category business codes
func (r *categoryRepository) Codes(ctx context.Context) ([]string, error) {
	return r.codes(ctx, "categories")
}

// UnitRepository implementation

// UnitModel represents the units table structure
type UnitModel struct {
	ID   string `gorm:"column:id;type:uuid;primaryKey"`
	Code string `gorm:"column:code;type:varchar(50);not null;uniqueIndex"`
	Name string `gorm:"column:name;type:varchar(100);not null"`
}

func (UnitModel) TableName() string {
	return "units"
}

// ToDomain converts UnitModel to core.Unit
func (u *UnitModel) ToDomain() *core.Unit {
	return &core.Unit{ID: u.ID, Code: u.Code, Name: u.Name}
}

// Create inserts a unit
func (r *unitRepository) Create(ctx context.Context, unit *core.Unit) error {
	model := &UnitModel{ID: unit.ID, Code: unit.Code, Name: unit.Name}
	if err := r.db.WithContext(ctx).Table("units").Create(model).Error; err != nil {
		return fmt.Errorf("failed to create unit: %w", err)
	}
	return nil
}

// Update rewrites a unit
func (r *unitRepository) Update(ctx context.Context, unit *core.Unit) error {
	result := r.db.WithContext(ctx).Table("units").
		Where("id = ?", unit.ID).
		Updates(map[string]interface{}{
			"code": unit.Code,
			"name": unit.Name,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update unit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("unit not found: %w", ErrNotFound)
	}
	return nil
}

// Delete removes a unit. Blocked while products reference it.
func (r *unitRepository) Delete(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Table("products").
		Where("unit_id = ?", id).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check unit references: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("unit has %d products: %w", count, ErrReferenced)
	}

	result := r.db.WithContext(ctx).Table("units").Where("id = ?", id).Delete(&UnitModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete unit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("unit not found: %w", ErrNotFound)
	}
	return nil
}

// GetByID retrieves a unit by its ID
func (r *unitRepository) GetByID(ctx context.Context, id string) (*core.Unit, error) {
	var unitModel UnitModel
	if err := r.db.WithContext(ctx).Table("units").Where("id = ?", id).First(&unitModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("unit not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}
	return unitModel.ToDomain(), nil
}

// GetAll retrieves all units ordered by code
func (r *unitRepository) GetAll(ctx context.Context) ([]*core.Unit, error) {
	var unitModels []UnitModel
	if err := r.db.WithContext(ctx).Table("units").
		Order("code ASC").
		Find(&unitModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get units: %w", err)
	}

	units := make([]*core.Unit, len(unitModels))
	for i := range unitModels {
		units[i] = unitModels[i].ToDomain()
	}
	return units, nil
}

// Codes lists all unit business codes
func (r *unitRepository) Codes(ctx context.Context) ([]string, error) {
	return r.codes(ctx, "units")
}
