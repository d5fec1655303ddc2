package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/primecut-foods/butchery-api/internal/adapters/postgres"
	"github.com/primecut-foods/butchery-api/internal/config"
	"github.com/primecut-foods/butchery-api/internal/core"
	"github.com/primecut-foods/butchery-api/internal/service"
)

// SeedProduct represents a product in the seed data JSON
type SeedProduct struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Unit     string  `json:"unit"`
}

// CatalogData holds the starting catalog to be seeded
var CatalogData = []byte(`[
  { "name": "Beef Ribeye", "price": 18.50, "category": "Beef", "unit": "kg" },
  { "name": "Beef Sirloin", "price": 15.90, "category": "Beef", "unit": "kg" },
  { "name": "Beef Mince", "price": 9.80, "category": "Beef", "unit": "kg" },
  { "name": "Beef Short Ribs", "price": 12.40, "category": "Beef", "unit": "kg" },
  { "name": "Pork Belly", "price": 8.90, "category": "Pork", "unit": "kg" },
  { "name": "Pork Chops", "price": 9.50, "category": "Pork", "unit": "kg" },
  { "name": "Pork Shoulder", "price": 7.80, "category": "Pork", "unit": "kg" },
  { "name": "Whole Chicken", "price": 6.50, "category": "Poultry", "unit": "piece" },
  { "name": "Chicken Breast", "price": 10.20, "category": "Poultry", "unit": "kg" },
  { "name": "Chicken Thighs", "price": 8.40, "category": "Poultry", "unit": "kg" },
  { "name": "Turkey Breast", "price": 13.60, "category": "Poultry", "unit": "kg" },
  { "name": "Lamb Leg", "price": 14.90, "category": "Lamb", "unit": "kg" },
  { "name": "Lamb Shoulder", "price": 12.50, "category": "Lamb", "unit": "kg" },
  { "name": "Lamb Chops", "price": 17.80, "category": "Lamb", "unit": "kg" },
  { "name": "Country Sausages", "price": 7.20, "category": "Deli", "unit": "kg" },
  { "name": "Smoked Bacon", "price": 11.40, "category": "Deli", "unit": "pack" },
  { "name": "Village Salami", "price": 13.90, "category": "Deli", "unit": "kg" }
]`)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	repo, err := postgres.NewRepository(cfg.DBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := repo.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	catalog := service.NewCatalogService(
		repo.CustomerRepository(),
		repo.EmployeeRepository(),
		repo.ProductRepository(),
		repo.CategoryRepository(),
		repo.UnitRepository(),
	)

	var seedProducts []SeedProduct
	if err := json.Unmarshal(CatalogData, &seedProducts); err != nil {
		log.Fatalf("Failed to parse catalog data: %v", err)
	}

	ctx := context.Background()

	// Categories and units are created on demand, keyed by name
	categoryIDs, err := existingByName(ctx, catalog)
	if err != nil {
		log.Fatalf("Failed to load categories: %v", err)
	}
	unitIDs, err := existingUnitsByName(ctx, catalog)
	if err != nil {
		log.Fatalf("Failed to load units: %v", err)
	}

	existingProducts, err := catalog.ListProducts(ctx)
	if err != nil {
		log.Fatalf("Failed to load products: %v", err)
	}
	productNames := make(map[string]bool, len(existingProducts))
	for _, product := range existingProducts {
		productNames[product.Name] = true
	}

	inserted := 0
	skipped := 0
	for _, seed := range seedProducts {
		if productNames[seed.Name] {
			skipped++
			continue
		}

		categoryID, ok := categoryIDs[seed.Category]
		if !ok {
			category, err := catalog.CreateCategory(ctx, &core.Category{Name: seed.Category})
			if err != nil {
				log.Fatalf("Failed to create category %q: %v", seed.Category, err)
			}
			categoryID = category.ID
			categoryIDs[seed.Category] = categoryID
			log.Printf("Created category %s (%s)", category.Name, category.Code)
		}

		unitID, ok := unitIDs[seed.Unit]
		if !ok {
			unit, err := catalog.CreateUnit(ctx, &core.Unit{Name: seed.Unit})
			if err != nil {
				log.Fatalf("Failed to create unit %q: %v", seed.Unit, err)
			}
			unitID = unit.ID
			unitIDs[seed.Unit] = unitID
			log.Printf("Created unit %s (%s)", unit.Name, unit.Code)
		}

		product, err := catalog.CreateProduct(ctx, &core.Product{
			Name:       seed.Name,
			Price:      seed.Price,
			CategoryID: categoryID,
			UnitID:     unitID,
		})
		if err != nil {
			log.Fatalf("Failed to create product %q: %v", seed.Name, err)
		}
		log.Printf("Created product %s (%s)", product.Name, product.Code)
		inserted++
	}

	log.Printf("Seed complete: %d products inserted, %d already present", inserted, skipped)

	seedStaffAccount(ctx, catalog)
}

// seedStaffAccount creates a first employee login when SEED_STAFF_PASSWORD is
// set and no employees exist yet.
func seedStaffAccount(ctx context.Context, catalog *service.CatalogService) {
	password := os.Getenv("SEED_STAFF_PASSWORD")
	if password == "" {
		return
	}

	employees, err := catalog.ListEmployees(ctx)
	if err != nil {
		log.Fatalf("Failed to load employees: %v", err)
	}
	if len(employees) > 0 {
		log.Println("Employees already present, skipping staff account seed")
		return
	}

	employee, err := catalog.CreateEmployee(ctx, &core.Employee{
		FirstName: "Shop",
		LastName:  "Staff",
		Username:  "staff",
		Role:      core.RoleEmployee,
	}, password)
	if err != nil {
		log.Fatalf("Failed to create staff account: %v", err)
	}
	log.Printf("Created staff account %s (username: %s)", employee.Code, employee.Username)
}

func existingByName(ctx context.Context, catalog *service.CatalogService) (map[string]string, error) {
	categories, err := catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(categories))
	for _, category := range categories {
		out[category.Name] = category.ID
	}
	return out, nil
}

func existingUnitsByName(ctx context.Context, catalog *service.CatalogService) (map[string]string, error) {
	units, err := catalog.ListUnits(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(units))
	for _, unit := range units {
		out[unit.Name] = unit.ID
	}
	return out, nil
}
