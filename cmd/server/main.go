package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	httpHandlers "github.com/primecut-foods/butchery-api/internal/adapters/http"
	"github.com/primecut-foods/butchery-api/internal/adapters/mailer"
	"github.com/primecut-foods/butchery-api/internal/adapters/postgres"
	redisRepo "github.com/primecut-foods/butchery-api/internal/adapters/redis"
	"github.com/primecut-foods/butchery-api/internal/config"
	"github.com/primecut-foods/butchery-api/internal/core"
	"github.com/primecut-foods/butchery-api/internal/events"
	"github.com/primecut-foods/butchery-api/internal/middleware"
	"github.com/primecut-foods/butchery-api/internal/service"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	if cfg.RedisPassword != "" {
		redisOpts.Password = cfg.RedisPassword
	}

	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	// Ping Redis to verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("✓ Redis connection established")

	// Connect to PostgreSQL
	dbpool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer dbpool.Close()

	// Ping PostgreSQL to verify connection
	if err := dbpool.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	log.Println("✓ PostgreSQL connection established")

	// Initialize repositories using GORM
	repo, err := postgres.NewRepository(cfg.DBURL)
	if err != nil {
		log.Fatalf("Failed to initialize postgres repository: %v", err)
	}

	if err := repo.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("✓ Database schema up to date")

	// Active-period cache
	periodCache := redisRepo.NewRepository(rdb)

	// Outbound mail
	mailClient := mailer.NewClient(cfg.MailAPIURL, cfg.MailAPIToken, cfg.MailFromName, cfg.MailFromEmail)

	// Event bus for dashboard SSE
	eventBus := events.NewEventBus()

	// Services
	authService := service.NewAuthService(repo.EmployeeRepository(), cfg.JWTSecret, cfg.AdminUsername, cfg.AdminPassword)
	catalogService := service.NewCatalogService(
		repo.CustomerRepository(),
		repo.EmployeeRepository(),
		repo.ProductRepository(),
		repo.CategoryRepository(),
		repo.UnitRepository(),
	)
	periodService := service.NewPeriodService(repo.PeriodRepository(), repo.OrderRepository(), periodCache, eventBus)
	orderService := service.NewOrderService(
		repo.OrderRepository(),
		repo.CustomerRepository(),
		repo.EmployeeRepository(),
		repo.ProductRepository(),
		repo.UnitRepository(),
		periodService,
		mailClient,
		eventBus,
	)
	exportService := service.NewExportService(repo.OrderRepository(), repo.CustomerRepository(), repo.PeriodRepository())

	// HTTP handlers
	handler := httpHandlers.NewHandler(authService, catalogService, periodService, orderService)
	dashboardHandler := httpHandlers.NewDashboardHandler(periodService, orderService, exportService, eventBus)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "PrimeCut Butchery API",
		ServerHeader: "Fiber",
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Health check route
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"project": "butchery-api",
		})
	})

	// Auth routes
	app.Post("/api/auth/login", handler.Login)
	app.Post("/api/auth/logout", handler.Logout)

	// Authenticated API
	api := app.Group("/api", middleware.AuthMiddleware(authService))
	adminOnly := middleware.RequireRoles(core.RoleAdmin)
	api.Get("/auth/me", handler.GetMe)

	// Customers
	api.Get("/customers", handler.GetCustomers)
	api.Get("/customers/next-code", handler.NextCustomerCode)
	api.Get("/customers/:id", handler.GetCustomer)
	api.Get("/customers/:id/orders", handler.GetCustomerOrders)
	api.Post("/customers", handler.CreateCustomer)
	api.Put("/customers/:id", handler.UpdateCustomer)
	api.Delete("/customers/:id", adminOnly, handler.DeleteCustomer)

	// Products
	api.Get("/products", handler.GetProducts)
	api.Get("/products/next-code", handler.NextProductCode)
	api.Post("/products", handler.CreateProduct)
	api.Put("/products/:id", handler.UpdateProduct)
	api.Delete("/products/:id", handler.DeleteProduct)

	// Categories and units
	api.Get("/categories", handler.GetCategories)
	api.Post("/categories", handler.CreateCategory)
	api.Put("/categories/:id", handler.UpdateCategory)
	api.Delete("/categories/:id", handler.DeleteCategory)
	api.Get("/units", handler.GetUnits)
	api.Post("/units", handler.CreateUnit)
	api.Put("/units/:id", handler.UpdateUnit)
	api.Delete("/units/:id", handler.DeleteUnit)

	// Orders
	api.Get("/orders", handler.GetOrders)
	api.Get("/orders/next-code", handler.NextOrderCode)
	api.Get("/orders/:id", handler.GetOrder)
	api.Post("/orders", handler.CreateOrder)
	api.Put("/orders/:id", handler.UpdateOrder)
	api.Patch("/orders/:id/flags", handler.SetOrderFlags)
	api.Delete("/orders/:id", handler.DeleteOrder)

	// Periods (reads for everyone; mutations are admin-only)
	api.Get("/periods", handler.GetPeriods)
	api.Get("/periods/active", handler.GetActivePeriod)
	api.Post("/periods", adminOnly, handler.CreatePeriod)
	api.Put("/periods/:id", adminOnly, handler.UpdatePeriod)
	api.Delete("/periods/:id", adminOnly, handler.DeletePeriod)
	api.Post("/periods/:id/activate", adminOnly, handler.ActivatePeriod)

	// Employees are admin-only
	api.Get("/employees", adminOnly, handler.GetEmployees)
	api.Get("/employees/next-code", adminOnly, handler.NextEmployeeCode)
	api.Post("/employees", adminOnly, handler.CreateEmployee)
	api.Put("/employees/:id", adminOnly, handler.UpdateEmployee)
	api.Delete("/employees/:id", adminOnly, handler.DeleteEmployee)

	// Dashboard and exports
	api.Get("/dashboard/stats", dashboardHandler.GetActiveStats)
	api.Get("/dashboard/stats/:period_id", dashboardHandler.GetPeriodStats)
	api.Get("/dashboard/deliveries", dashboardHandler.GetDeliveriesDue)
	api.Get("/dashboard/events", dashboardHandler.SSEEvents)
	api.Get("/export/customers.csv", dashboardHandler.ExportCustomersCSV)
	api.Get("/export/orders/:id.pdf", dashboardHandler.ExportOrderPDF)
	api.Get("/export/periods/:period_id/orders.csv", dashboardHandler.ExportOrdersCSV)
	api.Get("/export/periods/:period_id/report.pdf", dashboardHandler.ExportPeriodReportPDF)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.AppPort)
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
