package main

import (
	"fmt"
	"time"

	"boutique/internal/config"
	"boutique/internal/handlers"
	"boutique/internal/middleware"
	"boutique/internal/repositories"
	"boutique/internal/services"
	"boutique/pkg/stripepay"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the external clients NewApp wires into the services.
// A nil Publisher or Images turns the matching feature off.
type Dependencies struct {
	DB        *gorm.DB
	Carts     repositories.CartSnapshotStore
	Publisher services.EventPublisher
	Payments  *stripepay.Client
	Images    services.ImageStore
	Logger    *zap.Logger
}

// App is the HTTP server together with the services main needs after startup.
type App struct {
	Fiber    *fiber.App
	Auth     *services.AuthService
	Notifier *services.OrderNotifier
}

// NewApp builds repositories, services and handlers and registers every route.
// It refuses a config whose JWT secret could be guessed, since that secret
// guards the admin routes.
func NewApp(cfg *config.Config, deps Dependencies, mailer services.Mailer) (*App, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	carts := deps.Carts
	if carts == nil {
		carts = repositories.NewMemoryCartSnapshotStore()
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(deps.DB)
	shippingRepo := repositories.NewGORMShippingPriceRepository(deps.DB)
	checkoutRepo := repositories.NewGORMCheckoutRecordRepository(deps.DB)
	orderRepo := repositories.NewGORMOrderRepository(deps.DB)
	setRepo := repositories.NewGORMSetRepository(deps.DB)
	userRepo := repositories.NewGORMUserRepository(deps.DB)

	// --- Services ---
	stockGuard := services.NewStockGuard(productRepo)
	cartService := services.NewCartService(carts, productRepo, stockGuard, log)
	shippingResolver := services.NewShippingResolver(shippingRepo, log)
	checkoutBuilder := services.NewCheckoutSessionBuilder(deps.Payments, shippingResolver, checkoutRepo, cfg.StripeCurrency, log)
	orderRecorder := services.NewOrderRecorder(orderRepo, checkoutRepo, carts, deps.Publisher, log)
	orderService := services.NewOrderService(orderRepo, deps.Publisher, log)
	productService := services.NewProductService(productRepo, log)
	setService := services.NewSetService(setRepo, productRepo, deps.Images, log)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, log)

	var notifier *services.OrderNotifier
	if mailer != nil {
		notifier = services.NewOrderNotifier(mailer, log)
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, log)
	cartHandler := handlers.NewCartHandler(cartService, log)
	productHandler := handlers.NewProductHandler(productService, stockGuard, log)
	shippingHandler := handlers.NewShippingHandler(shippingResolver, log)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutBuilder, log)
	webhookHandler := handlers.NewWebhookHandler(deps.Payments, orderRecorder, log)
	orderHandler := handlers.NewOrderHandler(orderService, log)
	setHandler := handlers.NewSetHandler(setService, log)

	app := fiber.New(fiber.Config{
		BodyLimit: 12 << 20,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New()) // Request logger

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"rabbitmq": deps.Publisher != nil,
			"stripe":   deps.Payments.CanCreateSessions(),
		})
	})

	// --- API Routes ---
	api := app.Group("/api", middleware.OptionalAuth(authService))
	authHandler.RegisterRoutes(api)
	cartHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api)
	shippingHandler.RegisterRoutes(api)
	checkoutHandler.RegisterRoutes(api)
	webhookHandler.RegisterRoutes(api)

	admin := api.Group("/admin", middleware.AuthRequired(authService, log), middleware.RequireAdmin())
	productHandler.RegisterAdminRoutes(admin)
	shippingHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	setHandler.RegisterAdminRoutes(admin)

	return &App{Fiber: app, Auth: authService, Notifier: notifier}, nil
}
