// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"gatepass/internal/handlers"
	"gatepass/internal/middleware"
	"gatepass/internal/models"
	"gatepass/internal/repositories"
	"gatepass/internal/services/auth"
	"gatepass/internal/services/business"
	"gatepass/internal/services/checkout"
	"gatepass/internal/services/event"
	"gatepass/internal/services/order"
	"gatepass/internal/services/pricing"
	"gatepass/internal/services/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)
	businessRepo := repositories.NewBusinessRepository(db, repositories.CacheService)
	feeRepo := repositories.NewFeeConfigRepository(db, repositories.CacheService)
	eventRepo := repositories.NewEventRepository(db, repositories.CacheService)
	orderRepo := repositories.NewOrderRepository(db)

	// Initialize services in dependency order. The fee config provider
	// resolves the business override or the platform default, and the
	// pricing service quotes orders on top of it.
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo)
	feeConfigs := business.NewFeeConfigProvider(feeRepo)
	pricingService := pricing.NewService(feeConfigs)
	businessService := business.NewService(businessRepo, feeRepo, eventRepo, pricingService)
	eventService := event.NewService(eventRepo)
	orderService := order.NewService(orderRepo)
	checkoutService := checkout.NewService(
		eventRepo,
		orderRepo,
		businessRepo,
		pricingService,
		checkout.NewStripeClient(),
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	businessHandler := handlers.NewBusinessHandler(businessService, userService, feeConfigs)
	eventHandler := handlers.NewEventHandler(eventService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, pricingService, eventRepo, businessRepo)
	orderHandler := handlers.NewOrderHandler(orderService)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/register", authHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)
	api.Get("/events", eventHandler.ListPublishedEvents)
	api.Get("/events/:id", eventHandler.GetEvent)
	api.Post("/checkout/quote", checkoutHandler.QuoteFees)

	// Payment processor webhooks are authenticated by signature, not JWT.
	app.Post("/webhooks/stripe", checkoutHandler.HandleStripeWebhook)

	app.Get("/health", handlers.HealthCheck)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the GatePass API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	// Protected routes with auth middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	setupCustomerRoutes(protected, authHandler, businessHandler, checkoutHandler, orderHandler)
	setupBusinessRoutes(protected, businessHandler, eventHandler, orderHandler)
}

func setupCustomerRoutes(
	router fiber.Router,
	authHandler *handlers.AuthHandler,
	businessHandler *handlers.BusinessHandler,
	checkoutHandler *handlers.CheckoutHandler,
	orderHandler *handlers.OrderHandler,
) {
	// Account routes
	router.Post("/logout", authHandler.LogoutUser)
	router.Post("/change-password", authHandler.ChangePassword)

	// Any authenticated account may open a business.
	router.Post("/business", businessHandler.RegisterBusiness)

	// Checkout routes
	router.Post("/checkout", middleware.HasPermission(models.PermissionCheckoutWrite), checkoutHandler.StartCheckout)

	// Order routes
	orders := router.Group("/orders", middleware.HasPermission(models.PermissionOrderRead))
	orders.Get("/", orderHandler.ListMyOrders)
	orders.Get("/:id", orderHandler.GetOrder)
}

func setupBusinessRoutes(
	router fiber.Router,
	businessHandler *handlers.BusinessHandler,
	eventHandler *handlers.EventHandler,
	orderHandler *handlers.OrderHandler,
) {
	biz := router.Group("/business", middleware.BusinessAuthMiddleware)

	// Profile and payment onboarding
	biz.Get("/", businessHandler.GetMyBusiness)
	biz.Post("/stripe-account", middleware.HasPermission(models.PermissionBusinessWrite), businessHandler.ConnectStripeAccount)

	// Fee configuration
	biz.Get("/fee-config", middleware.HasPermission(models.PermissionFeeConfigRead), businessHandler.GetFeeConfig)
	biz.Put("/fee-config", middleware.HasPermission(models.PermissionBusinessWrite), businessHandler.SetFeeOverride)
	biz.Delete("/fee-config", middleware.HasPermission(models.PermissionBusinessWrite), businessHandler.RemoveFeeOverride)
	biz.Put("/fee-payers", middleware.HasPermission(models.PermissionBusinessWrite), businessHandler.UpdateFeePayers)

	// Event management
	events := biz.Group("/events", middleware.HasPermission(models.PermissionEventWrite))
	events.Get("/", eventHandler.ListMyEvents)
	events.Post("/", eventHandler.CreateEvent)
	events.Post("/:id/publish", eventHandler.PublishEvent)
	events.Post("/:id/cancel", eventHandler.CancelEvent)
	events.Post("/:id/ticket-types", eventHandler.AddTicketType)

	// Orders and settlement
	biz.Get("/orders", middleware.HasPermission(models.PermissionReportRead), orderHandler.ListBusinessOrders)
	biz.Get("/settlement", middleware.HasPermission(models.PermissionReportRead), orderHandler.GetSettlementReport)
	biz.Get("/orders/:id/reconcile", middleware.HasPermission(models.PermissionReportRead), orderHandler.ReconcileOrder)
}
