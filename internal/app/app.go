package app

import (
	"errors"
	"time"

	"sneakerhead/internal/config"
	"sneakerhead/internal/handlers"
	"sneakerhead/internal/middleware"
	"sneakerhead/internal/repositories"
	"sneakerhead/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// New wires repositories, services and handlers into a fiber app.
// publisher may be nil when messaging is disabled.
func New(cfg *config.Config, db *gorm.DB, publisher services.EventPublisher, log *zap.Logger) *fiber.App {
	store := repositories.NewStore(db)

	authService := services.NewAuthService(store.Users, cfg.JWTSecret, cfg.SessionTTL, log)
	productService := services.NewProductService(store.Products, cfg.CatalogPageSize)
	categoryService := services.NewCategoryService(store.Categories)
	cartService := services.NewCartService(store, cfg.CartMaxQuantity, log)
	wishlistService := services.NewWishlistService(store, cartService)
	addressService := services.NewAddressService(store.Addresses)
	checkoutService := services.NewCheckoutService(store, services.NewPricing(cfg), publisher, log)
	orderService := services.NewOrderService(store, publisher, cfg.AdminPageSize, log)
	adminService := services.NewAdminService(store, log)
	exportService := services.NewExportService(store, productService, log)

	app := fiber.New(fiber.Config{
		AppName:      "sneakerhead",
		ErrorHandler: errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	app.Use(middleware.LoadSession(authService, cfg.SessionCookie))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"time":      time.Now().Format(time.RFC3339),
			"messaging": publisher != nil,
		})
	})

	requireUser := middleware.AuthRequired(authService, cfg.SessionCookie)
	requireAdmin := middleware.AdminRequired(authService, cfg.SessionCookie)

	cookie := handlers.SessionCookie{Name: cfg.SessionCookie, TTL: cfg.SessionTTL, Secure: cfg.CookieSecure}
	authHandler := handlers.NewAuthHandler(authService, cookie, log)
	// Registered before the admin group so /admin/login stays public.
	authHandler.RegisterRoutes(app)

	handlers.NewProductHandler(productService, categoryService, log).RegisterRoutes(app)
	handlers.NewCartHandler(cartService, log).RegisterRoutes(app, requireUser)

	handlers.NewWishlistHandler(wishlistService, log).RegisterRoutes(app.Group("/wishlist", requireUser))
	handlers.NewCheckoutHandler(checkoutService, orderService, log).RegisterRoutes(app.Group("/checkout", requireUser))

	account := app.Group("/user", requireUser)
	handlers.NewUserHandler(authService, orderService, authHandler, log).RegisterRoutes(account)
	handlers.NewAddressHandler(addressService, log).RegisterRoutes(account)

	admin := app.Group("/admin", requireAdmin)
	handlers.NewAdminHandler(handlers.AdminServices{
		Admin:      adminService,
		Products:   productService,
		Categories: categoryService,
		Orders:     orderService,
		Exports:    exportService,
	}, cfg.AdminPageSize, log).RegisterRoutes(admin)

	return app
}

// errorHandler renders errors that escape the handlers, such as unknown
// routes, in the JSON envelope.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			code = ferr.Code
			message = ferr.Message
		} else {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"success": false, "error": message})
	}
}
