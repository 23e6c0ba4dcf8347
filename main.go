package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"atelier/internal/config"
	"atelier/internal/handlers"
	"atelier/internal/middleware"
	"atelier/internal/models"
	"atelier/internal/repositories"
	"atelier/internal/services"
	"atelier/pkg/payment"
	"atelier/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg.Log)

	// --- Database ---
	// Postgres in production; the sqlite driver keeps local
	// development dependency-free. TranslateError is required so the
	// reconciler can detect duplicate checkout sessions portably.
	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open("atelier.db")
	}
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	err = db.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.User{},
		&models.Order{}, &models.OrderItem{},
		&models.HeroBanner{}, &models.Popup{}, &models.MenuItem{},
		&models.Page{}, &models.SiteSetting{},
		&models.Post{}, &models.Comment{},
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	// --- Cart store ---
	var cartStore repositories.CartStore
	if opts, err := redis.ParseURL(cfg.RedisURL); err == nil {
		cartStore = repositories.NewRedisCartStore(redis.NewClient(opts), cfg.CartTTL)
	} else {
		logger.Warn().Err(err).Msg("invalid REDIS_URL, falling back to in-memory cart store")
		cartStore = repositories.NewMemoryCartStore()
	}

	// --- RabbitMQ ---
	var publisher services.EventPublisher
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("RabbitMQ unavailable, order events disabled")
	} else {
		defer mqClient.Close()
		publisher = mqClient
	}

	// --- Payment gateway ---
	gateway := payment.NewClient(payment.Config{
		BaseURL:       cfg.Payment.BaseURL,
		APIKey:        cfg.Payment.APIKey,
		WebhookSecret: cfg.Payment.WebhookSecret,
	})

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	contentRepo := repositories.NewGORMContentRepository(db)
	postRepo := repositories.NewGORMPostRepository(db)

	// --- Services ---
	productService := services.NewProductService(productRepo, categoryRepo)
	cartService := services.NewCartService(cartStore, productRepo, logger)
	checkoutService := services.NewCheckoutService(cartStore, gateway, cfg.Payment, logger)
	reconcileService := services.NewReconcileService(orderRepo, productRepo, cartStore, gateway, publisher, logger)
	orderService := services.NewOrderService(orderRepo, logger)
	contentService := services.NewContentService(contentRepo)
	blogService := services.NewBlogService(postRepo, userRepo)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, logger)

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(productService, blogService)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, reconcileService, userRepo)
	webhookHandler := handlers.NewWebhookHandler(reconcileService, cfg.Payment.WebhookSecret, logger)
	orderHandler := handlers.NewOrderHandler(orderService)
	contentHandler := handlers.NewContentHandler(contentService)
	blogHandler := handlers.NewBlogHandler(blogService, authService)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(productService, contentService, blogService, orderService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(fiberlogger.New())

	// Webhook first: it carries its own authentication (the payload
	// signature) and must not depend on cookies or JWTs.
	webhookHandler.RegisterRoutes(app)

	apiV1 := app.Group("/api/v1")
	apiV1.Use(middleware.CartSession(cfg.CartTTL))
	apiV1.Use(middleware.OptionalAuth(authService))

	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)
	contentHandler.RegisterRoutes(apiV1)
	blogHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	checkoutHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	orderHandler.RegisterRoutes(protected)

	staff := apiV1.Group("", middleware.AuthRequired(authService), middleware.StaffRequired())
	adminHandler.RegisterRoutes(staff)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// --- Order event consumer ---
	// Mirrors paid orders into the log for now; fulfillment hooks
	// subscribe to the same queue.
	if mqClient != nil {
		if err := mqClient.ConsumeOrderEvents(func(msg amqp.Delivery) error {
			logger.Info().Str("type", msg.Type).RawJSON("body", msg.Body).Msg("order event received")
			return nil
		}); err != nil {
			logger.Warn().Err(err).Msg("failed to start order event consumer")
		}
	}

	// --- Start HTTP server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info().Str("port", cfg.AppPort).Msg("starting server")
		if err := app.Listen(cfg.AppPort); err != nil {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	logger.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
	}
	logger.Info().Msg("server stopped")
}
