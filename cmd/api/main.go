package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/probudget/probudget-backend/internal/config"
	"github.com/probudget/probudget-backend/internal/handler"
	"github.com/probudget/probudget-backend/internal/middleware"
	"github.com/probudget/probudget-backend/internal/repository/postgres"
	"github.com/probudget/probudget-backend/internal/service"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Apply schema migrations before opening the pool
	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Connect to database
	pool, err := postgres.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()
	log.Info().Msg("Connected to database")

	// Initialize repositories
	entryRepo := postgres.NewEntryRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	savingRepo := postgres.NewSavingRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	recurringRepo := postgres.NewRecurringRepository(pool)
	labelRepo := postgres.NewLabelRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)

	// Initialize services
	activityService := service.NewActivityService(activityRepo)
	ledgerService := service.NewLedgerService(entryRepo, activityService)
	budgetService := service.NewBudgetService(budgetRepo, activityService)
	savingService := service.NewSavingService(savingRepo, activityService)
	categoryService := service.NewCategoryService(categoryRepo, entryRepo, budgetRepo, activityService)
	recurringService := service.NewRecurringService(recurringRepo, activityService)
	materializer := service.NewMaterializer(recurringRepo, entryRepo, ledgerService)

	// Seed default categories on first boot
	if err := categoryService.SeedDefaults(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed default categories")
	}

	// Materialize any recurring entries that came due while the server was
	// down
	materializer.MaterializeAll(context.Background(), time.Now().UTC())

	// Initialize handlers
	entryHandler := handler.NewEntryHandler(ledgerService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	savingHandler := handler.NewSavingHandler(savingService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	recurringHandler := handler.NewRecurringHandler(recurringService, materializer)
	labelHandler := handler.NewLabelHandler(labelRepo)
	activityHandler := handler.NewActivityHandler(activityService)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Per-IP rate limiting
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()
	e.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, entryHandler, budgetHandler, savingHandler, categoryHandler, recurringHandler, labelHandler, activityHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("Request")

			return nil
		}
	}
}
