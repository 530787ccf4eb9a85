package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartPriceMarket/app/echo-server/router"
	"smartPriceMarket/business/pricing"
	"smartPriceMarket/business/purchase"
	userService "smartPriceMarket/business/user"
	"smartPriceMarket/internal/middleware"
	"smartPriceMarket/internal/repository/artifacts"
	"smartPriceMarket/internal/repository/notification"
	psqlRepo "smartPriceMarket/internal/repository/postgres"
	redisRepo "smartPriceMarket/internal/repository/redis"
	"smartPriceMarket/internal/rest"
	"smartPriceMarket/pkg/config"
	"smartPriceMarket/pkg/database"
	redisdb "smartPriceMarket/pkg/database/redis"
	"smartPriceMarket/pkg/logger"
	"smartPriceMarket/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Smart Pricing API", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer func() {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Failed to close Redis client", err)
		}
	}()

	logger.Info("Redis connected successfully")

	// Load model artifacts. A failure here does not stop the server:
	// account and purchase endpoints keep working while the prediction
	// endpoints answer 503 until the artifacts are fixed and the
	// process restarted.
	bundle, err := artifacts.Load(cfg.Models.Dir)
	if err != nil {
		logger.Error("Failed to load model artifacts, pricing pipeline disabled", err)
		bundle = nil
	}

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	purchaseRepo := psqlRepo.NewPurchaseRepository(db)
	predictionLogRepo := psqlRepo.NewPredictionLogRepository(db)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)

	// Init service
	userSvc := userService.NewUserService(userRepo, validate, mailjetEmail, tokenRepo, cfg.App.AppEmailVerificationKey, cfg.App.AppDeploymentUrl)
	purchaseSvc := purchase.NewPurchaseService(purchaseRepo)
	pricingSvc := pricing.NewPricingService(bundle, userRepo, purchaseRepo, predictionLogRepo)

	// Init handler
	userHandler := rest.NewUserHandler(userSvc)
	purchaseHandler := rest.NewPurchaseHandler(purchaseSvc)
	pricingHandler := rest.NewPricingHandler(pricingSvc, userSvc)
	pricingAdminHandler := rest.NewPricingAdminHandler(predictionLogRepo)

	// Init metrics
	metrics.Init()

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(middleware.HTTPMetrics())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":        "ok",
			"models_loaded": pricingSvc.Enabled(),
			"version":       cfg.App.Version,
		})
	})

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithRedis(userSvc)
	optionalAuth := middleware.OptionalAuth(userSvc)
	adminOnly := middleware.AdminOnly()
	selfOrAdmin := middleware.SelfOrAdmin()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, selfOrAdmin)
	router.SetPurchaseRoutes(api, purchaseHandler, authRequired)
	router.SetPricingRoutes(api, pricingHandler, optionalAuth)
	router.SetPricingAdminRoutes(api, pricingAdminHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
