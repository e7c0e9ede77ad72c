package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ledgerapp "github.com/talabia/backend/internal/application/ledger"
	"github.com/talabia/backend/internal/infrastructure/cache"
	"github.com/talabia/backend/internal/infrastructure/config"
	"github.com/talabia/backend/internal/infrastructure/logger"
	"github.com/talabia/backend/internal/infrastructure/persistence"
	"github.com/talabia/backend/internal/interfaces/http/handler"
	"github.com/talabia/backend/internal/interfaces/http/middleware"
	"github.com/talabia/backend/internal/interfaces/http/router"
)

//	@title			Talabia Ledger API
//	@version		1.0
//	@description	Order financial reconciliation engine: VAT/commission decomposition, settlements, refund reversals and double-entry journal.

//	@contact.name	API Support
//	@contact.url	https://github.com/talabia/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Talabia Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Idempotency store: Redis when available, in-memory fallback for
	// single-instance development setups
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize repositories
	rateSettingRepo := persistence.NewGormRateSettingRepository(db.DB)

	// Transaction scope binding the ledger repositories to one gorm transaction
	ledgerScope := persistence.NewGormLedgerTransactionScope(db.DB)

	// Initialize application services
	rateProvider := ledgerapp.NewSettingsRateProvider(rateSettingRepo, log)
	checkoutService := ledgerapp.NewCheckoutService(ledgerScope, rateProvider, log)
	settlementService := ledgerapp.NewSettlementService(ledgerScope, log)
	refundService := ledgerapp.NewRefundService(ledgerScope, idempotencyStore, log)
	accountingService := ledgerapp.NewAccountingService(ledgerScope, settlementService)
	rateSettingService := ledgerapp.NewRateSettingService(rateSettingRepo, log)

	// Initialize handlers
	orderHandler := handler.NewOrderHandler(checkoutService, accountingService)
	settlementHandler := handler.NewSettlementHandler(settlementService, accountingService)
	refundHandler := handler.NewRefundHandler(refundService)
	journalHandler := handler.NewJournalHandler(accountingService)
	rateSettingHandler := handler.NewRateSettingHandler(rateSettingService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Tenant resolution from the X-Tenant-ID header
	tenantConfig := middleware.TenantMiddlewareConfig{
		HeaderEnabled: true,
		SkipPaths:     []string{"/health", "/api/v1/ping", "/api/v1/system/ping", "/api/v1/system/info"},
		Required:      false,
		Logger:        log,
	}
	r.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	// Order checkout and lifecycle
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("", orderHandler.CreateOrder)
	orderRoutes.GET("", orderHandler.ListOrders)
	orderRoutes.GET("/:id", orderHandler.GetOrderBreakdown)
	orderRoutes.POST("/:id/status", orderHandler.TransitionOrder)
	orderRoutes.POST("/:id/courier", orderHandler.AssignCourier)
	orderRoutes.POST("/:id/lines/:line_id/refunds", refundHandler.RefundLine)

	// Settlements
	settlementRoutes := router.NewDomainGroup("settlements", "/settlements")
	settlementRoutes.GET("/due", settlementHandler.GetOutstandingDue)
	settlementRoutes.GET("", settlementHandler.ListSettlements)
	settlementRoutes.POST("", settlementHandler.CreateSettlement)

	// Journal reporting
	journalRoutes := router.NewDomainGroup("journal", "/journal")
	journalRoutes.GET("/entries", journalHandler.ListJournalEntries)
	journalRoutes.GET("/entries/:id", journalHandler.GetJournalEntry)

	// Rate configuration
	rateRoutes := router.NewDomainGroup("rates", "/rates")
	rateRoutes.GET("", rateSettingHandler.ListRateSettings)
	rateRoutes.POST("", rateSettingHandler.CreateRateSetting)
	rateRoutes.PUT("/:id", rateSettingHandler.UpdateRateSetting)
	rateRoutes.DELETE("/:id", rateSettingHandler.DeactivateRateSetting)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/info", systemHandler.Info)

	// Register all domain groups
	r.Register(orderRoutes).
		Register(settlementRoutes).
		Register(journalRoutes).
		Register(rateRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
