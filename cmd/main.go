package main

import (
	"context"

	"pos-service/internal/cache"
	"pos-service/internal/checkout"
	"pos-service/internal/connectivity"
	"pos-service/internal/handler"
	mid "pos-service/internal/middleware"
	"pos-service/internal/offline"
	"pos-service/internal/store"
	"pos-service/pkg/config"
	"pos-service/pkg/database"
	"pos-service/pkg/jwtutil"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load .env file; optional, production environments set real env vars.
	_ = godotenv.Load()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting pos-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize the remote database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Local cache store. A Redis outage at startup degrades to an in-memory
	// store: reads and the pending queue keep working without durability.
	var cacheStore cache.Store
	redisStore, err := cache.NewRedisStore(&appConfig.Redis)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
		cacheStore = cache.NewMemoryStore()
	} else {
		defer redisStore.Close()
		cacheStore = redisStore
		log.Info("Local cache store connected", zap.String("addr", appConfig.Redis.Addr))
	}

	// Offline-first data layer
	dataStore := store.New(database.GetDB())
	monitor := connectivity.NewMonitor(cacheStore, database.Ping, log)
	reader := offline.NewReader(dataStore, cacheStore, monitor, log)
	writer := offline.NewWriter(dataStore, cacheStore, log)
	syncer := offline.NewSyncer(dataStore, cacheStore, monitor, appConfig.Sync, log)
	orchestrator := checkout.NewOrchestrator(writer, dataStore, monitor, log)

	handler.Init(handler.Deps{
		Config:       appConfig,
		Store:        dataStore,
		Cache:        cacheStore,
		Reader:       reader,
		Orchestrator: orchestrator,
		Syncer:       syncer,
		Monitor:      monitor,
	})

	// Background workers: connectivity probe and pending-queue drain.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Run(ctx, appConfig.Sync.ProbeInterval)
	go syncer.Run(ctx)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.Health)

	// Authentication
	e.POST("/login", handler.Login)
	if appConfig.AllowRegistration {
		e.POST("/register", handler.Register)
		log.Warn("Registration route is open; disable ALLOW_REGISTRATION in production")
	}

	// Catalog routes
	productAPI := e.Group("/api/products", mid.AuthMiddleware)
	productAPI.GET("", handler.ListProducts)
	productAPI.GET("/:id", handler.GetProduct)
	productAPI.POST("", handler.CreateProduct)
	productAPI.PUT("/:id", handler.UpdateProduct)
	productAPI.DELETE("/:id", handler.DeleteProduct)

	// Customer routes
	customerAPI := e.Group("/api/customers", mid.AuthMiddleware)
	customerAPI.GET("", handler.ListCustomers)
	customerAPI.GET("/:id", handler.GetCustomer)
	customerAPI.POST("", handler.CreateCustomer)
	customerAPI.PUT("/:id", handler.UpdateCustomer)

	// Sales
	api := e.Group("/api", mid.AuthMiddleware)
	api.POST("/checkout", handler.ProcessCheckout)
	api.GET("/sales", handler.ListSales)
	api.POST("/debt-payments", handler.RecordDebtPayment)
	api.GET("/reports/sales-trend", handler.GetSalesTrend, mid.RequireRole("admin"))

	// Offline sync surface
	api.GET("/sync/status", handler.GetSyncStatus)
	api.POST("/sync/flush", handler.FlushPending)
	api.POST("/sync/connectivity", handler.SetConnectivity)
	api.POST("/cache/invalidate/:collection", handler.InvalidateCache)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
