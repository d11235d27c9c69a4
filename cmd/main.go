package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"bistro/internal/handler"
	"bistro/internal/metrics"
	"bistro/internal/repositories"
	"bistro/internal/router"
	"bistro/internal/service"
	"bistro/pkg/database"
	"bistro/pkg/envconfig"
	"bistro/pkg/flags"
	"bistro/pkg/logger"
	"bistro/pkg/shutdownsetup"
)

func main() {
	// Parse command-line flags
	flagConfig := flags.Parse()

	// Validate flag configuration
	if err := flagConfig.Validate(); err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		return
	}

	envErr := envconfig.LoadEnvFile(".env")

	loggerConfig := logger.Config{
		Level:        envconfig.GetLogLevel(),
		Format:       envconfig.GetEnv("LOG_FORMAT", "json"),
		Output:       envconfig.GetEnv("LOG_OUTPUT", "stdout"),
		EnableCaller: envconfig.GetEnv("LOG_ENABLE_CALLER", "true") == "true",
		Environment:  envconfig.GetEnv("ENVIRONMENT", "development"),
	}

	appLogger := logger.New(loggerConfig)

	if envErr != nil {
		appLogger.Warn("Failed to load .env file", "error", envErr)
	} else {
		appLogger.Debug(".env file loaded successfully")
	}

	appLogger.Info("Starting Bistro application",
		"environment", loggerConfig.Environment,
		"log_level", loggerConfig.Level)

	dbConfig := envconfig.LoadDatabaseConfig()

	// Establish database connection
	db, err := database.NewConnection(dbConfig, appLogger)
	if err != nil {
		appLogger.Error("Failed to establish database connection", "error", err)
		return
	}
	appLogger.Info("Database connection established successfully")

	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := db.ValidateConnection(5 * time.Second); err != nil {
		appLogger.Error("Database connection validation failed", "error", err)
		return
	}

	if err := db.InitSchema(); err != nil {
		appLogger.Error("Failed to initialize database schema", "error", err)
		return
	}

	if err := db.HealthCheck(); err != nil {
		appLogger.Error("Database health check failed", "error", err)
	} else {
		appLogger.Info("Database health check passed")
	}

	metricsRegistry := metrics.NewRegistry()

	// Initialize repositories with logger and database connection
	inventoryRepo := repositories.NewInventoryRepository(appLogger, db)
	menuRepo := repositories.NewMenuRepository(appLogger, db, inventoryRepo)
	orderRepo := repositories.NewOrderRepository(appLogger, db)
	reportRepo := repositories.NewReportRepository(orderRepo, appLogger)

	// Initialize services with logger
	inventoryService := service.NewInventoryService(inventoryRepo, metricsRegistry, appLogger)
	menuService := service.NewMenuService(menuRepo, appLogger)
	orderService := service.NewOrderService(db, orderRepo, menuRepo, inventoryRepo, envconfig.GetVATRate(), metricsRegistry, appLogger)
	reportService := service.NewReportService(reportRepo, appLogger)

	// Initialize handlers with logger
	orderHandler := handler.NewOrderHandler(orderService, appLogger)
	menuHandler := handler.NewMenuHandler(menuService, appLogger)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, appLogger)
	reportHandler := handler.NewReportHandler(reportService, appLogger)

	healthCheck := func(w http.ResponseWriter, r *http.Request) {
		if err := db.HealthCheck(); err != nil {
			appLogger.Error("Health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}

	mux := router.NewRouter(orderHandler, menuHandler, inventoryHandler, reportHandler, metricsRegistry, healthCheck)

	handler := appLogger.HTTPMiddleware(mux)

	initialPort := flagConfig.Port
	if initialPort == "" {
		initialPort = envconfig.GetEnv("PORT", "8080")
	}
	host := envconfig.GetEnv("HOST", "localhost")

	port := initialPort

	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		server.Addr = host + ":" + port

		go func() {
			appLogger.Info("Starting HTTP server",
				"host", host,
				"port", port,
				"address", server.Addr)

			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLogger.Error("Server error", "error", err)
				serverErrors <- err
			}
		}()

		select {
		case err := <-serverErrors:
			if strings.Contains(err.Error(), "address already in use") && i < maxRetries-1 {
				portNum := 8080 + i + 1
				port = fmt.Sprintf("%d", portNum)
				appLogger.Warn("Port already in use, trying alternative port",
					"current_port", server.Addr,
					"next_port", port)
				continue
			} else {
				appLogger.Error("Failed to start server after retries", "error", err)
				return
			}
		case <-time.After(200 * time.Millisecond):
			appLogger.Info("Server started successfully", "port", port)
		}

		break
	}

	select {
	case err := <-serverErrors:
		appLogger.Error("Could not start server", "error", err)
		return
	default:
		shutdownsetup.SetupGracefulShutdown(server, appLogger)
		db.LogStats()
	}
}
