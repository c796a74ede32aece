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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"

	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/api"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/auth"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/config"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/logging"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/mcp"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/ndis"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/repository"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/tls"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/workflow"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuration loading failed: %v", err)
	}

	// Initialize logging
	logger, err := logging.NewLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Logger initialization failed: %v", err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Server.Environment),
		zap.String("platform_base_url", cfg.Platform.BaseURL),
		zap.String("config_file", viper.ConfigFileUsed()),
	)

	if cfg.Platform.AdminKey == "admin-development-key" {
		logger.Warn("platform admin key is the development default, override it in any real deployment")
	}

	logger.Info("Starting NDIS Onboarding Service")

	// Initialize database connection for the organisation registry
	dbPool, err := initDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Database initialization failed", zap.Error(err))
	}
	defer dbPool.Close()

	logger.Info("Database connected")

	// Initialize repository layer
	orgStore := repository.NewPostgresOrganisationStore(dbPool)

	// Initialize the platform client and the workflow service. Reads carry
	// the configured service token when one is set; dev platforms accept
	// unauthenticated reads. The status update is signed with the admin key.
	platform := ndis.NewClient(
		cfg.Platform.BaseURL,
		time.Duration(cfg.Platform.TimeoutSeconds)*time.Second,
		auth.PlatformAuthorizer(cfg.Platform.BearerToken),
		auth.APIKeyAuthorizer{Key: cfg.Platform.AdminKey},
		logger,
	)
	workflowService := workflow.NewService(platform, workflow.NewMemoryRunStore(), logger)

	logger.Info("Service layer initialized")

	// Create Echo server
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("ndis-onboarding"))

	// Initialize authentication
	authz, err := auth.New(ctx, cfg, orgStore, logger)
	if err != nil {
		logger.Fatal("auth initialization failed", zap.Error(err))
	}

	// Register auth handlers
	e.GET("/login", echo.WrapHandler(http.HandlerFunc(authz.LoginHandler)))
	e.GET("/auth/callback", echo.WrapHandler(http.HandlerFunc(authz.CallbackHandler)))
	e.GET("/logout", echo.WrapHandler(http.HandlerFunc(authz.LogoutHandler)))

	// Mount REST API handlers
	// Create a group for /api/v1 and apply auth middleware
	server := api.NewServer(workflowService, logger)
	e.GET("/healthz", server.HandleHealth)

	apiGroup := e.Group("/api/v1")
	apiGroup.Use(echo.WrapMiddleware(authz.RequireAuth))
	api.RegisterHandlers(apiGroup, server)

	logger.Info("REST API handlers mounted")

	// Mount MCP protocol handlers
	mcpServer := mcp.NewServer(workflowService)
	mcpHandlers := http.NewServeMux()
	mcp.MountHTTPHandlers(mcpHandlers, mcpServer.GetMCPServer())
	e.Any("/mcp/*", echo.WrapHandler(mcpHandlers))

	logger.Info("MCP protocol handlers mounted")

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if cfg.TLS.Enable {
		// use TLS port 8443
		addr = fmt.Sprintf("%s:%d", cfg.Server.Host, 8443)
	}
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("address", addr), zap.Bool("tls", cfg.TLS.Enable))
		if cfg.TLS.Enable {
			// ensure certificate exists if requested
			if cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "" {
				logger.Error("TLS enabled but cert/key file not provided")
				serverErrors <- httpServer.ListenAndServe()
				return
			}
			// generate if missing and hostnames provided
			if _, err := os.Stat(cfg.TLS.CertFile); os.IsNotExist(err) {
				if len(cfg.TLS.Hostnames) > 0 {
					certOpts := tls.CertOptions{
						Hosts:        cfg.TLS.Hostnames,
						Organization: cfg.TLS.Organization,
						ValidityDays: cfg.TLS.ValidityDays,
					}
					if err := tls.GenerateSelfSignedCert(cfg.TLS.CertFile, cfg.TLS.KeyFile, certOpts); err != nil {
						logger.Error("failed to generate self-signed cert", zap.Error(err))
					}
				}
			}
			serverErrors <- httpServer.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			serverErrors <- httpServer.ListenAndServe()
		}
	}()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Create shutdown context with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", zap.Error(err))
			if err := httpServer.Close(); err != nil {
				logger.Error("Server close error", zap.Error(err))
			}
		}

		logger.Info("Server stopped gracefully")
	}
}

func initDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	logger.Debug("Initializing database connection")

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
