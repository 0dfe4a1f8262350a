// filepath: internal/cli/server.go
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hkids/internal/api"
	"hkids/internal/api/handlers"
	"hkids/internal/audit"
	"hkids/internal/config"
	hkidsdb "hkids/internal/db"
	"hkids/internal/logging"
	"hkids/internal/repository"
	"hkids/internal/services"
	"hkids/internal/services/auth"
)

// housekeepingInterval is how often the background sweep runs.
const housekeepingInterval = time.Hour

// runServer contains the logic to start the HTTP server with graceful shutdown.
func runServer() error {
	// Handle JWT secret
	if cfg.JWTSecret == "" {
		if cfg.JWT.Secret != "" {
			logging.Log.Info("Using JWT secret loaded from config file.")
			cfg.JWTSecret = cfg.JWT.Secret
		} else {
			logging.Log.Info("Generating new random JWT secret...")
			newSecret, err := auth.GenerateSecret()
			if err != nil {
				return fmt.Errorf("failed to generate JWT secret: %w", err)
			}
			cfg.JWT.Secret = newSecret
			cfg.JWTSecret = newSecret
			if err := config.SaveConfig(cfgFile, cfg); err != nil {
				logging.Log.Warnf("Failed to save new JWT secret to %s: %v", cfgFile, err)
			} else {
				logging.Log.Infof("New JWT secret saved to %s.", cfgFile)
			}
		}
	}

	// Database connection comes from DATABASE_URL or the discrete DB_*
	// variables; a missing password aborts startup before any dial.
	gateway := hkidsdb.Open(os.Getenv)
	defer gateway.Close()

	repo, err := repository.NewRepository(gateway)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}

	if err := repo.EnsureSchemaBootstrapped(); err != nil {
		logging.Log.Errorf("Failed to bootstrap database: %v", err)
		return err
	}

	// Service initialization
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	infoService := services.NewInfoService(gateway)
	userService := services.NewUserService(repo)
	tokenService := auth.NewTokenService(cfg, userService, repo)
	categoryService := services.NewCategoryService(repo)
	kidsService := services.NewKidsService(repo, storageService)
	housekeepingService := services.NewHousekeepingService(repo, storageService, housekeepingInterval)

	loggerAuditor := audit.NewLoggerAuditor(cfg.Logging.AuditEnabled)

	bookService := services.NewBookService(repo, storageService, cfg, loggerAuditor)

	authMiddleware := auth.NewMiddleware(userService, tokenService)
	loginLimiter := auth.NewRateLimiter(5, 15*time.Minute, 30*time.Minute)

	if err := userService.InitializeAdminUser(cfg); err != nil {
		return fmt.Errorf("failed to handle admin user: %w", err)
	}

	housekeepingService.Start()
	// No defer stop here, we stop explicitly during graceful shutdown

	h := handlers.NewHandlers(
		infoService,
		userService,
		bookService,
		categoryService,
		kidsService,
		housekeepingService,
		tokenService,
		loggerAuditor,
		storageService,
		loginLimiter,
		cfg,
	)

	r := api.SetupRouter(h, authMiddleware, cfg.Uploads.Dir)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	// Graceful shutdown setup
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logging.Log.Infof("Server starting on %s (Max Upload: %s)", serverAddr, cfg.Uploads.MaxUploadSize)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-stop
	logging.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop background services
	housekeepingService.Stop()
	loginLimiter.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Log.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logging.Log.Info("Server exiting")
	return nil
}
