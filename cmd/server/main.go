// Package main provides the entry point for the admin API server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/brightclass/admin-api/internal/bulkops/executor"
	"github.com/brightclass/admin-api/internal/bulkops/registry"
	bulkopsRouter "github.com/brightclass/admin-api/internal/bulkops/router"
	appConfig "github.com/brightclass/admin-api/internal/config"
	"github.com/brightclass/admin-api/internal/database/config"
	"github.com/brightclass/admin-api/internal/database/database"
	"github.com/brightclass/admin-api/internal/database/migrate"
	directoryModel "github.com/brightclass/admin-api/internal/directory/model"
	directoryRepository "github.com/brightclass/admin-api/internal/directory/repository"
	directoryRouter "github.com/brightclass/admin-api/internal/directory/router"
	"github.com/brightclass/admin-api/internal/health"
	"github.com/brightclass/admin-api/internal/middleware"
	"github.com/brightclass/admin-api/pkg/logger"
)

func main() {
	cfg := appConfig.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	appLogger, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	dbCfg := config.LoadConfigFromEnv()
	db, err := database.NewWithConfig(dbCfg)
	if err != nil {
		appLogger.Fatalw("failed to connect to database", "error", err)
	}
	defer func() {
		if closeErr := database.Close(db); closeErr != nil {
			appLogger.Errorw("failed to close database", "error", closeErr)
		}
	}()

	// golang-migrate drives the postgres schema; sqlite (local development)
	// uses gorm auto-migration instead.
	if dbCfg.Driver == "sqlite" {
		if err := db.AutoMigrate(&directoryModel.User{}); err != nil {
			appLogger.Fatalw("failed to migrate sqlite schema", "error", err)
		}
	} else {
		if err := migrate.Migrate(db); err != nil {
			appLogger.Fatalw("failed to apply migrations", "error", err)
		}
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Tenant())
	r.Use(middleware.Logger(appLogger))
	r.Use(middleware.Recovery(appLogger))

	var runner registry.Runner
	if cfg.BulkOps.Mode == "simulate" {
		runner = registry.NewSimulator(cfg.BulkOps.TickInterval, appLogger)
	} else {
		repo := directoryRepository.New(db, appLogger)
		runner = executor.New(repo, appLogger)
	}
	reg := registry.New(runner, cfg.BulkOps, appLogger)
	defer reg.Close()

	healthHandler := health.New(db, appLogger)
	r.GET("/health", healthHandler.Check)

	directoryRouter.RegisterRoutes(r, db, appLogger)
	bulkopsRouter.RegisterRoutes(r, reg, appLogger)

	server := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Infow("server starting", "address", server.Addr, "bulkops_mode", cfg.BulkOps.Mode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Infow("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Errorw("graceful shutdown failed", "error", err)
	}
}
