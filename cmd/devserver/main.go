// Package main starts the storefront development backend, setting up
// configuration, logging, the database connection, repositories,
// services, and the HTTP router.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/prodan/storefront/internal/config"
	"github.com/prodan/storefront/internal/db"
	"github.com/prodan/storefront/internal/logger"
	"github.com/prodan/storefront/internal/repository"
	"github.com/prodan/storefront/internal/server/handler/http"
	"github.com/prodan/storefront/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Purge expired password-reset tokens in the background.
	db.StartResetTokenCleaner(context.Background(), postgresDB, time.Hour, zapLogger)

	// Initialize repositories for accounts and the product catalog.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	productRepo := repository.NewPostgresProductRepository(postgresDB)

	// Initialize business-logic services.
	accounts := service.NewAccountService(userRepo, options.JWTSecret)
	catalog := service.NewCatalogService(productRepo)
	payments := service.NewPaymentService()

	// Create HTTP handlers for auth, catalog, and payment endpoints.
	authHandler := &http.AuthHandler{Accounts: accounts}
	productHandler := &http.ProductHandler{
		Catalog:   catalog,
		Admins:    accounts,
		UploadDir: options.UploadDir,
		Log:       zapLogger,
	}
	paymentHandler := &http.PaymentHandler{Payments: payments}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, productHandler, paymentHandler, options.JWTSecret, zapLogger)

	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
