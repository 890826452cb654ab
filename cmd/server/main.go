// Package main initializes and starts the contact book HTTP server, setting
// up configuration, logging, the database connection, repositories, services,
// sessions, and handlers.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/avolkov/contactbook/internal/config"
	"github.com/avolkov/contactbook/internal/db"
	"github.com/avolkov/contactbook/internal/logger"
	"github.com/avolkov/contactbook/internal/repository"
	"github.com/avolkov/contactbook/internal/server/handler/http"
	"github.com/avolkov/contactbook/internal/service"
	"github.com/avolkov/contactbook/internal/session"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// A local .env is optional; the environment wins either way.
	if err := godotenv.Load(); err != nil {
		stdlog.Println("no .env file found; relying on existing environment")
	}

	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Open the store and apply the schema.
	store, err := db.Open(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer store.Close()

	// Initialize repositories for contacts and users.
	contactRepo := repository.NewSQLContactRepository(store)
	userRepo := repository.NewSQLUserRepository(store)

	// Initialize business-logic services.
	contactService := service.NewContactService(contactRepo)
	authService := service.NewAuthService(userRepo)

	// Provision the default account on first start.
	if err := authService.EnsureDefaultUser(context.Background()); err != nil {
		zapLogger.Fatal("cannot provision default user", zap.Error(err))
	}

	// Session store with background expiry sweeping.
	sessions := session.NewManager(time.Duration(options.SessionTTLMinutes) * time.Minute)
	cleanerCtx, stopCleaner := context.WithCancel(context.Background())
	defer stopCleaner()
	sessions.StartExpiryCleaner(cleanerCtx, time.Minute, zapLogger)

	// Parse the embedded view templates.
	views, err := http.NewRenderer(zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot parse templates", zap.Error(err))
	}

	// Create HTTP handlers for contacts and auth pages.
	contactHandler := &http.ContactHandler{
		Contacts: contactService,
		Users:    authService,
		Views:    views,
		Log:      zapLogger,
	}
	authHandler := &http.AuthHandler{
		Auth:  authService,
		Views: views,
		Log:   zapLogger,
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(contactHandler, authHandler, sessions, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
