// Package main is the entry point for the LeadPress server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadpress/internal/cache"
	"leadpress/internal/config"
	"leadpress/internal/database"
	"leadpress/internal/handlers"
	"leadpress/internal/mailer"
	"leadpress/internal/router"
	"leadpress/internal/session"
	"leadpress/internal/storage"
	"leadpress/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Create the initial admin account (no-op if users already exist).
	if err := database.Seed(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (Redis-compatible session store + cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Initialize session store backed by Valkey.
	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Initialize the public response cache.
	respCache := cache.NewResponseCache(valkeyClient, cache.DefaultResponseTTL)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)
	tagStore := store.NewTagStore(db)
	leadStore := store.NewLeadStore(db)
	applicationStore := store.NewApplicationStore(db)

	// Connect to S3-compatible object storage (optional — app works without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured — media uploads disabled")
	}

	// Initialize the SMTP sender (optional — intake still persists without it).
	smtp, err := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser,
		cfg.SMTPPassword, cfg.FromEmail, cfg.AdminEmail)
	if err != nil {
		slog.Error("failed to initialize mailer", "error", err)
		os.Exit(1)
	}
	var mailSender mailer.Sender
	if smtp != nil {
		mailSender = smtp
		slog.Info("smtp mailer ready", "host", cfg.SMTPHost)
	} else {
		slog.Warn("smtp not configured — intake notifications disabled")
	}

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(postStore, categoryStore, tagStore,
		leadStore, applicationStore, storageClient, respCache)
	authHandlers := handlers.NewAuth(sessionStore, userStore)
	publicHandlers := handlers.NewPublic(postStore, categoryStore, tagStore,
		leadStore, applicationStore, mailSender, respCache)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, adminHandlers, authHandlers, publicHandlers)

	// Create the HTTP server with sensible timeouts. WriteTimeout covers
	// media uploads to S3.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
