package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campus-events-api/internal/config"
	"github.com/campus-events-api/internal/infrastructure/dynamo"
	"github.com/campus-events-api/internal/infrastructure/google"
	jwtinfra "github.com/campus-events-api/internal/infrastructure/jwt"
	"github.com/campus-events-api/internal/infrastructure/mail"
	"github.com/campus-events-api/internal/infrastructure/oauth"
	"github.com/campus-events-api/internal/infrastructure/postgres"
	s3infra "github.com/campus-events-api/internal/infrastructure/s3"
	transporthttp "github.com/campus-events-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("open store", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer closeStores()

	deps := &transporthttp.Deps{
		Stores: stores,
		Mailer: mail.New(cfg),
	}

	// JWT provider (optional, sessions are disabled if keys are missing).
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		deps.JWTProvider = p
	} else {
		slog.Warn("JWT provider not available", "err", err)
	}

	if cfg.StorageEnabled() {
		s3Client, err := s3infra.NewClient(cfg)
		if err != nil {
			slog.Error("create s3 client", "err", err)
			os.Exit(1)
		}
		deps.ObjectStore = s3infra.NewStore(s3Client, cfg.Storage.PublicURL)
	} else {
		slog.Warn("object storage not configured, uploads return a placeholder URL")
	}

	if p := oauth.NewProvider(cfg.OAuth); p != nil {
		deps.OAuth = p
	}
	if cfg.GoogleClientID != "" {
		deps.Google = google.NewVerifier(cfg.GoogleClientID)
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "err", err)
		return
	}
	slog.Info("server stopped")
}

// openStores connects the backend selected by STORE_DRIVER and prepares its
// schema. The returned func releases the connection.
func openStores(ctx context.Context, cfg *config.Config) (transporthttp.Stores, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDynamo:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return transporthttp.Stores{}, nil, err
		}
		// Creates the tables if they don't exist.
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		t := cfg.DynamoTables
		return transporthttp.Stores{
			Users:        dynamo.NewUserRepo(client, t.Users),
			Clubs:        dynamo.NewClubRepo(client, t.Clubs),
			Events:       dynamo.NewEventRepo(client, t.Events),
			PendingClubs: dynamo.NewPendingClubRepo(client, t.PendingClubs),
			OTPs:         dynamo.NewOTPRepo(client, t.ClubOTPs),
		}, func() {}, nil
	default:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return transporthttp.Stores{}, nil, err
		}
		if err := postgres.CreateSchema(ctx, db); err != nil {
			db.Close()
			return transporthttp.Stores{}, nil, err
		}
		return transporthttp.Stores{
			Users:        postgres.NewUserRepo(db),
			Clubs:        postgres.NewClubRepo(db),
			Events:       postgres.NewEventRepo(db),
			PendingClubs: postgres.NewPendingClubRepo(db),
			OTPs:         postgres.NewOTPRepo(db),
		}, func() { db.Close() }, nil
	}
}
