// Command cleanup deletes sign-ups whose verification link expired before
// the account was registered. Run it from cron; it exits when done.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pkordes/voya/internal/auth"
	"github.com/pkordes/voya/internal/config"
	"github.com/pkordes/voya/internal/mail"
	"github.com/pkordes/voya/internal/repo"
	"github.com/pkordes/voya/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Only the user repository is touched; sessions and mail are never used.
	accounts := service.NewAccountService(
		repo.NewUserRepo(pool),
		auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL),
		auth.NewHasher(cfg.Auth.BcryptCost),
		nil,
		mail.LogMailer{Logger: logger},
		service.AccountConfig{BaseURL: cfg.BaseURL, VerificationTTL: cfg.Auth.VerificationTTL},
	)

	n, err := accounts.CleanupExpired(ctx)
	if err != nil {
		logger.Error("cleanup failed", "error", err)
		os.Exit(1)
	}
	logger.Info("deleted expired unverified users", "count", n)
}
