// Package main is the entry point for the Voya API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pkordes/voya/internal/auth"
	"github.com/pkordes/voya/internal/config"
	"github.com/pkordes/voya/internal/handler"
	"github.com/pkordes/voya/internal/mail"
	"github.com/pkordes/voya/internal/metrics"
	"github.com/pkordes/voya/internal/middleware"
	"github.com/pkordes/voya/internal/redisstore"
	"github.com/pkordes/voya/internal/repo"
	"github.com/pkordes/voya/internal/service"
	"github.com/pkordes/voya/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if err := migrate(ctx, cfg.DatabaseURL); err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	// --- Redis ------------------------------------------------------------
	rdb, err := redisstore.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// --- Metrics ----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// --- Services ---------------------------------------------------------
	trips := repo.NewTripRepo(pool)
	stops := repo.NewStopRepo(pool)
	users := repo.NewUserRepo(pool)

	accounts := service.NewAccountService(
		users,
		auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL),
		auth.NewHasher(cfg.Auth.BcryptCost),
		redisstore.NewRevocations(rdb),
		newMailer(cfg, logger),
		service.AccountConfig{BaseURL: cfg.BaseURL, VerificationTTL: cfg.Auth.VerificationTTL},
	)

	srv := handler.NewServer(
		service.NewTripService(trips),
		service.NewStopService(trips, stops),
		service.NewItineraryService(trips, stops),
		service.NewExportService(trips, stops),
		accounts,
		handler.Options{
			CookieSecure: cfg.Auth.CookieSecure,
			AuthLimiter: middleware.NewRateLimiter(
				redisstore.NewLimiter(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow), logger),
			Metrics: m,
		},
	)

	// --- Router -----------------------------------------------------------
	r, err := newRouter(srv, cfg, m, logger)
	if err != nil {
		slog.Error("invalid router configuration", "error", err)
		os.Exit(1)
	}

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	metricsSrv := newMetricsServer(cfg.MetricsAddr, reg)
	go func() {
		slog.Info("metrics server starting", "addr", metricsSrv.Addr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server error", "error", err)
		}
	}()

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr, "mail_enabled", cfg.MailEnabled())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics shutdown error", "error", err)
	}
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies pending goose migrations. goose works on database/sql,
// so it gets its own short-lived connection rather than the pool.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := migrations.Up(ctx, db)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "count", n)
	return nil
}

func newMailer(cfg config.Config, logger *slog.Logger) mail.Mailer {
	if !cfg.MailEnabled() {
		logger.Warn("MAIL_USERNAME not set; verification links will be logged")
		return mail.LogMailer{Logger: logger}
	}
	return mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.Mail.Server,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	})
}
