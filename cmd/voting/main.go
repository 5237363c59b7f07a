package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voting/internal/config"
	"voting/internal/observability/logging"
	"voting/internal/observability/metrics"
	impl "voting/internal/service/impl"
	"voting/internal/store"
	httpx "voting/internal/transport/http"
	"voting/pkg/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "voting",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			logger.Error("migrate", "error", err)
			os.Exit(1)
		}
	}

	metrics.MustRegister("voting")

	st := store.New(gdb)

	audit := impl.NewAuditRecorderImpl(st)

	creds := impl.NewCredentialServiceHS256(impl.CredentialConfig{
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		TTL:        cfg.CredentialTTL,
		SigningKey: []byte(cfg.SigningKey),
	}, st)

	// Dev sender logs deliveries; swap in a real channel behind the same
	// interface for production.
	sender := impl.NewLogSender()

	sessions := impl.NewSessionServiceImpl(st, audit)
	candidates := impl.NewCandidateServiceImpl(st, audit)
	roster := impl.NewRosterServiceImpl(st, creds, sender, audit)
	votes := impl.NewVoteServiceImpl(st, creds, audit, sender)
	tally := impl.NewTallyServiceImpl(st)

	adminSecret, err := impl.NewAdminSecretVerifier(cfg.AdminSecret)
	if err != nil {
		logger.Error("admin secret", "error", err)
		os.Exit(1)
	}

	router := httpx.NewRouter(httpx.Services{
		Votes:      votes,
		Sessions:   sessions,
		Candidates: candidates,
		Roster:     roster,
		Tally:      tally,
	}, adminSecret, httpx.RouterConfig{
		CORSOrigins:  cfg.CORSOrigins,
		RateLimitRPM: cfg.RateLimitRPM,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("voting service listening", "addr", srv.Addr, "issuer", cfg.Issuer)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("stopped")
}
