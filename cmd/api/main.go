package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rolejet/RoleJet/internal/auth"
	"github.com/rolejet/RoleJet/internal/config"
	"github.com/rolejet/RoleJet/internal/database"
	"github.com/rolejet/RoleJet/internal/handlers"
	"github.com/rolejet/RoleJet/internal/logging"
	"github.com/rolejet/RoleJet/internal/notify"
	"github.com/rolejet/RoleJet/internal/ratelimit"
	"github.com/rolejet/RoleJet/internal/repository/postgres"
	"github.com/rolejet/RoleJet/internal/services"
	"github.com/rolejet/RoleJet/internal/uploads"
	"github.com/tmc/langchaingo/llms"
)

func main() {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logging.NewLogger(cfg.LogLevel)
	slog.SetDefault(log)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database connection
	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	}, log)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("database pool unavailable", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	companies := postgres.NewCompanyRepository(db)
	users := postgres.NewUserRepository(db)
	jobs := postgres.NewJobRepository(db)

	files, err := uploads.NewStore(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		log.Error("upload directory unavailable", "error", err)
		os.Exit(1)
	}

	// 3. Optional integrations: shared rate limits, mail, LLM
	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter()
	if cfg.RedisURL != "" {
		client, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, using in-process rate limits", "error", err)
		} else {
			defer client.Close()
			limiter = ratelimit.NewRedisLimiter(client, "rolejet", log)
			log.Info("rate limits shared through redis")
		}
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.GmailCredentialsFile != "" && cfg.GmailTokenFile != "" {
		gmailNotifier, err := notify.NewGmailNotifier(ctx, cfg.GmailCredentialsFile, cfg.GmailTokenFile, cfg.GmailSender, log)
		if err != nil {
			log.Warn("gmail notifications disabled", "error", err)
		} else {
			notifier = gmailNotifier
			log.Info("gmail notifications enabled")
		}
	}

	var model llms.Model
	if cfg.GeminiAPIKey != "" {
		if model, err = services.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel); err != nil {
			log.Warn("interview practice disabled", "error", err)
			model = nil
		}
	}

	// 4. Services and handlers
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)
	accounts := services.NewAccountService(companies, users, tokens, files, log)
	applications := services.NewApplicationService(jobs, users, companies, files, notifier, log)

	router := handlers.NewRouter(handlers.RouterOptions{
		Accounts:       accounts,
		Jobs:           services.NewJobService(jobs, companies, log),
		Applications:   applications,
		Interviews:     services.NewInterviewService(model, jobs, log),
		Tokens:         tokens,
		Cookies:        auth.CookiePolicy{Production: cfg.IsProduction(), TTL: cfg.SessionTTL},
		Limiter:        limiter,
		Log:            log,
		CORSOrigin:     cfg.CORSOrigin,
		UploadDir:      cfg.UploadDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Ping:           sqlDB.PingContext,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	applications.Wait()
}
