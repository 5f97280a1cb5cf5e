package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/briefboard/briefboard-server/internal/assist"
	"github.com/briefboard/briefboard-server/internal/config"
	"github.com/briefboard/briefboard-server/internal/database"
	"github.com/briefboard/briefboard-server/internal/handler"
	"github.com/briefboard/briefboard-server/internal/jobs"
	"github.com/briefboard/briefboard-server/internal/middleware"
	"github.com/briefboard/briefboard-server/internal/redis"
	"github.com/briefboard/briefboard-server/internal/repository"
	"github.com/briefboard/briefboard-server/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	accountRepo := repository.NewAccountRepository(db.DB)
	briefRepo := repository.NewBriefRepository(db.DB)
	offerRepo := repository.NewOfferRepository(db.DB)
	activityRepo := repository.NewActivityRepository(db.DB)
	sessionRepo := repository.NewSessionRepository(db.DB)

	activityService := service.NewActivityService(activityRepo)
	authService := service.NewAuthService(
		accountRepo, sessionRepo, activityService,
		cfg.SessionSecret, cfg.BootstrapAdminHandle,
	)
	briefService := service.NewBriefService(briefRepo, offerRepo, activityService)
	submissionService := service.NewSubmissionService(briefRepo, offerRepo, activityService)
	triageService := service.NewTriageService(db, offerRepo, activityService)
	adminService := service.NewAdminService(accountRepo, briefRepo, offerRepo, activityRepo)

	assistClient := assist.NewClient(assist.Config{
		BaseURL: cfg.AssistBaseURL,
		APIKey:  cfg.AssistAPIKey,
		Model:   cfg.AssistModel,
		Timeout: cfg.AssistTimeout(),
	})
	assistLimiter := service.NewQuotaLimiter(
		redisClient.Client, "assist_quota", cfg.AssistQuota, cfg.AssistQuotaWindow(),
	)
	assistService := service.NewAssistService(assistClient, assistLimiter, activityService)

	sessionMiddleware := middleware.NewSessionMiddleware(authService)
	loginLimiter := middleware.NewLoginRateLimiter()
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)

	authHandler := handler.NewAuthHandler(authService, loginLimiter, isProduction)
	projectHandler := handler.NewProjectHandler(briefService, submissionService)
	offerHandler := handler.NewOfferHandler(triageService)
	adminHandler := handler.NewAdminHandler(adminService)
	assistHandler := handler.NewAssistHandler(assistService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(securityHeadersMiddleware.Handler)
	r.Use(middleware.BodyLimit(0))
	r.Use(sessionMiddleware.Load)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Mount("/auth", authHandler.Routes())
	r.Mount("/projects", projectHandler.Routes())
	r.Mount("/offers", offerHandler.Routes())
	r.Mount("/admin", adminHandler.Routes())
	r.Mount("/assist", assistHandler.Routes())

	cleanupJob := jobs.NewCleanupJob(sessionRepo, config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
