package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/cache"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/config"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/handlers"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/scoring"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/services"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/utils"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/validator"
	"github.com/SAP-F-2025/quiz-scoring-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewLogger("development").Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	if err := pkg.Migrate(db); err != nil {
		logger.Error("Failed to migrate schema", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to PostgreSQL")

	resultCache := cache.NewNoopCache()
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, results will not be cached", "error", err)
	} else {
		defer redisClient.Close()
		resultCache = cache.NewRedisCache(redisClient, logger)
		logger.Info("Connected to Redis")
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	repo := postgres.NewRepository(db)
	engine := scoring.NewEngine(scoring.WithObserver(scoring.NewSlogObserver(logger)))
	v := validator.New()

	sessionService := services.NewSessionService(repo, engine, publisher, resultCache, logger, v, cfg.ResultCacheTTL)
	svc := handlers.Services{
		Quiz:     services.NewQuizService(repo, logger, v),
		Question: services.NewQuestionService(repo, engine, logger, v),
		Session:  sessionService,
		Export:   services.NewExportService(repo, logger),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.RequestID())
	router.Use(utils.LoggerMiddleware(utils.NewSlogLogger(logger)))
	router.Use(utils.ContextLogger(utils.NewSlogLogger(logger)))

	handlers.NewHandlerManager(svc, cfg.AdminAPIKey, utils.NewSlogLogger(logger)).SetupRoutes(router)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sessionService.RunExpirySweeper(ctx, cfg.ExpirySweepInterval)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Quiz scoring service starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
