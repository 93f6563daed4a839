package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mindspace/api/internal/config"
	"github.com/mindspace/api/internal/database"
	"github.com/mindspace/api/internal/eventbus"
	"github.com/mindspace/api/internal/genai"
	"github.com/mindspace/api/internal/handlers"
	"github.com/mindspace/api/internal/memory"
	"github.com/mindspace/api/internal/middleware"
	"github.com/mindspace/api/internal/telemetry"
)

func main() {
	ctx := context.Background()

	// Initialize logger with stdout sync
	zapConfig := zap.NewProductionConfig()
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("MindSpace API starting...",
		zap.String("version", "0.1.0"),
		zap.String("environment", os.Getenv("GO_ENV")),
	)

	// Load configuration
	cfg := config.Load()

	// Initialize Telemetry
	shutdownTelemetry, err := telemetry.InitTracer(ctx, "mindspace-api")
	if err != nil {
		// Log but don't fail, as collector might be down
		logger.Error("failed to initialize telemetry", zap.Error(err))
	} else {
		defer func() {
			if err := shutdownTelemetry(ctx); err != nil {
				logger.Error("failed to shutdown telemetry", zap.Error(err))
			}
		}()
	}

	// Initialize event bus. The gateway runs fine without it.
	var events genai.Publisher
	bus, err := eventbus.Connect(cfg.NATSURL, logger)
	if err != nil {
		logger.Error("failed to connect to NATS", zap.Error(err))
	} else {
		defer bus.Close()
		events = bus
		logger.Info("connected to NATS")
	}

	// Initialize database
	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize Redis. Chat memory is best-effort, so a missing Redis
	// degrades rather than aborts.
	var mem *memory.Store
	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to redis, chat memory disabled", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
		mem = memory.NewStore(rdb.Client())
	}

	// Generation facade
	svc := genai.NewService(genai.Config{
		GeminiAPIKey:      cfg.GeminiAPIKey,
		GeminiModel:       cfg.GeminiModel,
		HFAPIKey:          cfg.HFAPIKey,
		HFModel:           cfg.HFModel,
		AllowFallback:     cfg.HFAllowFallback,
		PlaceholderOnFail: cfg.HFPlaceholderOnFail,
		Mock:              cfg.MockAI,
	}, logger, events)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.Metrics())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "MindSpace API"})
	})

	// Health check handlers
	healthHandler := handlers.NewHealthHandler(db, rdb)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/deep", healthHandler.DeepHealth)

	// Initialize handlers
	aiHandler := handlers.NewAIHandler(svc, mem, cfg, logger)
	mediaHandler := handlers.NewMediaHandler(svc, cfg, logger)
	taskHandler := handlers.NewTaskHandler(db, logger)

	api := router.Group("/api")
	{
		ai := api.Group("/ai")
		{
			ai.GET("/health", aiHandler.Health)
			ai.GET("/memory/:userId", aiHandler.Memory)

			// Generation routes - stricter rate limit + circuit breaker
			gen := ai.Group("")
			gen.Use(middleware.RateLimitMiddleware(middleware.StrictRateLimiter))
			gen.Use(middleware.CircuitBreakerMiddleware(middleware.GenerationCircuitBreaker))
			{
				gen.POST("/chat", aiHandler.Chat)
				gen.POST("/art", aiHandler.Art)
			}
		}

		media := api.Group("/media")
		{
			media.GET("/health", mediaHandler.Health)

			gen := media.Group("")
			gen.Use(middleware.RateLimitMiddleware(middleware.StrictRateLimiter))
			gen.Use(middleware.CircuitBreakerMiddleware(middleware.GenerationCircuitBreaker))
			{
				gen.POST("/audio", mediaHandler.Audio)
				gen.POST("/mindmap", mediaHandler.MindMap)
			}
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RateLimitMiddleware(middleware.DefaultRateLimiter))
		{
			tasks.GET("/:userId", taskHandler.List)
			tasks.POST("", taskHandler.Create)
			tasks.PUT("/:id", taskHandler.Update)
			tasks.DELETE("/:id", taskHandler.Delete)
		}
	}

	// Create HTTP server. Write timeout stays off: a generation request
	// walking the whole fallback ladder can legitimately take minutes.
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited gracefully")
}
