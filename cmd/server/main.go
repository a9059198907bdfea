package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/zap"
	ginprometheus "github.com/zsais/go-gin-prometheus"

	"whatif-server/internal/apperrors"
	"whatif-server/internal/cache"
	"whatif-server/internal/config"
	"whatif-server/internal/database"
	"whatif-server/internal/feedback"
	"whatif-server/internal/generator"
	"whatif-server/internal/handler"
	"whatif-server/internal/logger"
	"whatif-server/internal/messaging"
	"whatif-server/internal/middleware"
	"whatif-server/internal/simulator"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command and exit: up, down or version")
	flag.Parse()

	// --- Configuration ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: "json",
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)
	zap.L().Info("Logger initialized successfully", zap.String("logLevel", cfg.LogLevel))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if *migrateCmd != "" {
		runMigrationCommand(ctx, cfg, log, *migrateCmd)
		return
	}

	// --- AI Client ---
	aiClient, err := generator.NewAIClient(cfg, log)
	if err != nil {
		zap.L().Fatal("Failed to create AI client", zap.Error(err))
	}

	retryOpts := apperrors.RetryOptions{
		MaxAttempts:       cfg.AIMaxAttempts,
		BaseDelay:         cfg.AIBaseRetryDelay,
		MaxDelay:          cfg.AIMaxRetryDelay,
		BackoffMultiplier: 2,
		Logger:            log.Named("Retry"),
	}

	sim := simulator.New(aiClient, retryOpts, simulator.Config{
		EnableLogging:            cfg.SimEnableLogging,
		EnableMetrics:            cfg.SimEnableMetrics,
		MaxProcessingTime:        cfg.SimMaxProcessingTime,
		EnableParallelGeneration: cfg.SimParallelGeneration,
	}, log)

	// --- Feedback Storage (PostgreSQL или in-memory) ---
	var feedbackRepo feedback.Repository
	if cfg.DBHost != "" {
		pgPool, err := database.NewPool(ctx, cfg.GetDSN(), log)
		if err != nil {
			zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer pgPool.Close()

		migrator := database.NewMigrator(pgPool)
		if err := migrator.Up(ctx); err != nil {
			zap.L().Fatal("Failed to apply database migrations", zap.Error(err))
		}

		feedbackRepo = feedback.NewPgFeedbackRepository(pgPool, log)
		zap.L().Info("Feedback storage: PostgreSQL")
	} else {
		feedbackRepo = feedback.NewMemoryRepository()
		zap.L().Info("Feedback storage: in-memory (DB_HOST not set)")
	}

	// --- Result Cache (Redis, опционально) ---
	var resultCache *cache.ResultCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()

		resultCache = cache.NewResultCache(redisClient, cfg.CacheTTL, log)
		zap.L().Info("Result cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
	}

	// --- Simulation Events (RabbitMQ, опционально) ---
	var publisher messaging.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqConn, err := connectRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			zap.L().Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer mqConn.Close()

		zlog := zerolog.New(os.Stdout).With().Timestamp().Str("component", "messaging").Logger()
		publisher, err = messaging.NewRabbitMQEventPublisher(mqConn, zlog)
		if err != nil {
			zap.L().Fatal("Failed to create event publisher", zap.Error(err))
		}
		defer publisher.Close()
		zap.L().Info("Simulation event publisher enabled")
	}

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.ZapLoggingMiddleware(log))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	allowedOrigins := cfg.GetAllowedOrigins()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
		zap.L().Info("CORSAllowedOrigins not set, allowing default", zap.String("origin", "http://localhost:3000"))
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	simHandler := handler.NewSimulationHandler(sim, resultCache, publisher, feedbackRepo, log)
	simHandler.RegisterRoutes(router)

	p := ginprometheus.NewPrometheus("gin")
	p.Use(router)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("port", cfg.ServerPort))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}

// runMigrationCommand выполняет миграционную команду (-migrate=up|down|version)
// и завершает процесс, не поднимая HTTP-сервер.
func runMigrationCommand(ctx context.Context, cfg *config.Config, log *zap.Logger, command string) {
	if cfg.DBHost == "" {
		zap.L().Fatal("Migration command requires DB_HOST to be set", zap.String("command", command))
	}

	pool, err := database.NewPool(ctx, cfg.GetDSN(), log)
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pool.Close()

	migrator := database.NewMigrator(pool)
	switch command {
	case "up":
		err = migrator.Up(ctx)
	case "down":
		err = migrator.Down(ctx)
	case "version":
		var version uint
		var dirty bool
		version, dirty, err = migrator.Version(ctx)
		if err == nil {
			zap.L().Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
	default:
		zap.L().Fatal("Unknown migration command", zap.String("command", command))
	}
	if err != nil {
		zap.L().Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

// connectRabbitMQ подключается к RabbitMQ с повторами: брокер может
// подниматься дольше сервиса.
func connectRabbitMQ(url string) (*amqp091.Connection, error) {
	var conn *amqp091.Connection
	var err error

	maxRetries := 10
	retryDelay := 3 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		conn, err = amqp091.Dial(url)
		if err == nil {
			return conn, nil
		}
		zap.L().Warn("RabbitMQ connection failed, retrying...",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
		)
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}
