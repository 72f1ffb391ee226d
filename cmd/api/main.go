package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/appcurriculum/backend/docs"
	"github.com/appcurriculum/backend/internal/auth"
	"github.com/appcurriculum/backend/internal/config"
	"github.com/appcurriculum/backend/internal/handlers"
	"github.com/appcurriculum/backend/internal/logger"
	"github.com/appcurriculum/backend/internal/middlewares"
	"github.com/appcurriculum/backend/internal/models"
	"github.com/appcurriculum/backend/internal/queue"
	"github.com/appcurriculum/backend/internal/repositories"
	"github.com/appcurriculum/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Curriculum Progress API
// @version 1.0
// @description API for browsing the curriculum and tracking learner progress

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Curriculum Progress API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Asynq client for durable progress writes
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize catalog
	var catalogSource services.CatalogSource = repositories.NewCatalogRepository(db, logger.Logger)
	if cfg.Catalog.File != "" {
		logger.Logger.Info("Using file catalog", zap.String("file", cfg.Catalog.File))
		catalogSource = repositories.NewFileCatalog(cfg.Catalog.File)
	}
	catalogService := services.NewCatalogService(catalogSource, repositories.NewCatalogCache(rdb), cfg.Catalog.CacheTTL, logger.Logger)
	if err := catalogService.Refresh(context.Background()); err != nil {
		// served lazily on the first request once the source recovers
		logger.Logger.Error("Failed to load catalog", zap.Error(err))
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Catalog.RefreshSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := catalogService.Refresh(ctx); err != nil {
			logger.Logger.Error("Failed to refresh catalog", zap.Error(err))
		}
	}); err != nil {
		logger.Logger.Fatal("Invalid catalog refresh schedule", zap.Error(err), zap.String("schedule", cfg.Catalog.RefreshSchedule))
	}
	scheduler.Start()

	// Initialize services
	progressService := services.NewProgressService(
		catalogService,
		repositories.NewProgressRepository(db),
		repositories.NewProgressSnapshotCache(rdb, cfg.Progress.CacheTTL),
		queue.NewPersister(asynqClient),
		models.DefaultAchievements,
		logger.Logger,
		cfg.Progress.Location,
	)
	moduleService := services.NewModuleService(catalogService, progressService, logger.Logger)
	quizService := services.NewQuizService(catalogService, progressService, progressService, logger.Logger)

	// Initialize handlers
	moduleHandler := handlers.NewModuleHandler(moduleService, logger.Logger)
	progressHandler := handlers.NewProgressHandler(progressService, logger.Logger)
	quizHandler := handlers.NewQuizHandler(quizService, logger.Logger)

	authMiddleware := middlewares.AuthMiddleware(auth.NewTokenValidator(cfg.JWT.Secret))

	// Setup router
	r := chi.NewRouter()

	r.Use(middlewares.RequestIDMiddleware)
	r.Use(middlewares.LoggerMiddleware(logger.Logger))
	r.Use(middlewares.RecoveryMiddleware(logger.Logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middlewares.RequestSizeLimitMiddleware(1 * 1024 * 1024)) // 1MB

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		w.Header().Set("Content-Type", "application/json")
		if err := db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware)
		moduleHandler.RegisterRoutes(r)
		progressHandler.RegisterRoutes(r)
		quizHandler.RegisterRoutes(r)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	<-scheduler.Stop().Done()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "curriculum_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Try the parent directory when running from cmd/api
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		if _, err := os.Stat("../../migrations"); err == nil {
			migrationPath = "file://../../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
