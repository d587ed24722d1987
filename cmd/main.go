package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/alexxvives/akademo-access/internal/config"
	"github.com/alexxvives/akademo-access/internal/handler"
	"github.com/alexxvives/akademo-access/internal/handler/middleware"
	"github.com/alexxvives/akademo-access/internal/repository/postgres"
	"github.com/alexxvives/akademo-access/internal/service"
	"github.com/alexxvives/akademo-access/pkg/email"
	"github.com/alexxvives/akademo-access/pkg/ratelimit"
	"github.com/alexxvives/akademo-access/pkg/token"
	"github.com/alexxvives/akademo-access/pkg/validator"
)

func main() {
	// Load configuration; refuses to start without a signing secret
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}()
	log.Println("✓ Database connection established")

	// Apply pending migrations
	if err := runMigrations(db, cfg); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// Initialize Redis client
	redisClient, err := initRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}()
	log.Println("✓ Redis connection established")

	// Initialize token codec
	codec, err := token.NewCodec(cfg.Auth.TokenSecret)
	if err != nil {
		log.Fatalf("Failed to initialize token codec: %v", err)
	}
	log.Println("✓ Token codec initialized")

	// Initialize validator
	validate := validator.NewValidator()

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	deviceRepo := postgres.NewDeviceSessionRepository(db)
	watchRepo := postgres.NewWatchStateRepository(db)
	lessonRepo := postgres.NewLessonRepository(db)
	enrollmentRepo := postgres.NewEnrollmentRepository(db)

	// Initialize email service
	var emailService email.EmailService
	if cfg.Email.Enabled {
		emailService, err = email.NewResendEmailService(&email.EmailConfig{
			APIKey:    cfg.Email.APIKey,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize email service: %v", err)
			log.Println("Email functionality will be disabled")
			emailService = nil
		} else {
			log.Println("✓ Email service initialized (Resend)")
		}
	} else {
		log.Println("ℹ Email service disabled (set EMAIL_ENABLED=true to enable)")
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, deviceRepo, codec, cfg)
	watchService := service.NewWatchService(watchRepo, lessonRepo, enrollmentRepo)
	verificationService := service.NewVerificationService(userRepo, redisClient, emailService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, verificationService, &cfg.Auth, validate)
	watchHandler := handler.NewWatchHandler(watchService, validate)
	deviceHandler := handler.NewDeviceHandler(deviceRepo)
	healthHandler := handler.NewHealthHandler()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Akademo Access Service v1.0",
		ErrorHandler: customErrorHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	// Setup global middlewares
	app.Use(middleware.RecoveryMiddleware())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CORSMiddleware(cfg.Server.AllowOrigins))

	// Setup authorization middlewares
	authMiddleware := middleware.AuthMiddleware(authService, cfg.Auth.CookieName)
	requireStudent := middleware.RequireStudent()
	requireAdmin := middleware.RequireAdmin()

	// Setup per-route rate limiters
	loginLimit := middleware.RateLimit(newLimiter(cfg, redisClient, ratelimit.Config{
		Window: cfg.RateLimit.LoginWindow, MaxRequests: cfg.RateLimit.LoginMax,
	}), nil)
	signupLimit := middleware.RateLimit(newLimiter(cfg, redisClient, ratelimit.Config{
		Window: cfg.RateLimit.SignupWindow, MaxRequests: cfg.RateLimit.SignupMax,
	}), nil)
	verifyLimit := middleware.RateLimit(newLimiter(cfg, redisClient, ratelimit.Config{
		Window: cfg.RateLimit.VerifyWindow, MaxRequests: cfg.RateLimit.VerifyMax,
	}), nil)

	// Setup routes
	handler.SetupRoutes(
		app,
		authHandler,
		watchHandler,
		deviceHandler,
		healthHandler,
		authMiddleware,
		requireStudent,
		requireAdmin,
		loginLimit,
		signupLimit,
		verifyLimit,
	)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Start server in goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("🚀 Server starting on http://localhost%s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		if err := app.Listen(addr); err != nil {
			log.Printf("❌ Server failed to start: %v", err)
			stop()
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Println("⏳ Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✓ Server stopped")
}

// initDB initializes PostgreSQL database connection with retry logic
func initDB(cfg *config.Config) (*sqlx.DB, error) {
	dsn := cfg.Database.DSN()

	var db *sqlx.DB
	var err error

	maxRetries := 5
	retryInterval := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			break
		}

		log.Printf("Failed to connect to database (attempt %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Printf("Error closing database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations applies pending schema migrations at startup
func runMigrations(db *sqlx.DB, cfg *config.Config) error {
	driver, err := migratepg.WithInstance(db.DB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+cfg.Database.MigrationsDir,
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// initRedis initializes Redis client and verifies connection
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			log.Printf("Error closing Redis after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

// newLimiter picks the rate-limit backend. The in-memory limiter is
// per-process best-effort; the Redis limiter shares counters across
// instances.
func newLimiter(cfg *config.Config, redisClient *redis.Client, limitCfg ratelimit.Config) ratelimit.Limiter {
	if cfg.RateLimit.Backend == "redis" {
		return ratelimit.NewRedisLimiter(redisClient, limitCfg)
	}
	return ratelimit.NewMemoryLimiter(limitCfg)
}

// customErrorHandler handles Fiber errors
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	log.Printf("Error handling request [%s %s]: %v", c.Method(), c.Path(), err)

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
