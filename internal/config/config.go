package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingTokenSecret aborts startup: a deployment without a
// configured signing secret must not issue tokens, there is no
// fallback key.
var ErrMissingTokenSecret = errors.New("ACCESS_TOKEN_SECRET is required")

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Email     EmailConfig
}

type ServerConfig struct {
	Port         string
	Environment  string
	AllowOrigins string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MigrationsDir string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	TokenSecret  string
	CookieName   string
	CookieDomain string
	CookieMaxAge time.Duration
}

type RateLimitConfig struct {
	// Backend selects where buckets live: "memory" keeps per-process
	// best-effort counters, "redis" shares them across instances.
	Backend string

	LoginWindow  time.Duration
	LoginMax     int
	SignupWindow time.Duration
	SignupMax    int
	VerifyWindow time.Duration
	VerifyMax    int
}

type EmailConfig struct {
	Enabled   bool
	APIKey    string
	FromEmail string
	FromName  string
}

func Load() (*Config, error) {
	// Load .env if present (optional in production)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          getEnv("DB_USER", "akademo"),
			Password:      getEnv("DB_PASSWORD", "akademo"),
			DBName:        getEnv("DB_NAME", "akademo"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MigrationsDir: getEnv("DB_MIGRATIONS_DIR", "db/migrations"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			TokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "akademo_session"),
			CookieDomain: getEnv("SESSION_COOKIE_DOMAIN", ""),
			CookieMaxAge: getDurationEnv("SESSION_COOKIE_MAX_AGE", 7*24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Backend:      getEnv("RATE_LIMIT_BACKEND", "memory"),
			LoginWindow:  getDurationEnv("RATE_LIMIT_LOGIN_WINDOW", time.Minute),
			LoginMax:     getIntEnv("RATE_LIMIT_LOGIN_MAX", 10),
			SignupWindow: getDurationEnv("RATE_LIMIT_SIGNUP_WINDOW", time.Hour),
			SignupMax:    getIntEnv("RATE_LIMIT_SIGNUP_MAX", 5),
			VerifyWindow: getDurationEnv("RATE_LIMIT_VERIFY_WINDOW", time.Hour),
			VerifyMax:    getIntEnv("RATE_LIMIT_VERIFY_MAX", 5),
		},
		Email: EmailConfig{
			Enabled:   getEnv("EMAIL_ENABLED", "false") == "true",
			APIKey:    getEnv("RESEND_API_KEY", ""),
			FromEmail: getEnv("EMAIL_FROM_ADDRESS", ""),
			FromName:  getEnv("EMAIL_FROM_NAME", "Akademo"),
		},
	}

	if cfg.Auth.TokenSecret == "" {
		return nil, ErrMissingTokenSecret
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
