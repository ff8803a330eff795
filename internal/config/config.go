package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBDriver    string
	DatabaseURL string

	// JWT
	JWTSecret string

	// Registration
	DerivedEmailDomain string

	// Google sign-in
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Password reset mail (Amazon SES)
	AWSRegion    string
	SESFromEmail string
	SESFromName  string

	// Client URL used in reset links and OAuth redirects
	AppBaseURL string

	// Observability
	SentryDSN    string
	AppEnv       string
	LogRetention time.Duration

	// Server
	Port        string
	CORSOrigins string

	// Requests per minute per IP; zero disables the limiter.
	RateLimit     int
	AuthRateLimit int
}

func Load() *Config {
	return &Config{
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		DerivedEmailDomain: getEnv("DERIVED_EMAIL_DOMAIN", "tasks.local"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "Tasks"),

		AppBaseURL: strings.TrimRight(getEnv("APP_BASE_URL", ""), "/"),

		SentryDSN:    getEnv("SENTRY_DSN", ""),
		AppEnv:       getEnv("APP_ENV", "development"),
		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 30*24*time.Hour),

		Port:        getEnv("PORT", "5001"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		RateLimit:     getEnvInt("RATE_LIMIT", 60),
		AuthRateLimit: getEnvInt("AUTH_RATE_LIMIT", 10),
	}
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	switch c.DBDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL environment variable is required")
		}
	case "sqlite":
	default:
		return errors.New("DB_DRIVER must be postgres or sqlite")
	}
	return nil
}

// GoogleEnabled reports whether Google sign-in is fully configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// DSN returns the connection string, defaulting sqlite to a local file.
func (c *Config) DSN() string {
	if c.DatabaseURL == "" && c.DBDriver == "sqlite" {
		return "tasks.db"
	}
	return c.DatabaseURL
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
