package config

import (
	"errors"
	"os"
)

type Config struct {
	// APP
	AppEnv string
	Port   string

	// Database
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPass      string
	DBName      string

	JWTSecret string

	// ClickUp
	ClickUpToken       string
	ClickUpWorkspaceID string
	ClickUpSpaceID     string
	WebhookURL         string

	// Admin login
	AdminUsername string
	AdminPassword string
}

func Load() (*Config, error) {
	cfg := &Config{
		// App
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "3001"),

		// DB
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "127.0.0.1"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPass:      getEnv("DB_PASS", "postgres"),
		DBName:      getEnv("DB_NAME", "upclick"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "secret123"),

		// ClickUp
		ClickUpToken:       getEnv("CLICKUP_API_TOKEN", ""),
		ClickUpWorkspaceID: getEnv("CLICKUP_WORKSPACE_ID", ""),
		ClickUpSpaceID:     getEnv("CLICKUP_SPACE_ID", ""),
		WebhookURL:         getEnv("WEBHOOK_URL", "http://localhost:3001/api/webhooks/clickup"),

		// Admin login
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "upclick-2025"),
	}

	if cfg.ClickUpToken == "" {
		return nil, errors.New("CLICKUP_API_TOKEN is not set")
	}

	return cfg, nil
}

// getEnv returns environment variable or default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
