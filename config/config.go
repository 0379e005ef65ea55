package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs from the environment.
type Config struct {
	// Database
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Mail account used as the sender for invoice notifications.
	// Both credentials are required; the server refuses to start without them.
	EmailUser string
	EmailPass string
	SMTPHost  string

	// HTTP
	Port string

	// Directory holding generated PDFs and uploaded source documents.
	UploadDir string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads the environment (and an optional .env file) into a Config.
func Load() (*Config, error) {
	// A missing .env is fine; real env vars may already be set.
	_ = godotenv.Load()

	cfg := &Config{
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBName:     getEnv("DB_NAME", "invoicedesk"),
		EmailUser:  getEnv("EMAIL_USER", ""),
		EmailPass:  getEnv("EMAIL_PASS", ""),
		SMTPHost:   getEnv("SMTP_HOST", "smtp.gmail.com:465"),
		Port:       getEnv("PORT", "5000"),
		UploadDir:  getEnv("UPLOAD_DIR", "uploads"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.EmailUser == "" {
		return fmt.Errorf("EMAIL_USER is required")
	}
	if c.EmailPass == "" {
		return fmt.Errorf("EMAIL_PASS is required")
	}
	if c.DBName == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	return nil
}

// DSN builds the MySQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
