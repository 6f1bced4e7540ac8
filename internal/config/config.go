package config

import (
	"fmt"
	"os"
)

// Config holds the environment-backed server configuration.
type Config struct {
	ServerPort string

	Store string // "postgres" or "memory"

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string
	ContactEmail  string

	S3BucketName string
	S3Region     string

	AllowOrigins string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		Store:         getEnv("CONTENT_STORE", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        getEnv("DB_NAME", "portfolio"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  getEnv("SMTP_FROM_NAME", "Portfolio"),
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),
		ContactEmail:  os.Getenv("CONTACT_EMAIL"),
		S3BucketName:  os.Getenv("S3_BUCKET_NAME"),
		S3Region:      getEnv("S3_REGION", "eu-west-3"),
		AllowOrigins:  getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000"),
	}

	if cfg.Store != "postgres" && cfg.Store != "memory" {
		return nil, fmt.Errorf("unknown CONTENT_STORE %q", cfg.Store)
	}
	return cfg, nil
}

// GetDBConnString builds the lib/pq connection string. The same string
// drives the query pool and the LISTEN/NOTIFY connection.
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
