package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

type Config struct {
	Port               string
	Database           DatabaseConfig
	RedisAddr          string
	KafkaBroker        string
	JWTSecret          string
	ApprovalSecret     string
	ApprovalTokenTTL   time.Duration
	OutboxPollInterval time.Duration
	CORSOrigins        []string
	ConnectRetries     int
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: getEnv("PORT", "3000"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "leave_portal"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker:        os.Getenv("KAFKA_BROKER"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		ApprovalSecret:     os.Getenv("APPROVAL_TOKEN_SECRET"),
		ApprovalTokenTTL:   getDuration("APPROVAL_TOKEN_TTL", 72*time.Hour),
		OutboxPollInterval: getDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "http://localhost:3001")),
		ConnectRetries:     getInt("CONNECT_RETRIES", 5),
	}
	if cfg.ApprovalSecret == "" {
		cfg.ApprovalSecret = cfg.JWTSecret
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
