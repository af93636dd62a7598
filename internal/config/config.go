package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// Empty DatabaseURL selects the in-memory store
	DatabaseURL string
	RedisURL    string

	KafkaBrokers     []string
	KafkaTopicPrefix string

	JWTSecret     string
	JWTExpiration time.Duration
	JWTIssuer     string

	AdminUsername string
	AdminPassword string

	AttendanceWorkers int
}

// LoadConfig reads settings from the environment after loading an optional .env file
func LoadConfig() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:              GetEnv("PORT", "8080"),
		Environment:       GetEnv("ENVIRONMENT", "development"),
		LogLevel:          parseLogLevel(GetEnv("LOG_LEVEL", "info")),
		DatabaseURL:       GetEnv("DATABASE_URL", ""),
		RedisURL:          GetEnv("REDIS_URL", ""),
		KafkaBrokers:      splitList(GetEnv("KAFKA_BROKERS", "")),
		KafkaTopicPrefix:  GetEnv("KAFKA_TOPIC_PREFIX", "tuition."),
		JWTSecret:         GetEnv("JWT_SECRET", ""),
		JWTIssuer:         GetEnv("JWT_ISSUER", "tuition-tracker"),
		AdminUsername:     GetEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:     GetEnv("ADMIN_PASSWORD", ""),
		AttendanceWorkers: 8,
	}

	expiration, err := time.ParseDuration(GetEnv("JWT_EXPIRATION", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION: %w", err)
	}
	cfg.JWTExpiration = expiration

	if v := GetEnv("ATTENDANCE_WORKERS", ""); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil || workers <= 0 {
			return nil, fmt.Errorf("invalid ATTENDANCE_WORKERS %q", v)
		}
		cfg.AttendanceWorkers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no usable default
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func GetEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
