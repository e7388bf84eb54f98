package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port           string
	Environment    string
	AllowedOrigins []string
	JWTSecret      string
	Redis          RedisConfig

	// NotifyUndeliverable enables an error notice back to the sender when a
	// unicast target is not connected. Off by default: the wire contract is
	// best-effort silent drop.
	NotifyUndeliverable bool
}

type RedisConfig struct {
	// Addr enables the Redis presence mirror when non-empty.
	Addr     string
	Password string
	DB       int
}

func Load() *Config {
	// Parse allowed origins (comma-separated); "*" accepts any origin
	originsStr := getEnv("ALLOWED_ORIGINS", "*")
	origins := strings.Split(originsStr, ",")

	return &Config{
		Port:                getEnv("PORT", "8000"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		AllowedOrigins:      origins,
		JWTSecret:           getEnv("JWT_SECRET", "change-me-in-production"),
		NotifyUndeliverable: getEnv("NOTIFY_UNDELIVERABLE", "false") == "true",
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
