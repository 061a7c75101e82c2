package config

import (
	"os"
	"time"
)

// Server captures process-level configuration for the compliance service.
type Server struct {
	Addr             string
	PostgresURL      string
	RedisURL         string
	ReminderInterval time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("LOBBYREG_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	// Empty URLs mean in-memory stores; fine for development, not production.
	postgresURL := os.Getenv("LOBBYREG_POSTGRES_URL")
	redisURL := os.Getenv("LOBBYREG_REDIS_URL")

	interval := 24 * time.Hour
	if v := os.Getenv("LOBBYREG_REMINDER_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			interval = parsed
		}
	}

	return Server{
		Addr:             addr,
		PostgresURL:      postgresURL,
		RedisURL:         redisURL,
		ReminderInterval: interval,
	}
}
