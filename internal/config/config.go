package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the planner binaries.
type Config struct {
	// Storage. DatabaseURL selects the Postgres store when set; otherwise
	// the SQLite file at DatabasePath is used.
	DatabasePath string
	DatabaseURL  string

	// Network topology override (empty = embedded default).
	TopologyPath string

	// HTTP
	Port          string
	AllowedOrigin string

	// Live departure feed for the shared terminal (GTFS-RT trip updates).
	// Empty disables the feed; planning then runs on the static schedule
	// alone.
	LiveFeedURL     string
	LiveFeedTimeout time.Duration

	// ETL
	GTFSDir string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		DatabasePath: getEnv("SQLITE_DATABASE", "./data/transit.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		TopologyPath: getEnv("NETWORKS_CONFIG", ""),

		Port:          getEnv("PORT", "8081"),
		AllowedOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),

		LiveFeedURL:     getEnv("LIVE_DEPARTURES_URL", ""),
		LiveFeedTimeout: time.Duration(getEnvInt("LIVE_DEPARTURES_TIMEOUT_SECONDS", 5)) * time.Second,

		GTFSDir: getEnv("GTFS_DIR", "./data/gtfs"),
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
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
