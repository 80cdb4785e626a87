package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                   string
	DBPath                 string
	LogLevel               string
	CatalogBaseURL         string
	ImportWorkerCount      int
	ImportQueueSize        int
	MaintenanceWorkerCount int
	MaintenanceQueueSize   int
	StreakGraceDays        int
	WeakMissThreshold      int
	LeaderboardCacheTTL    time.Duration
	LeaderboardRefresh     time.Duration
	LeaderboardMaxEntries  int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                   envOr("ADDR", ":8080"),
		DBPath:                 envOr("DB_PATH", "file:woodpecker.db"),
		LogLevel:               envOr("LOG_LEVEL", "INFO"),
		CatalogBaseURL:         envOr("CATALOG_BASE_URL", "https://lichess.org"),
		ImportWorkerCount:      envIntOr("IMPORT_WORKER_COUNT", 2),
		ImportQueueSize:        envIntOr("IMPORT_QUEUE_SIZE", 32),
		MaintenanceWorkerCount: envIntOr("MAINTENANCE_WORKER_COUNT", 1),
		MaintenanceQueueSize:   envIntOr("MAINTENANCE_QUEUE_SIZE", 16),
		StreakGraceDays:        envIntOr("STREAK_GRACE_DAYS", 1),
		WeakMissThreshold:      envIntOr("WEAK_MISS_THRESHOLD", 2),
		LeaderboardCacheTTL:    envDurationOr("LEADERBOARD_CACHE_TTL", 5*time.Minute),
		LeaderboardRefresh:     envDurationOr("LEADERBOARD_REFRESH_INTERVAL", 2*time.Minute),
		LeaderboardMaxEntries:  envIntOr("LEADERBOARD_MAX_ENTRIES", 500),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}
