package config

import (
	"os"
	"strconv"
	"time"

	infraconfig "bcvrates-service/internal/infrastructure/config"
	"bcvrates-service/internal/infrastructure/relay"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port        string
	DatabaseURL string
	// Provider
	Provider     string
	RateAPIBase  string
	RelayTimeout time.Duration
	// Cache (tier 1)
	CacheBackend  string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Workers
	RefreshInterval time.Duration
	TaskQueueSize   int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// msDef parses a millisecond env value, falling back to def.
func msDef(s string, def time.Duration) time.Duration {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return time.Duration(i) * time.Millisecond
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:             getEnv("ENV", "local"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Port:            getEnv("PORT", infraconfig.DefaultHTTPPort),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		Provider:        getEnv("PROVIDER", "bcv"),
		RateAPIBase:     getEnv("RATE_API_BASE", "https://pydolarve.org/api/v1"),
		RelayTimeout:    msDef(os.Getenv("RELAY_TIMEOUT_MS"), relay.DefaultAttemptTimeout),
		CacheBackend:    getEnv("CACHE_BACKEND", "redis"),
		CacheTTL:        msDef(os.Getenv("CACHE_TTL_MS"), infraconfig.DefaultCacheTTL),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         atoiDef(getEnv("REDIS_DB", "0"), 0),
		RefreshInterval: msDef(os.Getenv("REFRESH_INTERVAL_MS"), infraconfig.DefaultRefreshInterval),
		TaskQueueSize:   atoiDef(os.Getenv("TASK_QUEUE_SIZE"), infraconfig.DefaultTaskQueueSize),
	}
}
