package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// RedisConfig configures the optional Redis-backed cache. When Addr is
// empty the in-memory cache is used instead.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig configures the sliding-window call-budget guard.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

// DiscoveryConfig tunes the progressive POI discovery pipeline.
type DiscoveryConfig struct {
	CacheTTL     time.Duration
	FetchWorkers int
	FetchTimeout time.Duration
}

// ExternalConfig points at the external POI/image/validation providers.
type ExternalConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Config struct {
	ServerPort  string
	MetricsPort string
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	Discovery   DiscoveryConfig
	External    ExternalConfig
}

func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8091"),
		MetricsPort: getEnvOrDefault("METRICS_PORT", "9092"),
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", ""),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getEnvIntOrDefault("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: getEnvIntOrDefault("RATE_LIMIT_MAX_REQUESTS", 60),
			Window:      getEnvDurationOrDefault("RATE_LIMIT_WINDOW", time.Minute),
		},
		Discovery: DiscoveryConfig{
			CacheTTL:     getEnvDurationOrDefault("DISCOVERY_CACHE_TTL", 30*time.Minute),
			FetchWorkers: getEnvIntOrDefault("DISCOVERY_FETCH_WORKERS", 4),
			FetchTimeout: getEnvDurationOrDefault("DISCOVERY_FETCH_TIMEOUT", 10*time.Second),
		},
		External: ExternalConfig{
			BaseURL: getEnvOrDefault("EXTERNAL_API_BASE_URL", ""),
			APIKey:  getEnvOrDefault("EXTERNAL_API_KEY", ""),
			Timeout: getEnvDurationOrDefault("EXTERNAL_API_TIMEOUT", 15*time.Second),
		},
	}

	if cfg.RateLimit.MaxRequests <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must be positive")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
