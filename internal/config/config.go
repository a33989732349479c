package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	OpenWeatherAPIKey string

	// RegistryPath points at the location registry JSON file. Empty means
	// use the built-in default set.
	RegistryPath string

	// CacheTTL bounds how long an assembled payload is served before a
	// fresh aggregation pass runs.
	CacheTTL time.Duration

	// RateLimit admitted requests per RateWindow per caller.
	RateLimit  int
	RateWindow time.Duration

	// HTTPTimeout is the outbound client timeout; FetchTimeout bounds one
	// location's fetch within an aggregation pass.
	HTTPTimeout  time.Duration
	FetchTimeout time.Duration

	// WarmInterval enables the background cache warmer when > 0.
	WarmInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.RegistryPath = os.Getenv("LOCATION_REGISTRY_PATH")

	var err error
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", "10m"); err != nil {
		return nil, err
	}

	cfg.RateLimit = getenvInt("RATE_LIMIT", 3)
	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT must be positive")
	}
	if cfg.RateWindow, err = getenvDuration("RATE_WINDOW", "60s"); err != nil {
		return nil, err
	}

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getenvDuration("FETCH_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	if cfg.WarmInterval, err = getenvDuration("WARM_INTERVAL", "0s"); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
