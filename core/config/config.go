package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	OTel           OTelConfig
	OpenCloud      OpenCloudConfig
	RateLimit      RateLimitConfig
	Env            string
	Port           string
	Version        string
	TrustedProxies []string
	MaxBodyBytes   int64

	// MinAPIKeyLength is the shortest x-api-key the relay forwards upstream.
	MinAPIKeyLength int
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type OpenCloudConfig struct {
	BaseURL    string // e.g. "https://apis.roblox.com"
	WebURL     string // public game pages, e.g. "https://www.roblox.com"
	CreatorURL string // creator dashboard, e.g. "https://create.roblox.com"
	Timeout    time.Duration
}

type RateLimitConfig struct {
	RedisURL    string // empty: per-process counters
	RedisPrefix string
	Max         int
	Window      time.Duration
}

type ServiceType string

const (
	ServiceTypeServer ServiceType = "server"
	ServiceTypeCLI    ServiceType = "cli"
)

const (
	defaultMaxBodyBytes    = 50 << 20
	defaultMinAPIKeyLength = 20
)

// Load loads configuration from environment variables.
// In development, it loads from service-specific .env files:
//   - .env.server for the API server
//   - .env.cli for relayctl
//
// Falls back to .env if service-specific file doesn't exist.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("RELAY_ENV", "development") == "development" {
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:             getEnv("RELAY_ENV", "development"),
		Port:            getEnv("PORT", "10000"),
		Version:         getEnv("RELAY_VERSION", "1.0.0"),
		TrustedProxies:  getEnvList("TRUSTED_PROXIES"),
		MaxBodyBytes:    getEnvInt64("MAX_BODY_BYTES", defaultMaxBodyBytes),
		MinAPIKeyLength: getEnvInt("MIN_API_KEY_LENGTH", defaultMinAPIKeyLength),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "studio-mobile-relay"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		OpenCloud: OpenCloudConfig{
			BaseURL:    getEnv("OPENCLOUD_BASE_URL", "https://apis.roblox.com"),
			WebURL:     getEnv("ROBLOX_WEB_URL", "https://www.roblox.com"),
			CreatorURL: getEnv("ROBLOX_CREATOR_URL", "https://create.roblox.com"),
			Timeout:    getEnvDuration("UPSTREAM_TIMEOUT", 120*time.Second),
		},
		RateLimit: RateLimitConfig{
			RedisURL:    getEnv("REDIS_URL", ""),
			RedisPrefix: getEnv("RATE_LIMIT_REDIS_PREFIX", "relay:ratelimit"),
			Max:         getEnvInt("RATE_LIMIT_MAX", 50),
			Window:      getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		},
	}

	if cfg.OpenCloud.BaseURL == "" {
		return Config{}, fmt.Errorf("OPENCLOUD_BASE_URL is required")
	}
	if cfg.RateLimit.Max <= 0 || cfg.RateLimit.Window <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be positive")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

// Shared reports whether counters live in Redis and are shared across replicas.
func (c RateLimitConfig) Shared() bool {
	return c.RedisURL != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
