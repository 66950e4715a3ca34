package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	CORSAllowedOrigins []string

	AccessTokenTTL time.Duration
	IdempotencyTTL time.Duration

	CatalogCacheTTL  time.Duration
	DeliveryCacheTTL time.Duration
	CartTTL          time.Duration

	CatalogDefaultLimit int
	CatalogMaxLimit     int

	CurrencyCode string

	// Fallback delivery settings used until an admin saves a row.
	DeliveryBaseCharge    float64
	DeliveryPricePerKm    float64
	FreeDeliveryThreshold float64

	GeocoderProvider string
	GeocoderBaseURL  string
	GeocoderAPIKey   string
	GeocoderTimeout  time.Duration

	QuoteRateLimit   string
	GeocodeRateLimit string

	RunMigrations bool
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		JWTSecret:          k.String("JWT_SECRET"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		AccessTokenTTL: parseDuration(k.String("ACCESS_TOKEN_TTL"), "15m"),
		IdempotencyTTL: parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),

		CatalogCacheTTL:  parseDuration(k.String("CATALOG_CACHE_TTL"), "5m"),
		DeliveryCacheTTL: parseDuration(k.String("DELIVERY_CACHE_TTL"), "2m"),
		CartTTL:          parseDuration(k.String("CART_TTL"), "168h"),

		CatalogDefaultLimit: parseInt(k.String("CATALOG_DEFAULT_LIMIT"), 20),
		CatalogMaxLimit:     parseInt(k.String("CATALOG_MAX_LIMIT"), 100),

		CurrencyCode: valueOrDefault(k.String("CURRENCY_CODE"), "INR"),

		DeliveryBaseCharge:    parseFloat(k.String("DELIVERY_BASE_CHARGE"), 20),
		DeliveryPricePerKm:    parseFloat(k.String("DELIVERY_PRICE_PER_KM"), 10),
		FreeDeliveryThreshold: parseFloat(k.String("FREE_DELIVERY_THRESHOLD"), 0),

		GeocoderProvider: valueOrDefault(k.String("GEOCODER_PROVIDER"), "mock"),
		GeocoderBaseURL:  k.String("GEOCODER_BASE_URL"),
		GeocoderAPIKey:   k.String("GEOCODER_API_KEY"),
		GeocoderTimeout:  parseDuration(k.String("GEOCODER_TIMEOUT"), "5s"),

		QuoteRateLimit:   valueOrDefault(k.String("RATE_LIMIT_QUOTE"), "60-M"),
		GeocodeRateLimit: valueOrDefault(k.String("RATE_LIMIT_GEOCODE"), "30-M"),

		RunMigrations: parseBool(k.String("RUN_MIGRATIONS")),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func parseFloat(value string, fallback float64) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
