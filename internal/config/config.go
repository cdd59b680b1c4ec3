package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultDatabaseURL     = "taxi.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTAccessTTL    = "24h"
	defaultBookingTimezone = "Local"
	defaultCodeAttempts    = "3"
	defaultSearchMatchMode = MatchSubstring
	defaultSearchCacheTTL  = "30s"
	defaultCacheEnabled    = "true"
	defaultRedisDB         = "0"
)

const (
	MatchSubstring = "substring"
	MatchExact     = "exact"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string

	JWTSecret    string
	JWTAccessTTL time.Duration

	// BookingLocation decides which calendar day a ride date falls on.
	BookingLocation     *time.Location
	BookingCodeAttempts int

	SearchMatchMode string
	SearchCacheTTL  time.Duration
	CacheEnabled    bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitMQURL string

	CORSAllowedOrigins []string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env not loaded: %v", err)
	}

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	cfg.BookingLocation, err = parseLocationEnv("BOOKING_TIMEZONE", defaultBookingTimezone)
	if err != nil {
		return nil, err
	}

	cfg.BookingCodeAttempts, err = parseIntEnv("BOOKING_CODE_ATTEMPTS", defaultCodeAttempts)
	if err != nil {
		return nil, err
	}

	cfg.SearchMatchMode = strings.ToLower(strings.TrimSpace(getEnv("SEARCH_MATCH_MODE", defaultSearchMatchMode)))
	cfg.SearchCacheTTL, err = parseDurationEnv("SEARCH_CACHE_TTL", defaultSearchCacheTTL)
	if err != nil {
		return nil, err
	}
	cfg.CacheEnabled = parseBoolEnv("CACHE_ENABLED", defaultCacheEnabled)

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB, err = parseIntEnv("REDIS_DB", defaultRedisDB)
	if err != nil {
		return nil, err
	}

	cfg.RabbitMQURL = strings.TrimSpace(os.Getenv("RABBITMQ_URL"))
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s addr=%s tz=%s match=%s redis=%t rabbitmq=%t",
		cfg.AppEnv, cfg.HTTPAddr, cfg.BookingLocation, cfg.SearchMatchMode, cfg.RedisAddr != "", cfg.RabbitMQURL != "")

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.BookingCodeAttempts < 1 {
		return fmt.Errorf("BOOKING_CODE_ATTEMPTS must be >= 1")
	}
	if cfg.SearchMatchMode != MatchSubstring && cfg.SearchMatchMode != MatchExact {
		return fmt.Errorf("SEARCH_MATCH_MODE must be one of: substring, exact")
	}
	if cfg.SearchCacheTTL <= 0 {
		return fmt.Errorf("SEARCH_CACHE_TTL must be > 0")
	}

	if IsProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}

	return nil
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseLocationEnv(name, fallback string) (*time.Location, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	loc, err := time.LoadLocation(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return loc, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
