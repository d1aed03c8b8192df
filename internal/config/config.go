package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string `validate:"required,oneof=development test production"`
	Port        string `validate:"required,numeric"`
	DatabaseURL string `validate:"required"`

	// Optional shared travel-time cache tier.
	RedisAddr     string
	RedisPassword string
	RedisDB       int `validate:"gte=0"`

	// Routing service (OpenRouteService). Empty key disables the fallback.
	// ORS offers no public-transport matrix, so the driving profile stands
	// in for the cross-city leg.
	ORSAPIKey          string
	ORSBaseURL         string        `validate:"required,url"`
	ORSProfile         string        `validate:"required"`
	ORSCountry         string        `validate:"omitempty,len=2"`
	ORSRatePerMinute   int           `validate:"gt=0"`
	GeocodeCacheMaxAge time.Duration `validate:"gt=0"`

	StationsPath   string
	RulesPath      string
	SeedPath       string
	TravelCacheTTL time.Duration `validate:"gt=0"`
}

// Load reads environment variables, applies defaults, and validates the result.
// Callers load .env files beforehand.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:        Get("APP_ENV", "development"),
		Port:               Get("PORT", "8080"),
		DatabaseURL:        Get("DATABASE_URL", ""),
		RedisAddr:          Get("REDIS_ADDR", ""),
		RedisPassword:      Get("REDIS_PASSWORD", ""),
		RedisDB:            GetInt("REDIS_DB", 0),
		ORSAPIKey:          strings.TrimSpace(Get("ORS_API_KEY", "")),
		ORSBaseURL:         Get("ORS_BASE_URL", "https://api.openrouteservice.org"),
		ORSProfile:         Get("ORS_PROFILE", "driving-car"),
		ORSCountry:         Get("ORS_COUNTRY", "MX"),
		ORSRatePerMinute:   GetInt("ORS_RATE_PER_MINUTE", 40),
		GeocodeCacheMaxAge: time.Duration(GetInt("GEOCODE_CACHE_MAX_AGE_DAYS", 30)) * 24 * time.Hour,
		StationsPath:       Get("STATIONS_PATH", "data/stations.geojson"),
		RulesPath:          Get("RULES_PATH", "data/rules.yml"),
		SeedPath:           Get("SEED_PATH", "data/seeds/bookings.json"),
		TravelCacheTTL:     time.Duration(GetInt("TRAVEL_CACHE_TTL_MINUTES", 60)) * time.Minute,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetInt returns the integer environment value for key. Unparseable values
// yield fallback.
func GetInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}

func (c *Config) RoutingEnabled() bool { return c.ORSAPIKey != "" }

func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }
