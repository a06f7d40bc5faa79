package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. It is read once at startup
// and passed by value or pointer afterwards; nothing reads the environment
// after Load returns.
type Config struct {
	AWS      AWSConfig
	Database DatabaseConfig
	Queue    QueueConfig
	Logging  LoggingConfig
	Pricing  PricingConfig
	Geo      GeoConfig
	Toll     TollConfig
	Server   ServerConfig
}

// AWSConfig holds AWS-specific configuration
type AWSConfig struct {
	Region string
}

// DatabaseConfig holds DynamoDB configuration
type DatabaseConfig struct {
	BookingsTable string
	FleetTable    string
	Endpoint      string // For local testing
}

// QueueConfig holds SQS configuration
type QueueConfig struct {
	BookingEventsQueueURL string // Empty disables event publishing
	Endpoint              string // For local testing
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// PricingConfig holds the cost model constants (INR)
type PricingConfig struct {
	DieselPerLitre       float64
	PetrolPerLitre       float64
	DefaultMileageKmPerL float64
	DefaultTollPerKm     float64
	OpexPerKm            float64
	MarginPct            float64
	Timezone             string
}

// GeoConfig holds geocoding/routing provider settings
type GeoConfig struct {
	GeocoderBaseURL string
	RouterBaseURL   string
	UserAgent       string
	Timeout         time.Duration
	CacheTTL        time.Duration
	RedisURL        string // Optional shared geocode cache
	DatabaseURL     string // Optional persistent geocode cache
}

// TollConfig holds the toll routing integration settings
type TollConfig struct {
	APIKey     string
	SecretName string // Secrets Manager fallback when APIKey is empty
	BaseURL    string
	Country    string
	Timeout    time.Duration
}

// ServerConfig holds local HTTP server settings
type ServerConfig struct {
	Port string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var errs []string
	num := func(key string, def float64) float64 {
		v, err := getFloat(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	seconds := func(key string, def float64) time.Duration {
		return time.Duration(num(key, def) * float64(time.Second))
	}

	cfg := &Config{
		AWS: AWSConfig{
			Region: getEnv("AWS_REGION", "ap-south-1"),
		},
		Database: DatabaseConfig{
			BookingsTable: getEnv("BOOKINGS_TABLE", "bookings"),
			FleetTable:    getEnv("FLEET_TABLE", "fleet_assets"),
			Endpoint:      getEnv("DYNAMODB_ENDPOINT", ""),
		},
		Queue: QueueConfig{
			BookingEventsQueueURL: getEnv("BOOKING_EVENTS_QUEUE_URL", ""),
			Endpoint:              getEnv("SQS_ENDPOINT", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
		Pricing: PricingConfig{
			DieselPerLitre:       num("FUEL_PRICE_DIESEL_INR", 95),
			PetrolPerLitre:       num("FUEL_PRICE_PETROL_INR", 105),
			DefaultMileageKmPerL: num("TRUCK_AVG_MILEAGE_KM_PER_L", 3.5),
			DefaultTollPerKm:     num("TOLL_COST_PER_KM_INR", 2.0),
			OpexPerKm:            num("OPERATING_COST_PER_KM_INR", 8.0),
			MarginPct:            num("BASE_MARGIN_PCT", 0.08),
			Timezone:             getEnv("QUOTE_TIMEZONE", "UTC"),
		},
		Geo: GeoConfig{
			GeocoderBaseURL: getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
			RouterBaseURL:   getEnv("ROUTER_BASE_URL", "https://router.project-osrm.org"),
			UserAgent:       getEnv("GEO_USER_AGENT", "sumit-fleet/1.0"),
			Timeout:         seconds("OUTBOUND_TIMEOUT_SECONDS", 10),
			CacheTTL:        time.Duration(num("GEO_CACHE_TTL_MINUTES", 60) * float64(time.Minute)),
			RedisURL:        getEnv("GEO_CACHE_REDIS_URL", ""),
			DatabaseURL:     getEnv("GEO_CACHE_DATABASE_URL", ""),
		},
		Toll: TollConfig{
			APIKey:     getEnv("TOLL_API_KEY", ""),
			SecretName: getEnv("TOLL_API_SECRET_NAME", ""),
			BaseURL:    getEnv("TOLL_API_BASE_URL", "https://apis.tollguru.com/taas/v3/route"),
			Country:    getEnv("TOLL_API_COUNTRY", "IND"),
			Timeout:    seconds("TOLL_TIMEOUT_SECONDS", 10),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "4000"),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	p := c.Pricing
	switch {
	case p.DefaultMileageKmPerL <= 0:
		return fmt.Errorf("TRUCK_AVG_MILEAGE_KM_PER_L must be positive")
	case p.DieselPerLitre < 0, p.DefaultTollPerKm < 0, p.OpexPerKm < 0:
		return fmt.Errorf("fuel, toll and operating costs must not be negative")
	case p.MarginPct < 0:
		return fmt.Errorf("BASE_MARGIN_PCT must not be negative")
	}

	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return fmt.Errorf("QUOTE_TIMEZONE %q: %w", p.Timezone, err)
	}

	if c.Database.BookingsTable == "" {
		return fmt.Errorf("BOOKINGS_TABLE is required")
	}

	return nil
}

// Location returns the time zone trip dates are interpreted in
func (p PricingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return defaultValue, fmt.Errorf("%s must be a finite number, got %q", key, raw)
	}
	return v, nil
}
