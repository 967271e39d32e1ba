package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/date-venue-service/internal/domain"
)

// apiKeyEnv lists, per provider, the variables holding its API key in
// priority order. VENUE_API_KEY is the shared fallback.
var apiKeyEnv = map[domain.ProviderType][]string{
	domain.ProviderGoogle:     {"GOOGLE_PLACES_API_KEY", "GOOGLE_MAPS_API_KEY", "VENUE_API_KEY"},
	domain.ProviderYelp:       {"YELP_API_KEY", "VENUE_API_KEY"},
	domain.ProviderFoursquare: {"FOURSQUARE_API_KEY", "FSQ_API_KEY", "VENUE_API_KEY"},
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Venue provider configuration. Provider is not validated here; an
	// unknown type or a missing key leaves the venue client unconfigured.
	Provider     domain.ProviderType
	APIKeys      map[domain.ProviderType]string
	VenueBaseURL string
	VenueTimeout time.Duration

	RateLimit  float64
	RateBurst  int
	MaxRetries int

	// Result cache. CacheSize 0 disables the in-memory cache; RedisAddr
	// selects the shared Redis cache instead.
	CacheSize int
	CacheTTL  time.Duration
	RedisAddr string

	// Suggestion collaborators. Both are optional.
	DatabaseURL          string
	KafkaEnabled         bool
	KafkaBrokers         []string
	KafkaSuggestionTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	venueTimeout, err := parseDuration("VENUE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("VENUE_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("VENUE_RATE_LIMIT", "10"), 64)
	if err != nil || rateLimit < 0 {
		return nil, errors.New("invalid VENUE_RATE_LIMIT")
	}
	rateBurst, err := parseInt("VENUE_RATE_BURST", "5", 1)
	if err != nil {
		return nil, err
	}
	maxRetries, err := parseInt("VENUE_MAX_RETRIES", "2", 0)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseInt("VENUE_CACHE_SIZE", "500", 0)
	if err != nil {
		return nil, err
	}

	apiKeys := make(map[domain.ProviderType]string, len(apiKeyEnv))
	for t := range apiKeyEnv {
		apiKeys[t] = ResolveAPIKey(t)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		Provider:     domain.ProviderType(strings.ToLower(sharedcfg.EnvOrDefault("VENUE_PROVIDER", string(domain.DefaultProviderType)))),
		APIKeys:      apiKeys,
		VenueBaseURL: os.Getenv("VENUE_BASE_URL"),
		VenueTimeout: venueTimeout,
		RateLimit:    rateLimit,
		RateBurst:    rateBurst,
		MaxRetries:   maxRetries,
		CacheSize:    cacheSize,
		CacheTTL:     cacheTTL,
		RedisAddr:    os.Getenv("REDIS_ADDR"),

		DatabaseURL:          os.Getenv("DATABASE_URL"),
		KafkaEnabled:         os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:         sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSuggestionTopic: sharedcfg.EnvOrDefault("KAFKA_SUGGESTION_TOPIC", "venue-suggestions"),
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaSuggestionTopic == "" {
			return nil, errors.New("KAFKA_SUGGESTION_TOPIC is required")
		}
	}

	return cfg, nil
}

// APIKey returns the resolved key for provider t, or "" when none is set.
func (c *Config) APIKey(t domain.ProviderType) string {
	return c.APIKeys[t]
}

// ResolveAPIKey reads the first non-empty key variable for provider t.
func ResolveAPIKey(t domain.ProviderType) string {
	for _, name := range apiKeyEnv[t] {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func parseDuration(name, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(name, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return d, nil
}

func parseInt(name, def string, floor int) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(name, def))
	if err != nil || n < floor {
		return 0, fmt.Errorf("invalid %s: must be an integer >= %d", name, floor)
	}
	return n, nil
}
