package provider

import (
	"github.com/couchcryptid/date-venue-service/internal/config"
	"github.com/couchcryptid/date-venue-service/internal/domain"
)

// FromConfig builds the provider config for t from service settings. The
// API key comes from t's own key variables; cache may be nil.
func FromConfig(cfg *config.Config, t domain.ProviderType, cache Cache) Config {
	return Config{
		APIKey:     cfg.APIKey(t),
		BaseURL:    cfg.VenueBaseURL,
		Timeout:    cfg.VenueTimeout,
		RateLimit:  cfg.RateLimit,
		RateBurst:  cfg.RateBurst,
		MaxRetries: cfg.MaxRetries,
		Cache:      cache,
		CacheTTL:   cfg.CacheTTL,
	}
}
