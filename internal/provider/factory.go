// Package provider builds venue providers and decorates them with rate
// limiting, retries, instrumentation, and result caching.
package provider

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/date-venue-service/internal/adapter/foursquare"
	"github.com/couchcryptid/date-venue-service/internal/adapter/google"
	"github.com/couchcryptid/date-venue-service/internal/adapter/yelp"
	"github.com/couchcryptid/date-venue-service/internal/domain"
	"github.com/couchcryptid/date-venue-service/internal/observability"
)

// DefaultTimeout bounds a single upstream request when Config.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// Config describes how to build one provider instance.
type Config struct {
	APIKey  string
	BaseURL string // empty selects the provider's public endpoint
	Timeout time.Duration

	// RateLimit is the sustained request rate per second; 0 disables limiting.
	RateLimit  float64
	RateBurst  int
	MaxRetries int

	// Cache stores provider results for CacheTTL; nil disables caching.
	Cache    Cache
	CacheTTL time.Duration
}

// Builder constructs an undecorated provider adapter.
type Builder func(cfg Config, logger *slog.Logger) domain.Provider

// DefaultBuilders returns the builders for every supported provider type.
func DefaultBuilders() map[domain.ProviderType]Builder {
	return map[domain.ProviderType]Builder{
		domain.ProviderGoogle: func(cfg Config, logger *slog.Logger) domain.Provider {
			return google.NewClient(cfg.APIKey, cfg.BaseURL, cfg.timeout(), logger)
		},
		domain.ProviderYelp: func(cfg Config, logger *slog.Logger) domain.Provider {
			return yelp.NewClient(cfg.APIKey, cfg.BaseURL, cfg.timeout(), logger)
		},
		domain.ProviderFoursquare: func(cfg Config, logger *slog.Logger) domain.Provider {
			return foursquare.NewClient(cfg.APIKey, cfg.BaseURL, cfg.timeout(), logger)
		},
	}
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// Factory creates providers on demand and caches one instance per type
// until it is switched or cleared. It is safe for concurrent use.
type Factory struct {
	builders  map[domain.ProviderType]Builder
	logger    *slog.Logger
	metrics   *observability.Metrics
	mu        sync.RWMutex
	providers map[domain.ProviderType]domain.Provider
}

// NewFactory creates a factory with the default builders. metrics may be nil.
func NewFactory(logger *slog.Logger, metrics *observability.Metrics) *Factory {
	return NewFactoryWithBuilders(DefaultBuilders(), logger, metrics)
}

// NewFactoryWithBuilders creates a factory that only knows the given builders.
func NewFactoryWithBuilders(builders map[domain.ProviderType]Builder, logger *slog.Logger, metrics *observability.Metrics) *Factory {
	return &Factory{
		builders:  builders,
		logger:    logger,
		metrics:   metrics,
		providers: make(map[domain.ProviderType]domain.Provider),
	}
}

// CreateProvider returns the cached provider for t, building it from cfg on
// first use. cfg is ignored when an instance already exists.
func (f *Factory) CreateProvider(t domain.ProviderType, cfg Config) (domain.Provider, error) {
	f.mu.RLock()
	p, ok := f.providers[t]
	f.mu.RUnlock()
	if ok {
		return p, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if p, ok := f.providers[t]; ok {
		return p, nil
	}
	p, err := f.build(t, cfg)
	if err != nil {
		return nil, err
	}
	f.providers[t] = p
	return p, nil
}

// SwitchProvider discards any cached instance for t and builds a new one from cfg.
func (f *Factory) SwitchProvider(t domain.ProviderType, cfg Config) (domain.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, err := f.build(t, cfg)
	if err != nil {
		return nil, err
	}
	f.providers[t] = p
	f.logger.Info("venue provider switched", "provider", t)
	return p, nil
}

// GetProvider returns the cached provider for t without building one.
func (f *Factory) GetProvider(t domain.ProviderType) (domain.Provider, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.providers[t]
	return p, ok
}

// ClearProviders discards every cached instance.
func (f *Factory) ClearProviders() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.providers = make(map[domain.ProviderType]domain.Provider)
}

// build must be called with f.mu held.
func (f *Factory) build(t domain.ProviderType, cfg Config) (domain.Provider, error) {
	builder, ok := f.builders[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProvider, t)
	}

	logger := f.logger.With("provider", string(t))
	var p domain.Provider = builder(cfg, logger)

	p = newResilientProvider(p, t, cfg, logger, f.metrics)
	if f.metrics != nil {
		p = newInstrumentedProvider(p, t, logger, f.metrics)
	}
	if cfg.Cache != nil && cfg.CacheTTL > 0 {
		p = newCachedProvider(p, t, configFingerprint(cfg), cfg.Cache, cfg.CacheTTL, logger, f.metrics)
	}
	return p, nil
}
