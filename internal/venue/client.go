// Package venue is the facade consumers use to search venues without
// knowing which provider answers.
package venue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/date-venue-service/internal/domain"
	"github.com/couchcryptid/date-venue-service/internal/observability"
	"github.com/couchcryptid/date-venue-service/internal/provider"
)

// DefaultRadius applies to the category helpers and date search when the
// caller passes a radius of zero.
const DefaultRadius = 5000

// Config selects the active provider and how to build it.
type Config struct {
	ProviderType domain.ProviderType
	Provider     provider.Config
}

// Client delegates searches to the active provider. A client built without
// an API key, or for an unknown provider type, stays usable but every call
// fails with a *domain.ConfigError before any network I/O.
type Client struct {
	factory *provider.Factory
	logger  *slog.Logger
	metrics *observability.Metrics

	mu           sync.RWMutex
	providerType domain.ProviderType
	active       domain.Provider
	configErr    error
}

// NewClient creates a venue client. metrics may be nil.
func NewClient(factory *provider.Factory, cfg Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	c := &Client{
		factory: factory,
		logger:  logger,
		metrics: metrics,
	}

	p, err := c.build(cfg, factory.CreateProvider)
	c.providerType = cfg.ProviderType
	c.active = p
	c.configErr = err
	if err != nil {
		logger.Warn("venue client not configured", "provider", cfg.ProviderType, "error", err)
	} else {
		logger.Info("venue client configured", "provider", cfg.ProviderType)
	}
	c.setActiveGauge(cfg.ProviderType, err == nil)
	return c
}

func (c *Client) build(cfg Config, create func(domain.ProviderType, provider.Config) (domain.Provider, error)) (domain.Provider, error) {
	if cfg.Provider.APIKey == "" {
		return nil, &domain.ConfigError{
			Provider: cfg.ProviderType,
			Reason:   fmt.Sprintf("no API key set for provider %q", cfg.ProviderType),
		}
	}
	p, err := create(cfg.ProviderType, cfg.Provider)
	if err != nil {
		return nil, &domain.ConfigError{Provider: cfg.ProviderType, Reason: err.Error()}
	}
	return p, nil
}

// SwitchProvider rebuilds the provider for t from cfg and makes it active.
// Calls already in flight finish on the previous provider. On error the
// previous provider stays active.
func (c *Client) SwitchProvider(t domain.ProviderType, cfg provider.Config) error {
	p, err := c.build(Config{ProviderType: t, Provider: cfg}, c.factory.SwitchProvider)
	if err != nil {
		return err
	}

	c.mu.Lock()
	previous := c.providerType
	c.providerType = t
	c.active = p
	c.configErr = nil
	c.mu.Unlock()

	if previous != t {
		c.setActiveGauge(previous, false)
	}
	c.setActiveGauge(t, true)
	c.logger.Info("venue client switched provider", "from", previous, "to", t)
	return nil
}

// CurrentProviderType returns the configured provider type.
func (c *Client) CurrentProviderType() domain.ProviderType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.providerType
}

// CheckReadiness returns the configuration error, if any.
func (c *Client) CheckReadiness(_ context.Context) error {
	_, err := c.provider()
	return err
}

func (c *Client) provider() (domain.Provider, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErr != nil {
		return nil, c.configErr
	}
	return c.active, nil
}

// SearchVenues runs a free-form search on the active provider.
func (c *Client) SearchVenues(ctx context.Context, params domain.SearchParams) (domain.SearchResult, error) {
	p, err := c.provider()
	if err != nil {
		return domain.SearchResult{}, err
	}
	if err := params.Validate(); err != nil {
		return domain.SearchResult{}, err
	}
	return p.SearchVenues(ctx, params)
}

// SearchByCategory runs a single-category search on the active provider.
func (c *Client) SearchByCategory(ctx context.Context, category domain.Category, params domain.SearchParams) ([]domain.Venue, error) {
	p, err := c.provider()
	if err != nil {
		return nil, err
	}
	params.Category = category
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return p.SearchByCategory(ctx, category, params)
}

// SearchRestaurants searches restaurants around a point.
func (c *Client) SearchRestaurants(ctx context.Context, lat, lng float64, radius int) ([]domain.Venue, error) {
	return c.SearchByCategory(ctx, domain.CategoryRestaurant, pointParams(lat, lng, radius))
}

// SearchCafes searches cafes around a point.
func (c *Client) SearchCafes(ctx context.Context, lat, lng float64, radius int) ([]domain.Venue, error) {
	return c.SearchByCategory(ctx, domain.CategoryCafe, pointParams(lat, lng, radius))
}

// SearchBars searches bars around a point.
func (c *Client) SearchBars(ctx context.Context, lat, lng float64, radius int) ([]domain.Venue, error) {
	return c.SearchByCategory(ctx, domain.CategoryBar, pointParams(lat, lng, radius))
}

// SearchActivities searches activities around a point.
func (c *Client) SearchActivities(ctx context.Context, lat, lng float64, radius int) ([]domain.Venue, error) {
	return c.SearchByCategory(ctx, domain.CategoryActivity, pointParams(lat, lng, radius))
}

// GetDateVenues searches the four date categories concurrently and returns
// at most MaxDateVenuesPerCategory venues per bucket, in provider order. If
// any search fails the whole call fails and the remaining searches are
// cancelled.
func (c *Client) GetDateVenues(ctx context.Context, lat, lng float64, radius int) (domain.DateVenues, error) {
	p, err := c.provider()
	if err != nil {
		return domain.DateVenues{}, err
	}
	params := pointParams(lat, lng, radius)
	if err := params.Validate(); err != nil {
		return domain.DateVenues{}, err
	}

	start := time.Now()
	results := make([][]domain.Venue, len(domain.DateCategories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range domain.DateCategories {
		g.Go(func() error {
			venues, err := p.SearchByCategory(gctx, category, params)
			if err != nil {
				return fmt.Errorf("search %s: %w", category, err)
			}
			results[i] = venues
			return nil
		})
	}
	err = g.Wait()

	if c.metrics != nil {
		c.metrics.DateSearchDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if c.metrics != nil {
			c.metrics.DateSearchErrors.Inc()
		}
		return domain.DateVenues{}, err
	}

	out := domain.NewDateVenues()
	for i, category := range domain.DateCategories {
		out.SetBucket(category, results[i])
	}

	c.logger.Debug("date venue search completed",
		"restaurants", len(out.Restaurants),
		"cafes", len(out.Cafes),
		"bars", len(out.Bars),
		"activities", len(out.Activities),
		"duration", time.Since(start),
	)
	return out, nil
}

// GetVenueDetails returns a venue by provider id, or nil when it does not exist.
func (c *Client) GetVenueDetails(ctx context.Context, id string) (*domain.Venue, error) {
	p, err := c.provider()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("%w: venue id is required", domain.ErrInvalidParams)
	}
	return p.GetVenueDetails(ctx, id)
}

func pointParams(lat, lng float64, radius int) domain.SearchParams {
	if radius <= 0 {
		radius = DefaultRadius
	}
	return domain.SearchParams{Latitude: lat, Longitude: lng, Radius: radius}
}

func (c *Client) setActiveGauge(t domain.ProviderType, active bool) {
	if c.metrics == nil || t == "" {
		return
	}
	v := 0.0
	if active {
		v = 1
	}
	c.metrics.ActiveProvider.WithLabelValues(string(t)).Set(v)
}
