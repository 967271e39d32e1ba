package provider

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/date-venue-service/internal/domain"
	"github.com/couchcryptid/date-venue-service/internal/observability"
)

// instrumentedProvider records request outcomes and upstream latency.
type instrumentedProvider struct {
	inner        domain.Provider
	providerType string
	logger       *slog.Logger
	metrics      *observability.Metrics
}

func newInstrumentedProvider(inner domain.Provider, t domain.ProviderType, logger *slog.Logger, metrics *observability.Metrics) *instrumentedProvider {
	return &instrumentedProvider{inner: inner, providerType: string(t), logger: logger, metrics: metrics}
}

func (p *instrumentedProvider) SearchVenues(ctx context.Context, params domain.SearchParams) (domain.SearchResult, error) {
	start := time.Now()
	result, err := p.inner.SearchVenues(ctx, params)
	p.observe("search", start, err, false)
	return result, err
}

func (p *instrumentedProvider) SearchByCategory(ctx context.Context, category domain.Category, params domain.SearchParams) ([]domain.Venue, error) {
	start := time.Now()
	venues, err := p.inner.SearchByCategory(ctx, category, params)
	p.observe("category", start, err, false)
	return venues, err
}

func (p *instrumentedProvider) GetVenueDetails(ctx context.Context, id string) (*domain.Venue, error) {
	start := time.Now()
	v, err := p.inner.GetVenueDetails(ctx, id)
	p.observe("details", start, err, err == nil && v == nil)
	return v, err
}

func (p *instrumentedProvider) observe(op string, start time.Time, err error, notFound bool) {
	elapsed := time.Since(start)
	p.metrics.ProviderAPIDuration.WithLabelValues(p.providerType, op).Observe(elapsed.Seconds())

	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
		p.logger.Error("venue provider request failed", "operation", op, "duration", elapsed, "error", err)
	case notFound:
		outcome = "not_found"
	default:
		p.logger.Debug("venue provider request completed", "operation", op, "duration", elapsed)
	}
	p.metrics.ProviderRequests.WithLabelValues(p.providerType, op, outcome).Inc()
}
