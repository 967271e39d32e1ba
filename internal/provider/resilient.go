package provider

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/date-venue-service/internal/domain"
	"github.com/couchcryptid/date-venue-service/internal/observability"
)

const (
	defaultInitialBackoff = 200 * time.Millisecond
	defaultMaxBackoff     = 2 * time.Second
)

// resilientProvider throttles outgoing calls and retries transient failures
// with exponential backoff.
type resilientProvider struct {
	inner          domain.Provider
	providerType   domain.ProviderType
	limiter        *rate.Limiter
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
	metrics        *observability.Metrics
}

func newResilientProvider(inner domain.Provider, t domain.ProviderType, cfg Config, logger *slog.Logger, metrics *observability.Metrics) *resilientProvider {
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return &resilientProvider{
		inner:          inner,
		providerType:   t,
		limiter:        limiter,
		maxRetries:     max(cfg.MaxRetries, 0),
		initialBackoff: defaultInitialBackoff,
		maxBackoff:     defaultMaxBackoff,
		logger:         logger,
		metrics:        metrics,
	}
}

func (r *resilientProvider) SearchVenues(ctx context.Context, params domain.SearchParams) (domain.SearchResult, error) {
	return withRetry(ctx, r, "search", func(ctx context.Context) (domain.SearchResult, error) {
		return r.inner.SearchVenues(ctx, params)
	})
}

func (r *resilientProvider) SearchByCategory(ctx context.Context, category domain.Category, params domain.SearchParams) ([]domain.Venue, error) {
	return withRetry(ctx, r, "category", func(ctx context.Context) ([]domain.Venue, error) {
		return r.inner.SearchByCategory(ctx, category, params)
	})
}

func (r *resilientProvider) GetVenueDetails(ctx context.Context, id string) (*domain.Venue, error) {
	return withRetry(ctx, r, "details", func(ctx context.Context) (*domain.Venue, error) {
		return r.inner.GetVenueDetails(ctx, id)
	})
}

func withRetry[T any](ctx context.Context, r *resilientProvider, op string, call func(context.Context) (T, error)) (T, error) {
	var zero T
	backoff := r.initialBackoff
	for attempt := 0; ; attempt++ {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return zero, err
			}
		}

		result, err := call(ctx)
		if err == nil || attempt >= r.maxRetries || !retryable(err) {
			return result, err
		}

		r.logger.Warn("venue provider call failed, retrying",
			"operation", op,
			"attempt", attempt+1,
			"backoff", backoff,
			"error", err,
		)
		if r.metrics != nil {
			r.metrics.ProviderRetries.WithLabelValues(string(r.providerType)).Inc()
		}
		if !retry.SleepWithContext(ctx, backoff) {
			return zero, ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, r.maxBackoff)
	}
}

// retryable reports whether err is a rate limit, an upstream 5xx, or a
// network failure. Client errors and cancellations are final.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Temporary()
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
