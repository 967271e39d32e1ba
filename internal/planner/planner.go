// Package planner holds the date-venue state a consumer renders: the four
// category buckets plus loading and error status.
package planner

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/couchcryptid/date-venue-service/internal/domain"
)

// VenueSearcher is the subset of the venue client the planner drives.
type VenueSearcher interface {
	GetDateVenues(ctx context.Context, lat, lng float64, radius int) (domain.DateVenues, error)
	SearchByCategory(ctx context.Context, category domain.Category, params domain.SearchParams) ([]domain.Venue, error)
}

// DefaultRadius is used when a search is issued with radius zero.
const DefaultRadius = 5000

// Planner is safe for concurrent use. Its search methods never return
// errors; failures are stored and read back through Err.
type Planner struct {
	client VenueSearcher
	logger *slog.Logger

	mu       sync.Mutex
	venues   domain.DateVenues
	inflight int
	errMsg   string
}

// New creates a planner with every bucket empty.
func New(client VenueSearcher, logger *slog.Logger) *Planner {
	return &Planner{
		client: client,
		logger: logger,
		venues: domain.NewDateVenues(),
	}
}

// SearchVenues replaces all four buckets with a fresh date search. On
// failure the previous buckets are kept and Err reports the reason.
func (p *Planner) SearchVenues(ctx context.Context, lat, lng float64, radius int) {
	p.begin()

	venues, err := p.client.GetDateVenues(ctx, lat, lng, radiusOr(radius))

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inflight--
	if err != nil {
		p.errMsg = errorMessage(err)
		p.logger.Warn("date venue search failed", "error", err)
		return
	}
	p.venues = venues
}

// SearchByCategory refreshes the bucket for one date category and leaves
// the others untouched. Categories without a bucket are rejected.
func (p *Planner) SearchByCategory(ctx context.Context, category domain.Category, lat, lng float64, radius int) {
	p.begin()

	var (
		venues []domain.Venue
		err    error
	)
	if _, ok := (&domain.DateVenues{}).Bucket(category); !ok {
		err = errUnsupportedCategory
	} else {
		venues, err = p.client.SearchByCategory(ctx, category, domain.SearchParams{
			Latitude:  lat,
			Longitude: lng,
			Radius:    radiusOr(radius),
		})
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inflight--
	if err != nil {
		p.errMsg = errorMessage(err)
		p.logger.Warn("category venue search failed", "category", category, "error", err)
		return
	}
	p.venues.SetBucket(category, venues)
}

// ClearError resets the stored error message.
func (p *Planner) ClearError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errMsg = ""
}

// Venues returns a copy of the current buckets.
func (p *Planner) Venues() domain.DateVenues {
	p.mu.Lock()
	defer p.mu.Unlock()
	return domain.DateVenues{
		Restaurants: domain.TruncateVenues(p.venues.Restaurants, domain.MaxDateVenuesPerCategory),
		Cafes:       domain.TruncateVenues(p.venues.Cafes, domain.MaxDateVenuesPerCategory),
		Bars:        domain.TruncateVenues(p.venues.Bars, domain.MaxDateVenuesPerCategory),
		Activities:  domain.TruncateVenues(p.venues.Activities, domain.MaxDateVenuesPerCategory),
	}
}

// Loading reports whether any search is still in progress.
func (p *Planner) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inflight > 0
}

// Err returns the last failure message, or "" when none is pending.
func (p *Planner) Err() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errMsg
}

func (p *Planner) begin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inflight++
	p.errMsg = ""
}

func radiusOr(radius int) int {
	if radius <= 0 {
		return DefaultRadius
	}
	return radius
}

var errUnsupportedCategory = errors.New("category has no date bucket")

// errorMessage turns an error into the text shown to the user.
func errorMessage(err error) string {
	var upstream *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		return "Venue search is not configured. Set an API key for the venue provider."
	case errors.Is(err, domain.ErrInvalidParams):
		return "Invalid search: " + err.Error()
	case errors.Is(err, errUnsupportedCategory):
		return "This category cannot be planned: " + err.Error()
	case errors.As(err, &upstream):
		return "Venue search failed: " + upstream.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Venue search timed out. Please try again."
	case err.Error() == "":
		return "Failed to search venues"
	default:
		return err.Error()
	}
}
