package provider

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/couchcryptid/date-venue-service/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingProvider returns errs in order, then succeeds with venues.
type countingProvider struct {
	mu      sync.Mutex
	calls   int
	errs    []error
	venues  []domain.Venue
	details *domain.Venue
}

func (m *countingProvider) next() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return err
	}
	return nil
}

func (m *countingProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *countingProvider) SearchVenues(_ context.Context, _ domain.SearchParams) (domain.SearchResult, error) {
	if err := m.next(); err != nil {
		return domain.SearchResult{}, err
	}
	return domain.SearchResult{Venues: m.venues, Total: len(m.venues)}, nil
}

func (m *countingProvider) SearchByCategory(_ context.Context, _ domain.Category, _ domain.SearchParams) ([]domain.Venue, error) {
	if err := m.next(); err != nil {
		return nil, err
	}
	return m.venues, nil
}

func (m *countingProvider) GetVenueDetails(_ context.Context, _ string) (*domain.Venue, error) {
	if err := m.next(); err != nil {
		return nil, err
	}
	return m.details, nil
}
