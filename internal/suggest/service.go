// Package suggest records venues proposed for a match and announces them.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/date-venue-service/internal/domain"
	"github.com/couchcryptid/date-venue-service/internal/observability"
)

// ErrVenueNotFound is returned when the suggested venue id does not resolve.
var ErrVenueNotFound = errors.New("venue not found")

// VenueResolver looks up a venue by provider id.
type VenueResolver interface {
	GetVenueDetails(ctx context.Context, id string) (*domain.Venue, error)
}

// Store persists suggestions. Repeating a suggestion updates the stored row.
type Store interface {
	UpsertSuggestion(ctx context.Context, s domain.Suggestion) error
}

// Publisher announces stored suggestions to other services.
type Publisher interface {
	PublishSuggestion(ctx context.Context, s domain.Suggestion) error
}

// Request is a member's proposal of a venue for a match.
type Request struct {
	MatchID string `json:"match_id"`
	UserID  string `json:"-"`
	VenueID string `json:"venue_id"`
}

// Validate checks that every field is present.
func (r Request) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.MatchID, validation.Required),
		validation.Field(&r.UserID, validation.Required),
		validation.Field(&r.VenueID, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidParams, err)
	}
	return nil
}

// Service resolves, stores, and publishes venue suggestions.
type Service struct {
	venues    VenueResolver
	store     Store
	publisher Publisher
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewService creates a suggestion service. publisher and metrics may be nil.
func NewService(venues VenueResolver, store Store, publisher Publisher, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		venues:    venues,
		store:     store,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// Suggest stores the venue as a proposal for the match and publishes an
// event. A publish failure is logged; the stored suggestion is still returned.
func (s *Service) Suggest(ctx context.Context, req Request) (domain.Suggestion, error) {
	if err := req.Validate(); err != nil {
		return domain.Suggestion{}, err
	}

	venue, err := s.venues.GetVenueDetails(ctx, req.VenueID)
	if err != nil {
		s.count("error")
		return domain.Suggestion{}, fmt.Errorf("resolve venue: %w", err)
	}
	if venue == nil {
		return domain.Suggestion{}, fmt.Errorf("%w: %s", ErrVenueNotFound, req.VenueID)
	}

	suggestion := domain.Suggestion{
		ID:         uuid.New(),
		MatchID:    req.MatchID,
		ProposedBy: req.UserID,
		Venue:      *venue,
		CreatedAt:  s.clock.Now().UTC(),
	}

	if err := s.store.UpsertSuggestion(ctx, suggestion); err != nil {
		s.count("error")
		return domain.Suggestion{}, fmt.Errorf("store suggestion: %w", err)
	}
	s.count("stored")

	if s.publisher != nil {
		if err := s.publisher.PublishSuggestion(ctx, suggestion); err != nil {
			s.count("publish_error")
			s.logger.Error("publish suggestion failed",
				"suggestion_id", suggestion.ID,
				"match_id", suggestion.MatchID,
				"error", err,
			)
		} else {
			s.count("published")
		}
	}

	s.logger.Info("venue suggested",
		"suggestion_id", suggestion.ID,
		"match_id", suggestion.MatchID,
		"venue_id", venue.ID,
		"provider", venue.Provider,
	)
	return suggestion, nil
}

func (s *Service) count(outcome string) {
	if s.metrics != nil {
		s.metrics.Suggestions.WithLabelValues(outcome).Inc()
	}
}
