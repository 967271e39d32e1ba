package domain

import (
	"time"

	"github.com/google/uuid"
)

// Suggestion is a venue one member of a match proposes for a date.
type Suggestion struct {
	ID         uuid.UUID `json:"id"`
	MatchID    string    `json:"match_id"`
	ProposedBy string    `json:"proposed_by"`
	Venue      Venue     `json:"venue"`
	CreatedAt  time.Time `json:"created_at"`
}
