package domain

import (
	"context"
	"fmt"
)

// ProviderType tags an upstream place-search API.
type ProviderType string

const (
	ProviderGoogle     ProviderType = "google"
	ProviderYelp       ProviderType = "yelp"
	ProviderFoursquare ProviderType = "foursquare"
)

// DefaultProviderType is used when no provider is configured explicitly.
const DefaultProviderType = ProviderGoogle

// ProviderTypes lists the supported providers.
var ProviderTypes = []ProviderType{ProviderGoogle, ProviderYelp, ProviderFoursquare}

// ParseProviderType converts a string to a ProviderType.
func ParseProviderType(s string) (ProviderType, error) {
	for _, t := range ProviderTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
}

// Provider searches one upstream place API and normalizes its results.
type Provider interface {
	// SearchVenues returns the venues matching params with the total count
	// and an optional pagination token.
	SearchVenues(ctx context.Context, params SearchParams) (SearchResult, error)

	// SearchByCategory runs SearchVenues with params.Category set to category
	// and returns only the venues.
	SearchByCategory(ctx context.Context, category Category, params SearchParams) ([]Venue, error)

	// GetVenueDetails returns a single venue, or nil when the provider reports
	// that the id does not exist.
	GetVenueDetails(ctx context.Context, id string) (*Venue, error)
}
