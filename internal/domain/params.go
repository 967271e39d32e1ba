package domain

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Search limits shared by every provider.
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 50
	MaxSearchRadius    = 50000
)

// SearchParams is the provider-independent search request. Zero values mean
// "not set": the adapter applies its own default radius and limit and skips
// the optional filters.
type SearchParams struct {
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Radius     int      `json:"radius,omitempty"` // meters
	Keyword    string   `json:"keyword,omitempty"`
	Category   Category `json:"category,omitempty"`
	PriceLevel int      `json:"price_level,omitempty"`
	OpenNow    bool     `json:"open_now,omitempty"`
	Limit      int      `json:"limit,omitempty"`
}

// Validate checks coordinate ranges and optional filters.
func (p SearchParams) Validate() error {
	categories := make([]any, len(Categories))
	for i, c := range Categories {
		categories[i] = c
	}

	err := validation.ValidateStruct(&p,
		validation.Field(&p.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&p.Longitude, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&p.Radius, validation.Min(0), validation.Max(MaxSearchRadius)),
		validation.Field(&p.Category, validation.In(categories...)),
		validation.Field(&p.PriceLevel, validation.Min(0), validation.Max(MaxPriceLevel)),
		validation.Field(&p.Limit, validation.Min(0), validation.Max(MaxSearchLimit)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

// RadiusOr returns the radius, or def when unset.
func (p SearchParams) RadiusOr(def int) int {
	if p.Radius > 0 {
		return p.Radius
	}
	return def
}

// LimitOr returns the limit, or def when unset.
func (p SearchParams) LimitOr(def int) int {
	if p.Limit > 0 {
		return p.Limit
	}
	return def
}
