package domain

// Venue is the provider-independent result of a place search. Every adapter
// produces the same shape; Provider is informational only.
type Venue struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Rating      float64       `json:"rating"` // provider's native scale
	PriceLevel  int           `json:"price_level"`
	Categories  []Category    `json:"categories"`
	Location    VenueLocation `json:"location"`
	Distance    float64       `json:"distance"` // meters from the query point
	ImageURL    string        `json:"image_url,omitempty"`
	Phone       string        `json:"phone,omitempty"`
	Website     string        `json:"website,omitempty"`
	OpenNow     *bool         `json:"open_now,omitempty"`
	ReviewCount *int          `json:"review_count,omitempty"`
	Provider    ProviderType  `json:"provider"`
}

// VenueLocation is the postal and geographic position of a venue.
type VenueLocation struct {
	Address   string  `json:"address"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SearchResult is the full envelope returned by a provider search.
type SearchResult struct {
	Venues        []Venue `json:"venues"`
	Total         int     `json:"total"`
	NextPageToken string  `json:"next_page_token,omitempty"`
}

// MaxDateVenuesPerCategory caps each DateVenues bucket.
const MaxDateVenuesPerCategory = 5

// DateVenues groups venues into the four date-planning buckets.
type DateVenues struct {
	Restaurants []Venue `json:"restaurants"`
	Cafes       []Venue `json:"cafes"`
	Bars        []Venue `json:"bars"`
	Activities  []Venue `json:"activities"`
}

// NewDateVenues returns a bucket set with every bucket empty but non-nil, so
// it encodes as four JSON arrays.
func NewDateVenues() DateVenues {
	return DateVenues{
		Restaurants: []Venue{},
		Cafes:       []Venue{},
		Bars:        []Venue{},
		Activities:  []Venue{},
	}
}

// Bucket returns the bucket holding the given category and whether the
// category has a bucket at all.
func (d *DateVenues) Bucket(c Category) ([]Venue, bool) {
	switch c {
	case CategoryRestaurant:
		return d.Restaurants, true
	case CategoryCafe:
		return d.Cafes, true
	case CategoryBar:
		return d.Bars, true
	case CategoryActivity:
		return d.Activities, true
	default:
		return nil, false
	}
}

// SetBucket replaces one bucket, truncating it to MaxDateVenuesPerCategory.
// It reports false when the category has no bucket.
func (d *DateVenues) SetBucket(c Category, venues []Venue) bool {
	venues = TruncateVenues(venues, MaxDateVenuesPerCategory)
	switch c {
	case CategoryRestaurant:
		d.Restaurants = venues
	case CategoryCafe:
		d.Cafes = venues
	case CategoryBar:
		d.Bars = venues
	case CategoryActivity:
		d.Activities = venues
	default:
		return false
	}
	return true
}

// TruncateVenues keeps at most n venues in their original order. A nil input
// yields an empty slice.
func TruncateVenues(venues []Venue, n int) []Venue {
	if len(venues) > n {
		venues = venues[:n]
	}
	out := make([]Venue, len(venues))
	copy(out, venues)
	return out
}

// Price levels use a 1–4 ordinal scale.
const (
	MinPriceLevel = 1
	MaxPriceLevel = 4
)

// NormalizePriceLevel maps a native numeric price level onto 1–4. Zero,
// negative and out-of-range values fall back to MinPriceLevel.
func NormalizePriceLevel(level int) int {
	if level < MinPriceLevel || level > MaxPriceLevel {
		return MinPriceLevel
	}
	return level
}

// PriceLevelFromSymbols maps a dollar-sign string such as "$$" to 1–4.
// Anything else, including the empty string, maps to MinPriceLevel.
func PriceLevelFromSymbols(s string) int {
	if s == "" {
		return MinPriceLevel
	}
	for _, r := range s {
		if r != '$' {
			return MinPriceLevel
		}
	}
	return NormalizePriceLevel(len(s))
}
