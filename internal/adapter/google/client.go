package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/date-venue-service/internal/domain"
)

// DefaultBaseURL is the Places web service root.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

const (
	defaultRadius = 5000
	photoMaxWidth = 400
	detailsFields = "place_id,name,rating,user_ratings_total,price_level,types,vicinity,formatted_address," +
		"address_components,geometry,photos,opening_hours,formatted_phone_number,website"
)

// Client implements domain.Provider using the Google Places API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Google Places client. An empty baseURL selects DefaultBaseURL.
func NewClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// SearchVenues runs a Nearby Search around the query point.
func (c *Client) SearchVenues(ctx context.Context, params domain.SearchParams) (domain.SearchResult, error) {
	q := url.Values{
		"location": {fmt.Sprintf("%f,%f", params.Latitude, params.Longitude)},
		"radius":   {strconv.Itoa(params.RadiusOr(defaultRadius))},
		"key":      {c.apiKey},
	}
	if params.Category != "" {
		q.Set("type", placeType(params.Category))
	}
	if params.Keyword != "" {
		q.Set("keyword", params.Keyword)
	}
	if params.PriceLevel > 0 {
		level := strconv.Itoa(params.PriceLevel)
		q.Set("minprice", level)
		q.Set("maxprice", level)
	}
	if params.OpenNow {
		q.Set("opennow", "true")
	}

	var resp nearbyResponse
	if _, err := c.get(ctx, "/nearbysearch/json", q, &resp); err != nil {
		return domain.SearchResult{}, err
	}
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return domain.SearchResult{}, statusError(resp.Status, resp.ErrorMessage)
	}

	results := resp.Results
	if limit := params.LimitOr(domain.DefaultSearchLimit); len(results) > limit {
		results = results[:limit]
	}

	venues := make([]domain.Venue, 0, len(results))
	for _, p := range results {
		venues = append(venues, c.transform(p, params.Latitude, params.Longitude))
	}

	c.logger.Debug("google nearby search completed",
		"category", params.Category,
		"status", resp.Status,
		"results", len(venues),
	)

	return domain.SearchResult{
		Venues:        venues,
		Total:         len(venues),
		NextPageToken: resp.NextPageToken,
	}, nil
}

// SearchByCategory searches with the category filter fixed.
func (c *Client) SearchByCategory(ctx context.Context, category domain.Category, params domain.SearchParams) ([]domain.Venue, error) {
	params.Category = category
	result, err := c.SearchVenues(ctx, params)
	if err != nil {
		return nil, err
	}
	return result.Venues, nil
}

// GetVenueDetails looks up a single place by place_id.
func (c *Client) GetVenueDetails(ctx context.Context, id string) (*domain.Venue, error) {
	q := url.Values{
		"place_id": {id},
		"fields":   {detailsFields},
		"key":      {c.apiKey},
	}

	var resp detailsResponse
	found, err := c.get(ctx, "/details/json", q, &resp)
	if err != nil || !found {
		return nil, err
	}
	switch resp.Status {
	case "OK":
	case "NOT_FOUND", "INVALID_REQUEST", "ZERO_RESULTS":
		return nil, nil
	default:
		return nil, statusError(resp.Status, resp.ErrorMessage)
	}
	if resp.Result == nil {
		return nil, nil
	}

	// Details carry no query point; distance is left at zero.
	v := c.transform(*resp.Result, resp.Result.Geometry.Location.Lat, resp.Result.Geometry.Location.Lng)
	return &v, nil
}

// get issues a GET and decodes the JSON body into out. It reports false
// without an error when the API answers 404.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("google places request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return false, &domain.UpstreamError{
			Provider:   domain.ProviderGoogle,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Status, body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}

func (c *Client) transform(p place, lat, lng float64) domain.Venue {
	loc := p.Geometry.Location
	address := p.Vicinity
	if address == "" {
		address = p.FormattedAddress
	}
	city, state := cityState(p)

	v := domain.Venue{
		ID:         p.PlaceID,
		Name:       p.Name,
		Rating:     p.Rating,
		PriceLevel: domain.MinPriceLevel,
		Categories: domain.MapCategories(p.Types, lookupCategory),
		Location: domain.VenueLocation{
			Address:   address,
			City:      city,
			State:     state,
			Latitude:  loc.Lat,
			Longitude: loc.Lng,
		},
		Distance:    domain.HaversineDistance(lat, lng, loc.Lat, loc.Lng),
		Phone:       p.FormattedPhoneNumber,
		Website:     p.Website,
		ReviewCount: p.UserRatingsTotal,
		Provider:    domain.ProviderGoogle,
	}
	if p.PriceLevel != nil {
		v.PriceLevel = domain.NormalizePriceLevel(*p.PriceLevel)
	}
	if p.OpeningHours != nil {
		v.OpenNow = p.OpeningHours.OpenNow
	}
	if len(p.Photos) > 0 && p.Photos[0].PhotoReference != "" {
		v.ImageURL = c.photoURL(p.Photos[0].PhotoReference)
	}
	return v
}

// photoURL builds a Place Photo URL from a photo reference.
func (c *Client) photoURL(ref string) string {
	q := url.Values{
		"maxwidth":        {strconv.Itoa(photoMaxWidth)},
		"photo_reference": {ref},
		"key":             {c.apiKey},
	}
	return c.baseURL + "/photo?" + q.Encode()
}

// cityState prefers structured address components and falls back to the
// trailing segment of the vicinity string ("123 Main St, Springfield").
func cityState(p place) (string, string) {
	var city, state string
	for _, ac := range p.AddressComponents {
		for _, t := range ac.Types {
			switch t {
			case "locality":
				city = ac.LongName
			case "administrative_area_level_1":
				state = ac.ShortName
			}
		}
	}
	if city == "" && p.Vicinity != "" {
		parts := strings.Split(p.Vicinity, ",")
		city = strings.TrimSpace(parts[len(parts)-1])
	}
	return city, state
}

// statusError converts a body-level Places status into an UpstreamError.
// Places answers 200 for these, so the code is derived from the status.
func statusError(status, message string) error {
	code := http.StatusBadGateway
	switch status {
	case "OVER_QUERY_LIMIT":
		code = http.StatusTooManyRequests
	case "REQUEST_DENIED":
		code = http.StatusForbidden
	case "INVALID_REQUEST":
		code = http.StatusBadRequest
	case "UNKNOWN_ERROR":
		code = http.StatusInternalServerError
	}
	if message == "" {
		message = status
	} else {
		message = status + ": " + message
	}
	return &domain.UpstreamError{
		Provider:   domain.ProviderGoogle,
		StatusCode: code,
		Message:    message,
	}
}

func errorMessage(status string, body []byte) string {
	var payload struct {
		ErrorMessage string `json:"error_message"`
		Status       string `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.ErrorMessage != "" {
		return payload.ErrorMessage
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return status
}

var _ domain.Provider = (*Client)(nil)
