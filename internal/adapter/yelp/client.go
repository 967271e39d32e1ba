package yelp

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

// DefaultBaseURL is the Yelp Fusion API root.
const DefaultBaseURL = "https://api.yelp.com/v3"

const (
	defaultRadius = 10000
	maxRadius     = 40000 // Yelp rejects larger radii
)

// Client implements domain.Provider using the Yelp Fusion API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Yelp client. An empty baseURL selects DefaultBaseURL.
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

// SearchVenues runs a business search around the query point.
func (c *Client) SearchVenues(ctx context.Context, params domain.SearchParams) (domain.SearchResult, error) {
	radius := params.RadiusOr(defaultRadius)
	if radius > maxRadius {
		radius = maxRadius
	}

	q := url.Values{
		"latitude":  {strconv.FormatFloat(params.Latitude, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(params.Longitude, 'f', -1, 64)},
		"radius":    {strconv.Itoa(radius)},
		"limit":     {strconv.Itoa(params.LimitOr(domain.DefaultSearchLimit))},
	}
	if params.Category != "" {
		q.Set("categories", yelpCategory(params.Category))
	}
	if params.Keyword != "" {
		q.Set("term", params.Keyword)
	}
	if params.PriceLevel > 0 {
		q.Set("price", strconv.Itoa(params.PriceLevel))
	}
	if params.OpenNow {
		q.Set("open_now", "true")
	}

	var resp searchResponse
	if _, err := c.get(ctx, "/businesses/search?"+q.Encode(), &resp); err != nil {
		return domain.SearchResult{}, err
	}

	venues := make([]domain.Venue, 0, len(resp.Businesses))
	for _, b := range resp.Businesses {
		venues = append(venues, transform(b, params.Latitude, params.Longitude))
	}

	c.logger.Debug("yelp business search completed",
		"category", params.Category,
		"results", len(venues),
		"total", resp.Total,
	)

	return domain.SearchResult{Venues: venues, Total: resp.Total}, nil
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

// GetVenueDetails looks up a single business by id or alias.
func (c *Client) GetVenueDetails(ctx context.Context, id string) (*domain.Venue, error) {
	var b business
	found, err := c.get(ctx, "/businesses/"+url.PathEscape(id), &b)
	if err != nil || !found {
		return nil, err
	}
	v := transform(b, b.Coordinates.Latitude, b.Coordinates.Longitude)
	return &v, nil
}

// get issues an authenticated GET and decodes the JSON body into out. It
// reports false without an error when the API answers 404.
func (c *Client) get(ctx context.Context, pathAndQuery string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathAndQuery, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("yelp request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return false, &domain.UpstreamError{
			Provider:   domain.ProviderYelp,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Status, body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}

func transform(b business, lat, lng float64) domain.Venue {
	address := b.Location.Address1
	if len(b.Location.DisplayAddress) > 0 {
		address = strings.Join(b.Location.DisplayAddress, ", ")
	}

	v := domain.Venue{
		ID:         b.ID,
		Name:       b.Name,
		Rating:     b.Rating,
		PriceLevel: domain.PriceLevelFromSymbols(b.Price),
		Categories: domain.MapCategories(nativeCategories(b.Categories), lookupCategory),
		Location: domain.VenueLocation{
			Address:   address,
			City:      b.Location.City,
			State:     b.Location.State,
			Latitude:  b.Coordinates.Latitude,
			Longitude: b.Coordinates.Longitude,
		},
		ImageURL:    b.ImageURL,
		Phone:       b.DisplayPhone,
		Website:     b.URL,
		ReviewCount: b.ReviewCount,
		Provider:    domain.ProviderYelp,
	}
	if v.Phone == "" {
		v.Phone = b.Phone
	}
	if b.Distance != nil {
		v.Distance = *b.Distance
	} else {
		v.Distance = domain.HaversineDistance(lat, lng, b.Coordinates.Latitude, b.Coordinates.Longitude)
	}
	if len(b.Hours) > 0 {
		open := b.Hours[0].IsOpenNow
		v.OpenNow = &open
	}
	return v
}

func errorMessage(status string, body []byte) string {
	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Code != "" {
		if payload.Error.Description != "" {
			return payload.Error.Code + ": " + payload.Error.Description
		}
		return payload.Error.Code
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return status
}

var _ domain.Provider = (*Client)(nil)
