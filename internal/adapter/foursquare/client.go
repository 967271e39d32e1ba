package foursquare

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

// DefaultBaseURL is the Foursquare Places API root.
const DefaultBaseURL = "https://api.foursquare.com/v3"

const (
	defaultRadius = 5000
	photoSize     = "300x300"
	fields        = "fsq_id,name,geocodes,location,categories,distance,rating,price,photos,tel,website,hours,stats"
)

// Client implements domain.Provider using the Foursquare Places API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Foursquare client. An empty baseURL selects DefaultBaseURL.
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

// SearchVenues runs a place search around the query point.
func (c *Client) SearchVenues(ctx context.Context, params domain.SearchParams) (domain.SearchResult, error) {
	q := url.Values{
		"ll":     {fmt.Sprintf("%f,%f", params.Latitude, params.Longitude)},
		"radius": {strconv.Itoa(params.RadiusOr(defaultRadius))},
		"limit":  {strconv.Itoa(params.LimitOr(domain.DefaultSearchLimit))},
		"fields": {fields},
	}
	if params.Category != "" {
		q.Set("categories", categoryID(params.Category))
	}
	if params.Keyword != "" {
		q.Set("query", params.Keyword)
	}
	if params.PriceLevel > 0 {
		level := strconv.Itoa(params.PriceLevel)
		q.Set("min_price", level)
		q.Set("max_price", level)
	}
	if params.OpenNow {
		q.Set("open_now", "true")
	}

	var resp searchResponse
	header, found, err := c.get(ctx, "/places/search?"+q.Encode(), &resp)
	if err != nil {
		return domain.SearchResult{}, err
	}
	if !found {
		return domain.SearchResult{}, &domain.UpstreamError{
			Provider:   domain.ProviderFoursquare,
			StatusCode: http.StatusNotFound,
			Message:    "search endpoint not found",
		}
	}

	venues := make([]domain.Venue, 0, len(resp.Results))
	for _, p := range resp.Results {
		venues = append(venues, transform(p, params.Latitude, params.Longitude))
	}

	c.logger.Debug("foursquare place search completed",
		"category", params.Category,
		"results", len(venues),
	)

	return domain.SearchResult{
		Venues:        venues,
		Total:         len(venues),
		NextPageToken: nextCursor(header.Get("Link")),
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

// GetVenueDetails looks up a single place by fsq_id.
func (c *Client) GetVenueDetails(ctx context.Context, id string) (*domain.Venue, error) {
	var p place
	_, found, err := c.get(ctx, "/places/"+url.PathEscape(id)+"?"+url.Values{"fields": {fields}}.Encode(), &p)
	if err != nil || !found {
		return nil, err
	}
	v := transform(p, p.Geocodes.Main.Latitude, p.Geocodes.Main.Longitude)
	return &v, nil
}

// get issues an authenticated GET and decodes the JSON body into out. It
// reports false without an error when the API answers 404.
func (c *Client) get(ctx context.Context, pathAndQuery string, out any) (http.Header, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathAndQuery, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	// Foursquare takes the raw key, without a Bearer prefix.
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("foursquare request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.Header, false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, false, &domain.UpstreamError{
			Provider:   domain.ProviderFoursquare,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Status, body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}
	return resp.Header, true, nil
}

func transform(p place, lat, lng float64) domain.Venue {
	names := make([]string, len(p.Categories))
	for i, cat := range p.Categories {
		names[i] = cat.Name
	}

	address := p.Location.Address
	if address == "" {
		address = p.Location.FormattedAddress
	}

	v := domain.Venue{
		ID:         p.FsqID,
		Name:       p.Name,
		Rating:     p.Rating,
		PriceLevel: domain.MinPriceLevel,
		Categories: domain.MapCategories(names, lookupCategory),
		Location: domain.VenueLocation{
			Address:   address,
			City:      p.Location.Locality,
			State:     p.Location.Region,
			Latitude:  p.Geocodes.Main.Latitude,
			Longitude: p.Geocodes.Main.Longitude,
		},
		Phone:    p.Tel,
		Website:  p.Website,
		Provider: domain.ProviderFoursquare,
	}
	if p.Price != nil {
		v.PriceLevel = domain.NormalizePriceLevel(*p.Price)
	}
	if p.Distance != nil {
		v.Distance = *p.Distance
	} else {
		v.Distance = domain.HaversineDistance(lat, lng, p.Geocodes.Main.Latitude, p.Geocodes.Main.Longitude)
	}
	if len(p.Photos) > 0 && p.Photos[0].Prefix != "" {
		v.ImageURL = p.Photos[0].Prefix + photoSize + p.Photos[0].Suffix
	}
	if p.Hours != nil {
		v.OpenNow = p.Hours.OpenNow
	}
	if p.Stats != nil {
		v.ReviewCount = p.Stats.TotalRatings
	}
	return v
}

// nextCursor extracts the cursor parameter from a rel="next" Link header.
// Link targets may contain commas, so entries are split on the angle
// brackets rather than on ",".
func nextCursor(link string) string {
	for link != "" {
		start := strings.Index(link, "<")
		end := strings.Index(link, ">")
		if start < 0 || end <= start {
			return ""
		}
		target := link[start+1 : end]
		link = link[end+1:]

		params := link
		if next := strings.Index(link, "<"); next >= 0 {
			params = link[:next]
		}
		if !strings.Contains(params, `rel="next"`) {
			continue
		}
		u, err := url.Parse(target)
		if err != nil {
			return ""
		}
		return u.Query().Get("cursor")
	}
	return ""
}

func errorMessage(status string, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return status
}

var _ domain.Provider = (*Client)(nil)
