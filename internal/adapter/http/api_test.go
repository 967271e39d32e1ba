package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/date-venue-service/internal/adapter/http"
	"github.com/couchcryptid/date-venue-service/internal/domain"
	"github.com/couchcryptid/date-venue-service/internal/provider"
	"github.com/couchcryptid/date-venue-service/internal/suggest"
)

type mockVenues struct {
	params      domain.SearchParams
	category    domain.Category
	result      domain.SearchResult
	date        domain.DateVenues
	details     *domain.Venue
	err         error
	current     domain.ProviderType
	switchedTo  domain.ProviderType
	switchedCfg provider.Config
}

func (m *mockVenues) SearchVenues(_ context.Context, params domain.SearchParams) (domain.SearchResult, error) {
	m.params = params
	return m.result, m.err
}

func (m *mockVenues) SearchByCategory(_ context.Context, category domain.Category, params domain.SearchParams) ([]domain.Venue, error) {
	m.category = category
	m.params = params
	return m.result.Venues, m.err
}

func (m *mockVenues) GetDateVenues(_ context.Context, lat, lng float64, radius int) (domain.DateVenues, error) {
	m.params = domain.SearchParams{Latitude: lat, Longitude: lng, Radius: radius}
	return m.date, m.err
}

func (m *mockVenues) GetVenueDetails(_ context.Context, _ string) (*domain.Venue, error) {
	return m.details, m.err
}

func (m *mockVenues) CurrentProviderType() domain.ProviderType { return m.current }

func (m *mockVenues) SwitchProvider(t domain.ProviderType, cfg provider.Config) error {
	if m.err != nil {
		return m.err
	}
	m.switchedTo = t
	m.switchedCfg = cfg
	m.current = t
	return nil
}

type mockSuggestions struct {
	req suggest.Request
	err error
}

func (m *mockSuggestions) Suggest(_ context.Context, req suggest.Request) (domain.Suggestion, error) {
	m.req = req
	if m.err != nil {
		return domain.Suggestion{}, m.err
	}
	return domain.Suggestion{MatchID: req.MatchID, ProposedBy: req.UserID, Venue: domain.Venue{ID: req.VenueID}}, nil
}

func newAPIServer(venues *mockVenues, suggestions httpadapter.SuggestionService) *httpadapter.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	keys := func(t domain.ProviderType) provider.Config {
		return provider.Config{APIKey: string(t) + "-key"}
	}
	api := httpadapter.NewAPI(venues, keys, suggestions, logger)
	return httpadapter.NewServer(":0", &mockReadiness{}, api, logger)
}

func serve(srv *httpadapter.Server, method, target string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestSearch_ParsesQuery(t *testing.T) {
	venues := &mockVenues{result: domain.SearchResult{Venues: []domain.Venue{{ID: "v1"}}, Total: 1}}
	srv := newAPIServer(venues, nil)

	rec := serve(srv, http.MethodGet,
		"/v1/venues/search?lat=40.7128&lng=-74.006&radius=2000&keyword=tapas&category=bar&price=2&open_now=true&limit=10", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.SearchParams{
		Latitude:   40.7128,
		Longitude:  -74.006,
		Radius:     2000,
		Keyword:    "tapas",
		Category:   domain.CategoryBar,
		PriceLevel: 2,
		OpenNow:    true,
		Limit:      10,
	}, venues.params)

	var result domain.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Total)
}

func TestSearch_BadQuery(t *testing.T) {
	srv := newAPIServer(&mockVenues{}, nil)

	tests := map[string]string{
		"missing lat":    "/v1/venues/search?lng=1",
		"bad lng":        "/v1/venues/search?lat=1&lng=east",
		"bad radius":     "/v1/venues/search?lat=1&lng=1&radius=far",
		"bad category":   "/v1/venues/search?lat=1&lng=1&category=spa",
		"bad open_now":   "/v1/venues/search?lat=1&lng=1&open_now=maybe",
		"unknown bucket": "/v1/venues/category/spa?lat=1&lng=1",
	}
	for name, target := range tests {
		t.Run(name, func(t *testing.T) {
			rec := serve(srv, http.MethodGet, target, nil, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not configured", &domain.ConfigError{Provider: domain.ProviderGoogle}, http.StatusServiceUnavailable},
		{"invalid params", domain.ErrInvalidParams, http.StatusBadRequest},
		{"upstream", &domain.UpstreamError{Provider: domain.ProviderYelp, StatusCode: 401, Message: "TOKEN_INVALID"}, http.StatusBadGateway},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newAPIServer(&mockVenues{err: tt.err}, nil)
			rec := serve(srv, http.MethodGet, "/v1/venues/date?lat=40.7&lng=-74", nil, nil)
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, decodeError(t, rec))
		})
	}
}

func TestDateVenues(t *testing.T) {
	venues := &mockVenues{date: domain.NewDateVenues()}
	srv := newAPIServer(venues, nil)

	rec := serve(srv, http.MethodGet, "/v1/venues/date?lat=40.7&lng=-74&radius=3000", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3000, venues.params.Radius)
	assert.JSONEq(t, `{"restaurants":[],"cafes":[],"bars":[],"activities":[]}`, rec.Body.String())
}

func TestCategoryRoute(t *testing.T) {
	venues := &mockVenues{result: domain.SearchResult{Venues: []domain.Venue{{ID: "c1"}}}}
	srv := newAPIServer(venues, nil)

	rec := serve(srv, http.MethodGet, "/v1/venues/category/cafe?lat=40.7&lng=-74", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.CategoryCafe, venues.category)
	assert.Contains(t, rec.Body.String(), `"category":"cafe"`)
}

func TestDetails(t *testing.T) {
	venues := &mockVenues{details: &domain.Venue{ID: "lucali", Name: "Lucali"}}
	srv := newAPIServer(venues, nil)

	rec := serve(srv, http.MethodGet, "/v1/venues/lucali", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Lucali"`)

	venues.details = nil
	rec = serve(srv, http.MethodGet, "/v1/venues/gone", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeError(t, rec), "gone")
}

func TestProviderRoutes(t *testing.T) {
	venues := &mockVenues{current: domain.ProviderGoogle}
	srv := newAPIServer(venues, nil)

	rec := serve(srv, http.MethodGet, "/v1/provider", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"provider":"google"}`, rec.Body.String())

	rec = serve(srv, http.MethodPut, "/v1/provider", strings.NewReader(`{"provider":"foursquare"}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ProviderFoursquare, venues.switchedTo)
	assert.Equal(t, "foursquare-key", venues.switchedCfg.APIKey)

	rec = serve(srv, http.MethodPut, "/v1/provider", strings.NewReader(`{"provider":"tripadvisor"}`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "tripadvisor")

	rec = serve(srv, http.MethodPut, "/v1/provider", strings.NewReader(`not json`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggest(t *testing.T) {
	suggestions := &mockSuggestions{}
	srv := newAPIServer(&mockVenues{}, suggestions)

	rec := serve(srv, http.MethodPost, "/v1/suggestions",
		strings.NewReader(`{"match_id":"m1","venue_id":"lucali"}`),
		map[string]string{httpadapter.UserIDHeader: "user-9"})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, suggest.Request{MatchID: "m1", UserID: "user-9", VenueID: "lucali"}, suggestions.req)
	assert.Contains(t, rec.Body.String(), `"proposed_by":"user-9"`)
}

func TestSuggest_Errors(t *testing.T) {
	rec := serve(newAPIServer(&mockVenues{}, nil), http.MethodPost, "/v1/suggestions", strings.NewReader(`{}`), nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "disabled without a store")

	srv := newAPIServer(&mockVenues{}, &mockSuggestions{err: suggest.ErrVenueNotFound})
	rec = serve(srv, http.MethodPost, "/v1/suggestions", strings.NewReader(`{"match_id":"m1","venue_id":"x"}`), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	srv = newAPIServer(&mockVenues{}, &mockSuggestions{err: domain.ErrInvalidParams})
	rec = serve(srv, http.MethodPost, "/v1/suggestions", strings.NewReader(`{"match_id":"m1"}`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
