package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/date-venue-service/internal/domain"
)

func yelpServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path != "/businesses/search" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":{"code":"BUSINESS_NOT_FOUND","description":"not found"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"total":1,"businesses":[{"id":"b1","name":"Dante","price":"$$$","rating":4.6,
			"categories":[{"alias":"cocktailbars","title":"Cocktail Bars"}],
			"coordinates":{"latitude":40.73,"longitude":-74.0},"distance":900}]}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setYelpEnv(t *testing.T, baseURL string) {
	t.Setenv("VENUE_PROVIDER", "yelp")
	t.Setenv("YELP_API_KEY", "test-key")
	t.Setenv("VENUE_BASE_URL", baseURL)
	t.Setenv("VENUE_MAX_RETRIES", "0")
}

func TestRun_Date(t *testing.T) {
	setYelpEnv(t, yelpServer(t).URL)
	var stdout, stderr bytes.Buffer

	require.NoError(t, run([]string{"date", "-lat", "40.7128", "-lng", "-74.0060"}, &stdout, &stderr))

	var got domain.DateVenues
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Len(t, got.Restaurants, 1)
	assert.Len(t, got.Bars, 1)
	assert.Equal(t, 3, got.Bars[0].PriceLevel)
}

func TestRun_Category(t *testing.T) {
	setYelpEnv(t, yelpServer(t).URL)
	var stdout, stderr bytes.Buffer

	require.NoError(t, run([]string{"category", "-category", "bar", "-lat", "40.7", "-lng", "-74"}, &stdout, &stderr))

	var got domain.DateVenues
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Len(t, got.Bars, 1)
	assert.Empty(t, got.Restaurants)
}

func TestRun_DetailsNotFound(t *testing.T) {
	setYelpEnv(t, yelpServer(t).URL)
	var stdout, stderr bytes.Buffer

	err := run([]string{"details", "-id", "missing"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRun_NotConfigured(t *testing.T) {
	t.Setenv("VENUE_PROVIDER", "foursquare")
	var stdout, stderr bytes.Buffer

	err := run([]string{"date", "-lat", "40.7", "-lng", "-74"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer

	require.Error(t, run(nil, &stdout, &stderr))
	require.Error(t, run([]string{"teleport"}, &stdout, &stderr))
}
