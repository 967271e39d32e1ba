package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/date-venue-service/internal/config"
	"github.com/couchcryptid/date-venue-service/internal/domain"
	"github.com/couchcryptid/date-venue-service/internal/observability"
)

// googleServer fakes a Nearby Search endpoint returning one place named name.
func googleServer(t *testing.T, name string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"status":"OK","results":[{"place_id":"p1","name":%q,"types":["cafe"],"geometry":{"location":{"lat":40.7,"lng":-74.0}}}]}`, name)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestFactory() *Factory {
	return NewFactory(discardLogger(), observability.NewMetricsForTesting())
}

func TestFactory_CreateProviderCachesInstance(t *testing.T) {
	f := newTestFactory()
	srv := googleServer(t, "First", nil)
	cfg := Config{APIKey: "k1", BaseURL: srv.URL}

	p1, err := f.CreateProvider(domain.ProviderGoogle, cfg)
	require.NoError(t, err)
	p2, err := f.CreateProvider(domain.ProviderGoogle, cfg)
	require.NoError(t, err)

	assert.Same(t, p1, p2)
}

func TestFactory_SwitchProviderUsesNewConfig(t *testing.T) {
	f := newTestFactory()
	first := googleServer(t, "First", nil)
	second := googleServer(t, "Second", nil)
	cfg := Config{APIKey: "k1", BaseURL: first.URL}
	cfg2 := Config{APIKey: "k2", BaseURL: second.URL}

	p1, err := f.CreateProvider(domain.ProviderGoogle, cfg)
	require.NoError(t, err)

	_, err = f.SwitchProvider(domain.ProviderGoogle, cfg2)
	require.NoError(t, err)
	p2, err := f.CreateProvider(domain.ProviderGoogle, cfg2)
	require.NoError(t, err)
	assert.NotSame(t, p1, p2)

	result, err := p2.SearchVenues(context.Background(), domain.SearchParams{Latitude: 40.7, Longitude: -74.0})
	require.NoError(t, err)
	require.Len(t, result.Venues, 1)
	assert.Equal(t, "Second", result.Venues[0].Name)

	// The superseded instance still works against its own config.
	result, err = p1.SearchVenues(context.Background(), domain.SearchParams{Latitude: 40.7, Longitude: -74.0})
	require.NoError(t, err)
	assert.Equal(t, "First", result.Venues[0].Name)
}

func TestFactory_UnknownType(t *testing.T) {
	f := newTestFactory()

	_, err := f.CreateProvider("tripadvisor", Config{APIKey: "k"})
	require.ErrorIs(t, err, domain.ErrUnknownProvider)
	assert.Contains(t, err.Error(), "tripadvisor")

	_, err = f.SwitchProvider("tripadvisor", Config{APIKey: "k"})
	require.ErrorIs(t, err, domain.ErrUnknownProvider)
}

func TestFactory_GetAndClear(t *testing.T) {
	f := newTestFactory()

	_, ok := f.GetProvider(domain.ProviderYelp)
	assert.False(t, ok, "get must not construct")

	created, err := f.CreateProvider(domain.ProviderYelp, Config{APIKey: "k"})
	require.NoError(t, err)

	got, ok := f.GetProvider(domain.ProviderYelp)
	require.True(t, ok)
	assert.Same(t, created, got)

	f.ClearProviders()
	_, ok = f.GetProvider(domain.ProviderYelp)
	assert.False(t, ok)
}

func TestFactory_ConcurrentCreateBuildsOnce(t *testing.T) {
	var builds atomic.Int32
	f := NewFactoryWithBuilders(map[domain.ProviderType]Builder{
		domain.ProviderFoursquare: func(Config, *slog.Logger) domain.Provider {
			builds.Add(1)
			return &countingProvider{}
		},
	}, discardLogger(), nil)

	const workers = 16
	results := make([]domain.Provider, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := f.CreateProvider(domain.ProviderFoursquare, Config{APIKey: "k"})
			assert.NoError(t, err)
			results[i] = p
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), builds.Load())
	for _, p := range results {
		assert.Same(t, results[0], p)
	}
}

func TestFactory_CacheDecoratorSkipsUpstream(t *testing.T) {
	var hits atomic.Int32
	srv := googleServer(t, "Cached", &hits)
	f := newTestFactory()

	p, err := f.CreateProvider(domain.ProviderGoogle, Config{
		APIKey:   "k",
		BaseURL:  srv.URL,
		Cache:    NewLRUCache(10, nil),
		CacheTTL: time.Minute,
	})
	require.NoError(t, err)

	params := domain.SearchParams{Latitude: 40.7, Longitude: -74.0}
	for range 3 {
		venues, err := p.SearchByCategory(context.Background(), domain.CategoryCafe, params)
		require.NoError(t, err)
		require.Len(t, venues, 1)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestFactory_SwitchProviderBypassesCacheOfPreviousConfig(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"status":"OK","results":[{"place_id":"p1","name":"Lucali","types":["restaurant"],"geometry":{"location":{"lat":40.68,"lng":-73.99}},"photos":[{"photo_reference":"ref"}]}]}`)
	}))
	t.Cleanup(srv.Close)

	f := newTestFactory()
	shared := NewLRUCache(10, nil)
	params := domain.SearchParams{Latitude: 40.68, Longitude: -73.99}

	p, err := f.CreateProvider(domain.ProviderGoogle, Config{APIKey: "OLD-KEY", BaseURL: srv.URL, Cache: shared, CacheTTL: time.Minute})
	require.NoError(t, err)
	before, err := p.SearchVenues(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, before.Venues, 1)
	assert.Contains(t, before.Venues[0].ImageURL, "key=OLD-KEY")

	p, err = f.SwitchProvider(domain.ProviderGoogle, Config{APIKey: "NEW-KEY", BaseURL: srv.URL, Cache: shared, CacheTTL: time.Minute})
	require.NoError(t, err)
	after, err := p.SearchVenues(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, after.Venues, 1)
	assert.Contains(t, after.Venues[0].ImageURL, "key=NEW-KEY")
	assert.NotContains(t, after.Venues[0].ImageURL, "OLD-KEY")
	assert.Equal(t, int32(2), hits.Load())

	// Same config again reuses the entry cached under it.
	_, err = p.SearchVenues(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestConfigFingerprint(t *testing.T) {
	a := configFingerprint(Config{APIKey: "k1", BaseURL: "http://a"})
	assert.Equal(t, a, configFingerprint(Config{APIKey: "k1", BaseURL: "http://a", Timeout: time.Second}))
	assert.NotEqual(t, a, configFingerprint(Config{APIKey: "k2", BaseURL: "http://a"}))
	assert.NotEqual(t, a, configFingerprint(Config{APIKey: "k1", BaseURL: "http://b"}))
	assert.NotContains(t, a, "k1")
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{
		APIKeys:      map[domain.ProviderType]string{domain.ProviderYelp: "yelp-key"},
		VenueBaseURL: "http://localhost:4000",
		VenueTimeout: 2 * time.Second,
		RateLimit:    5,
		RateBurst:    2,
		MaxRetries:   1,
		CacheTTL:     time.Minute,
	}
	cache := NewLRUCache(1, nil)

	got := FromConfig(cfg, domain.ProviderYelp, cache)
	assert.Equal(t, "yelp-key", got.APIKey)
	assert.Equal(t, "http://localhost:4000", got.BaseURL)
	assert.Equal(t, 2*time.Second, got.Timeout)
	assert.InDelta(t, 5.0, got.RateLimit, 0)
	assert.Equal(t, 2, got.RateBurst)
	assert.Equal(t, 1, got.MaxRetries)
	assert.Same(t, cache, got.Cache)
	assert.Equal(t, time.Minute, got.CacheTTL)

	assert.Empty(t, FromConfig(cfg, domain.ProviderGoogle, nil).APIKey)
}
