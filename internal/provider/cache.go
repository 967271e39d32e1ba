package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/date-venue-service/internal/domain"
	"github.com/couchcryptid/date-venue-service/internal/observability"
)

// Cache stores serialized provider results. Implementations must be safe
// for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// cachedProvider serves repeated queries from a Cache.
type cachedProvider struct {
	inner        domain.Provider
	providerType string
	prefix       string
	cache        Cache
	ttl          time.Duration
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// fingerprint scopes entries to one provider configuration so a switched
// provider never serves results fetched with the previous key or base URL.
func newCachedProvider(inner domain.Provider, t domain.ProviderType, fingerprint string, cache Cache, ttl time.Duration, logger *slog.Logger, metrics *observability.Metrics) *cachedProvider {
	return &cachedProvider{
		inner:        inner,
		providerType: string(t),
		prefix:       "venue:" + string(t) + ":" + fingerprint + ":",
		cache:        cache,
		ttl:          ttl,
		logger:       logger,
		metrics:      metrics,
	}
}

func (c *cachedProvider) SearchVenues(ctx context.Context, params domain.SearchParams) (domain.SearchResult, error) {
	key := c.key("search", searchKey(params))
	var result domain.SearchResult
	if c.load(ctx, key, &result) {
		return result, nil
	}
	result, err := c.inner.SearchVenues(ctx, params)
	if err != nil {
		return result, err
	}
	c.store(ctx, key, result)
	return result, nil
}

func (c *cachedProvider) SearchByCategory(ctx context.Context, category domain.Category, params domain.SearchParams) ([]domain.Venue, error) {
	params.Category = category
	key := c.key("category", searchKey(params))
	var venues []domain.Venue
	if c.load(ctx, key, &venues) {
		return venues, nil
	}
	venues, err := c.inner.SearchByCategory(ctx, category, params)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, venues)
	return venues, nil
}

func (c *cachedProvider) GetVenueDetails(ctx context.Context, id string) (*domain.Venue, error) {
	key := c.key("details", id)
	var v domain.Venue
	if c.load(ctx, key, &v) {
		return &v, nil
	}
	venue, err := c.inner.GetVenueDetails(ctx, id)
	if err != nil || venue == nil {
		// Misses are not cached so a venue created later can still be found.
		return venue, err
	}
	c.store(ctx, key, venue)
	return venue, nil
}

func (c *cachedProvider) key(op, suffix string) string {
	return c.prefix + op + ":" + suffix
}

// configFingerprint identifies the upstream identity of cfg without exposing
// the API key.
func configFingerprint(cfg Config) string {
	sum := sha256.Sum256([]byte(cfg.BaseURL + "\x00" + cfg.APIKey))
	return hex.EncodeToString(sum[:6])
}

func searchKey(p domain.SearchParams) string {
	return fmt.Sprintf("%.5f,%.5f|r=%d|k=%s|c=%s|p=%d|o=%t|l=%d",
		p.Latitude, p.Longitude, p.Radius, strings.ToLower(p.Keyword), p.Category, p.PriceLevel, p.OpenNow, p.Limit)
}

// load reports a hit only when the entry exists and decodes. Cache failures
// are logged and treated as misses.
func (c *cachedProvider) load(ctx context.Context, key string, out any) bool {
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("venue cache read failed", "key", key, "error", err)
		ok = false
	}
	if ok {
		if err := json.Unmarshal(data, out); err != nil {
			c.logger.Warn("venue cache entry corrupt", "key", key, "error", err)
			ok = false
		}
	}
	c.record(ok)
	return ok
}

func (c *cachedProvider) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("venue cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("venue cache write failed", "key", key, "error", err)
	}
}

func (c *cachedProvider) record(hit bool) {
	if c.metrics == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.metrics.CacheLookups.WithLabelValues(c.providerType, result).Inc()
}

// LRUCache is a thread-safe in-memory Cache with per-entry expiry.
type LRUCache struct {
	maxEntries int
	clock      clockwork.Clock
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     []byte
	expiresAt time.Time
	prev      *entry
	next      *entry
}

// NewLRUCache creates a cache holding at most maxEntries values.
func NewLRUCache(maxEntries int, clock clockwork.Clock) *LRUCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LRUCache{
		maxEntries: maxEntries,
		clock:      clock,
		entries:    make(map[string]*entry),
	}
}

// Get returns the value for key unless it is missing or expired.
func (c *LRUCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !c.clock.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return nil, false, nil
	}
	c.moveToFront(e)
	return e.value, true, nil
}

// Set stores value under key. A non-positive ttl never expires.
func (c *LRUCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.clock.Now().Add(ttl)
	}

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return nil
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
	return nil
}

// Len returns the number of stored entries, including expired ones not yet evicted.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRUCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *LRUCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *LRUCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *LRUCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
