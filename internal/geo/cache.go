package geo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sumit-fleet/fleet-booking/internal/logger"
)

// Cache stores geocoding results keyed by normalized place name
type Cache interface {
	Get(ctx context.Context, key string) (Coordinates, bool, error)
	Set(ctx context.Context, key string, c Coordinates) error
}

// CachedGeocoder memoizes a Geocoder. Cache failures are logged and treated
// as misses; they never fail a lookup.
type CachedGeocoder struct {
	next  Geocoder
	cache Cache
}

// NewCachedGeocoder wraps next with cache
func NewCachedGeocoder(next Geocoder, cache Cache) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache}
}

// Geocode serves place from the cache, or resolves and stores it
func (g *CachedGeocoder) Geocode(ctx context.Context, place string) (Coordinates, error) {
	key := CacheKey(place)
	log := logger.Default().WithContext(ctx)

	c, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		log.Warn("Geocode cache read failed", logger.Fields{"key": key, "error": err.Error()})
	}
	if ok {
		return c, nil
	}

	c, err = g.next.Geocode(ctx, place)
	if err != nil {
		return Coordinates{}, err
	}

	if err := g.cache.Set(ctx, key, c); err != nil {
		log.Warn("Geocode cache write failed", logger.Fields{"key": key, "error": err.Error()})
	}
	return c, nil
}

// CacheKey normalizes a place name: trimmed, lower-cased, inner whitespace collapsed
func CacheKey(place string) string {
	return strings.ToLower(strings.Join(strings.Fields(place), " "))
}

type memoryEntry struct {
	coords    Coordinates
	fetchedAt time.Time
}

// DefaultMemoryCacheEntries bounds a MemoryCache built by NewMemoryCache
const DefaultMemoryCacheEntries = 10000

// MemoryCache is an in-process TTL cache holding at most maxEntries places.
// When full, expired entries are swept first, then the oldest is evicted.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache creates a MemoryCache; ttl <= 0 keeps entries until evicted
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: DefaultMemoryCacheEntries,
		now:        time.Now,
	}
}

// Get returns a cached entry if it has not expired
func (m *MemoryCache) Get(_ context.Context, key string) (Coordinates, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return Coordinates{}, false, nil
	}
	if m.expired(e, m.now()) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return Coordinates{}, false, nil
	}
	return e.coords, true, nil
}

// Set stores an entry, making room first if the cache is full
func (m *MemoryCache) Set(_ context.Context, key string, c Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, exists := m.entries[key]; !exists && m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		m.evict(now)
	}
	m.entries[key] = memoryEntry{coords: c, fetchedAt: now}
	return nil
}

func (m *MemoryCache) expired(e memoryEntry, now time.Time) bool {
	return m.ttl > 0 && now.Sub(e.fetchedAt) > m.ttl
}

// evict must be called with mu held
func (m *MemoryCache) evict(now time.Time) {
	var (
		oldestKey string
		oldestAt  time.Time
	)
	for k, e := range m.entries {
		if m.expired(e, now) {
			delete(m.entries, k)
			continue
		}
		if oldestKey == "" || e.fetchedAt.Before(oldestAt) {
			oldestKey, oldestAt = k, e.fetchedAt
		}
	}
	if len(m.entries) >= m.maxEntries {
		delete(m.entries, oldestKey)
	}
}
