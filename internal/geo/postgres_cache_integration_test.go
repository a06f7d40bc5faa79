//go:build integration

package geo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresCacheIntegration(t *testing.T) {
	dbURL := os.Getenv("GEO_CACHE_DATABASE_URL")
	if dbURL == "" {
		t.Skip("GEO_CACHE_DATABASE_URL not set; skipping integration test")
		return
	}

	ctx := context.Background()
	pool, err := NewPostgresPool(ctx, dbURL)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS geocode_cache (
			address    TEXT PRIMARY KEY,
			lat        DOUBLE PRECISION NOT NULL,
			lon        DOUBLE PRECISION NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	require.NoError(t, err)

	key := fmt.Sprintf("it-%d, pune", time.Now().UnixNano())
	defer func() {
		_, _ = pool.Exec(ctx, `DELETE FROM geocode_cache WHERE address = $1`, key)
	}()

	cache := NewPostgresCache(pool, time.Hour)

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, key, pune))
	c, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pune, c)

	// Upsert replaces the coordinates
	moved := Coordinates{Lat: 18.6, Lon: 73.9}
	require.NoError(t, cache.Set(ctx, key, moved))
	c, ok, err = cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, moved, c)

	// Rows older than the TTL read as misses
	_, err = pool.Exec(ctx, `UPDATE geocode_cache SET fetched_at = now() - interval '2 hours' WHERE address = $1`, key)
	require.NoError(t, err)
	_, ok, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = NewPostgresCache(pool, 0).Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok, "ttl <= 0 keeps rows forever")
}
