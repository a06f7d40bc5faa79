package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCache persists geocoding results in a geocode_cache table:
//
//	CREATE TABLE geocode_cache (
//		address    TEXT PRIMARY KEY,
//		lat        DOUBLE PRECISION NOT NULL,
//		lon        DOUBLE PRECISION NOT NULL,
//		fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresCache struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewPostgresPool opens a small pool; the cache is low traffic
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("geocode cache database url is not set")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 5
	cfg.MinConns = 0
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.ConnConfig.RuntimeParams["application_name"] = "fleet-booking-geocache"
	cfg.ConnConfig.RuntimeParams["statement_timeout"] = "5000"

	return pgxpool.NewWithConfig(ctx, cfg)
}

// NewPostgresCache wraps pool; ttl <= 0 keeps rows forever
func NewPostgresCache(pool *pgxpool.Pool, ttl time.Duration) *PostgresCache {
	return &PostgresCache{pool: pool, ttl: ttl}
}

// Get reads a row younger than the TTL
func (p *PostgresCache) Get(ctx context.Context, key string) (Coordinates, bool, error) {
	var c Coordinates
	var fetchedAt time.Time
	err := p.pool.QueryRow(ctx,
		`SELECT lat, lon, fetched_at FROM geocode_cache WHERE address = $1`, key,
	).Scan(&c.Lat, &c.Lon, &fetchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Coordinates{}, false, nil
	}
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("get geocode cache: %w", err)
	}
	if p.ttl > 0 && time.Since(fetchedAt) > p.ttl {
		return Coordinates{}, false, nil
	}
	return c, true, nil
}

// Set upserts a row
func (p *PostgresCache) Set(ctx context.Context, key string, c Coordinates) error {
	_, err := p.pool.Exec(ctx, `
	INSERT INTO geocode_cache (address, lat, lon, fetched_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (address) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		fetched_at = EXCLUDED.fetched_at`, key, c.Lat, c.Lon)
	if err != nil {
		return fmt.Errorf("insert geocode cache %q: %w", key, err)
	}
	return nil
}
