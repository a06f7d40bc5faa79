package geo

import (
	"context"

	"github.com/sumit-fleet/fleet-booking/internal/config"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
)

// NewFromConfig builds the production resolver: Nominatim behind a cache,
// and OSRM. The cache is Redis if configured, else Postgres if configured,
// else in-process. A shared cache that cannot be reached falls back to
// the in-process one. The returned func releases cache connections.
func NewFromConfig(ctx context.Context, cfg config.GeoConfig, opts ...Option) (*Resolver, func()) {
	geocoder := NewNominatimGeocoder(cfg.GeocoderBaseURL, cfg.UserAgent, cfg.Timeout, opts...)
	router := NewOSRMRouter(cfg.RouterBaseURL, cfg.UserAgent, cfg.Timeout, opts...)

	cache, closeFn := newCache(ctx, cfg)
	return NewResolver(NewCachedGeocoder(geocoder, cache), router, cfg.Timeout), closeFn
}

func newCache(ctx context.Context, cfg config.GeoConfig) (Cache, func()) {
	if cfg.RedisURL != "" {
		rc, err := NewRedisCache(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err == nil {
			logger.Info("Geocode cache: redis")
			return rc, func() { _ = rc.Close() }
		}
		logger.Warn("Redis geocode cache unavailable", logger.Fields{"error": err.Error()})
	}

	if cfg.DatabaseURL != "" {
		pool, err := NewPostgresPool(ctx, cfg.DatabaseURL)
		if err == nil {
			logger.Info("Geocode cache: postgres")
			return NewPostgresCache(pool, cfg.CacheTTL), pool.Close
		}
		logger.Warn("Postgres geocode cache unavailable", logger.Fields{"error": err.Error()})
	}

	return NewMemoryCache(cfg.CacheTTL), func() {}
}
