package geo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
)

// Source records where a resolved distance came from
type Source string

const (
	SourceSupplied Source = "supplied"
	SourceDetailed Source = "detailed_route"
	SourceSimple   Source = "simple_route"
)

// Query is a distance request. A positive DistanceKm short-circuits all lookups.
type Query struct {
	Pickup     string
	Dropoff    string
	DistanceKm float64
}

// Result is a resolved distance. From/To are nil when the distance was
// supplied; Geometry and Steps are only present on the detailed path.
type Result struct {
	DistanceKm float64      `json:"distance"`
	From       *Coordinates `json:"from,omitempty"`
	To         *Coordinates `json:"to,omitempty"`
	Source     Source       `json:"source"`
	Geometry   string       `json:"geometry,omitempty"`
	Steps      []Step       `json:"steps,omitempty"`
}

// Resolver turns a pickup/dropoff pair into a driving distance
type Resolver struct {
	geocoder Geocoder
	router   Router
	timeout  time.Duration
}

// NewResolver creates a Resolver. timeout bounds each outbound call; zero disables it.
func NewResolver(geocoder Geocoder, router Router, timeout time.Duration) *Resolver {
	return &Resolver{geocoder: geocoder, router: router, timeout: timeout}
}

// Resolve returns the distance for q. Geocoding failures surface as
// LOCATION_NOT_FOUND; if both routing calls fail the error is
// ROUTING_UNAVAILABLE.
func (r *Resolver) Resolve(ctx context.Context, q Query) (*Result, error) {
	if q.DistanceKm > 0 {
		return &Result{DistanceKm: q.DistanceKm, Source: SourceSupplied}, nil
	}

	pickup := strings.TrimSpace(q.Pickup)
	dropoff := strings.TrimSpace(q.Dropoff)
	if pickup == "" {
		return nil, apperrors.ErrValidation("pickup", "required when no distance is supplied")
	}
	if dropoff == "" {
		return nil, apperrors.ErrValidation("dropoff", "required when no distance is supplied")
	}

	from, to, err := r.GeocodePair(ctx, pickup, dropoff)
	if err != nil {
		return nil, err
	}

	return r.Route(ctx, from, to)
}

// GeocodePair resolves both endpoints concurrently
func (r *Resolver) GeocodePair(ctx context.Context, pickup, dropoff string) (from, to Coordinates, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := r.geocode(gctx, pickup)
		from = c
		return err
	})
	g.Go(func() error {
		c, err := r.geocode(gctx, dropoff)
		to = c
		return err
	})
	if err := g.Wait(); err != nil {
		return Coordinates{}, Coordinates{}, err
	}
	return from, to, nil
}

func (r *Resolver) geocode(ctx context.Context, place string) (Coordinates, error) {
	cctx, cancel := r.callContext(ctx)
	defer cancel()

	c, err := r.geocoder.Geocode(cctx, place)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeLocationNotFound) {
			return Coordinates{}, err
		}
		return Coordinates{}, apperrors.ErrLocationNotFound(place, err)
	}
	return c, nil
}

// Route tries the detailed route first and falls back to the simple one.
// The fallback result carries no geometry.
func (r *Resolver) Route(ctx context.Context, from, to Coordinates) (*Result, error) {
	log := logger.Default().WithContext(ctx)
	res := &Result{From: &from, To: &to}

	dctx, cancel := r.callContext(ctx)
	details, err := r.router.RouteDetails(dctx, from, to)
	cancel()
	if err == nil {
		res.DistanceKm = details.DistanceKm
		res.Geometry = details.Geometry
		res.Steps = details.Steps
		res.Source = SourceDetailed
		return res, nil
	}
	log.Warn("Detailed route failed, falling back to simple route", logger.Fields{
		"error": err.Error(),
	})

	sctx, cancel := r.callContext(ctx)
	km, simpleErr := r.router.RouteDistance(sctx, from, to)
	cancel()
	if simpleErr != nil {
		return nil, apperrors.ErrRoutingUnavailable(fmt.Errorf("%v; %w", err, simpleErr))
	}

	res.DistanceKm = km
	res.Source = SourceSimple
	return res, nil
}

func (r *Resolver) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}
