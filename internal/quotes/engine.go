package quotes

import (
	"context"
	"strings"

	"github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/geo"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
	"github.com/sumit-fleet/fleet-booking/internal/models"
	"github.com/sumit-fleet/fleet-booking/internal/toll"
	"github.com/sumit-fleet/fleet-booking/internal/validator"
)

// DistanceResolver is the part of geo.Resolver the engine drives
type DistanceResolver interface {
	Resolve(ctx context.Context, q geo.Query) (*geo.Result, error)
	GeocodePair(ctx context.Context, pickup, dropoff string) (geo.Coordinates, geo.Coordinates, error)
	Route(ctx context.Context, from, to geo.Coordinates) (*geo.Result, error)
}

// TollSource looks up toll data for a trip
type TollSource interface {
	Enabled() bool
	Lookup(ctx context.Context, req toll.Request) (*toll.Summary, error)
}

// Engine runs the quote pipeline: distance, optional toll enrichment, then
// the assembler. Distance failures abort; toll failures degrade.
type Engine struct {
	distance  DistanceResolver
	tolls     TollSource
	assembler *Assembler
}

// NewEngine creates an Engine. tolls may be nil when the integration is not wired.
func NewEngine(distance DistanceResolver, tolls TollSource, assembler *Assembler) *Engine {
	return &Engine{distance: distance, tolls: tolls, assembler: assembler}
}

type tollOutcome struct {
	summary *toll.Summary
	status  TollStatus
	err     error
}

// Quote prices one request
func (e *Engine) Quote(ctx context.Context, req *models.QuoteRequest) (*Quote, error) {
	if err := validator.ValidateQuoteRequest(req); err != nil {
		return nil, err
	}
	log := logger.Default().WithContext(ctx)

	pickup := strings.TrimSpace(req.Pickup)
	dropoff := strings.TrimSpace(req.Dropoff)

	var (
		route    *geo.Result
		outcome  tollOutcome
		routeErr error
	)

	if req.Distance > 0 {
		route = &geo.Result{DistanceKm: req.Distance, Source: geo.SourceSupplied}
		treq := toll.Request{Pickup: pickup, Dropoff: dropoff, LoadTons: req.Load}
		if e.tollsWanted(treq) {
			// Best effort: the toll provider routes better with coordinates
			if from, to, err := e.distance.GeocodePair(ctx, pickup, dropoff); err == nil {
				treq.From, treq.To = &from, &to
			} else {
				log.Warn("Geocoding for toll lookup failed", logger.Fields{"error": err.Error()})
			}
		}
		outcome = e.lookupTolls(ctx, treq)
	} else {
		from, to, err := e.distance.GeocodePair(ctx, pickup, dropoff)
		if err != nil {
			return nil, err
		}

		// Tolls only need the endpoints, so they are fetched while routing runs
		tctx, cancel := context.WithCancel(ctx)
		done := make(chan tollOutcome, 1)
		go func() {
			done <- e.lookupTolls(tctx, toll.Request{Pickup: pickup, Dropoff: dropoff, From: &from, To: &to, LoadTons: req.Load})
		}()

		route, routeErr = e.distance.Route(ctx, from, to)
		if routeErr != nil {
			cancel()
			<-done
			return nil, routeErr
		}
		outcome = <-done
		cancel()
	}

	in := AssembleInput{
		DistanceKm:  route.DistanceKm,
		LoadTons:    req.Load,
		TruckType:   req.TruckType,
		TripDate:    req.TripDate,
		TollSummary: outcome.summary,
		Notes:       Notes{NoEntry: NoEntryNote(pickup, dropoff)},
	}
	in.Fuel, in.Tolls = toll.Overrides(outcome.summary)

	q := e.assembler.Assemble(in)
	q.Enrichment.RouteSource = route.Source
	q.Enrichment.TollStatus = outcome.status
	if outcome.err != nil {
		msg := outcome.err.Error()
		if appErr, ok := errors.As(outcome.err); ok {
			msg = appErr.Message
		}
		q.Enrichment.Degradations = append(q.Enrichment.Degradations, Degradation{
			Code:    errors.CodeTollProvider,
			Message: msg,
		})
	}

	log.Info("Quote generated", logger.Fields{
		"distance_km":  q.Distance,
		"load_tons":    req.Load,
		"truck_type":   q.TruckProfile.Key,
		"quote":        q.Price,
		"premium_pct":  q.PremiumPct,
		"route_source": q.Enrichment.RouteSource,
		"toll_status":  q.Enrichment.TollStatus,
		"degraded":     q.Enrichment.Degraded(),
	})

	return &q, nil
}

// tollsWanted reports whether a toll lookup for req would call out
func (e *Engine) tollsWanted(req toll.Request) bool {
	return e.tolls != nil && e.tolls.Enabled() && req.Pickup != "" && req.Dropoff != ""
}

// lookupTolls never fails; provider errors come back in the outcome
func (e *Engine) lookupTolls(ctx context.Context, req toll.Request) tollOutcome {
	if e.tolls == nil || !e.tolls.Enabled() {
		return tollOutcome{status: TollDisabled}
	}
	if !e.tollsWanted(req) {
		return tollOutcome{status: TollSkipped}
	}

	summary, err := e.tolls.Lookup(ctx, req)
	if err != nil {
		logger.Default().WithContext(ctx).Warn("Toll API integration failed", logger.Fields{"error": err.Error()})
		return tollOutcome{status: TollDegraded, err: err}
	}
	if summary == nil {
		return tollOutcome{status: TollSkipped}
	}
	return tollOutcome{summary: summary, status: TollApplied}
}

// Distance resolves a pickup/dropoff pair without pricing it
func (e *Engine) Distance(ctx context.Context, req *models.DistanceRequest) (*DistanceResponse, error) {
	if err := validator.ValidateDistanceRequest(req); err != nil {
		return nil, err
	}

	res, err := e.distance.Resolve(ctx, geo.Query{Pickup: req.Pickup, Dropoff: req.Dropoff})
	if err != nil {
		return nil, err
	}
	return &DistanceResponse{Distance: res.DistanceKm, From: res.From, To: res.To, Source: res.Source}, nil
}
