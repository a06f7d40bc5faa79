package quotes

import (
	"strings"
	"time"

	apperrors "github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/pricing"
	"github.com/sumit-fleet/fleet-booking/internal/toll"
	"github.com/sumit-fleet/fleet-booking/internal/trucks"
)

// Assembler turns a distance, load and truck class into a priced quote
type Assembler struct {
	Params   pricing.Params
	Now      func() time.Time
	Location *time.Location // trip dates are midnight in this zone
}

// NewAssembler creates an Assembler on the wall clock
func NewAssembler(params pricing.Params, loc *time.Location) *Assembler {
	if loc == nil {
		loc = time.UTC
	}
	return &Assembler{Params: params, Now: time.Now, Location: loc}
}

// AssembleInput is everything the assembler needs for one quote
type AssembleInput struct {
	DistanceKm float64
	LoadTons   float64
	TruckType  string
	// Baseline prices with the process-wide mileage and toll rate instead
	// of a truck profile. TruckType is ignored.
	Baseline    bool
	Fuel        *float64 // override, e.g. from toll data
	Tolls       *float64 // override, e.g. from toll data
	TripDate    string
	TollSummary *toll.Summary
	Notes       Notes
}

// Assemble prices the trip. It never fails: an unparsable trip date is
// recorded as a degradation and the ETA counts from now.
func (a *Assembler) Assemble(in AssembleInput) Quote {
	overrides := pricing.CostOverrides{Fuel: in.Fuel, Tolls: in.Tolls}

	var profile *trucks.Profile
	if !in.Baseline {
		p := trucks.Resolve(in.TruckType)
		profile = &p
		overrides.MileageKmPerL = pricing.Float(p.MileageKmPerL)
		overrides.TollPerKm = pricing.Float(p.TollPerKm)
	}

	costs := pricing.ComputeCosts(a.Params, in.DistanceKm, in.LoadTons, overrides)
	premium := pricing.EstimatePremium(in.DistanceKm, in.LoadTons, costs.Fuel, costs.Tolls, costs.Opex)
	marginValue, price := pricing.FinalPrice(costs.BaseSubtotal, premium.Amount, a.Params.MarginPct)
	hours := pricing.DeliveryHours(in.DistanceKm)

	q := Quote{
		Distance:     in.DistanceKm,
		Fuel:         costs.Fuel,
		Tolls:        costs.Tolls,
		Opex:         costs.Opex,
		BaseSubtotal: costs.BaseSubtotal,
		Premium:      premium.Amount,
		PremiumPct:   premium.Pct,
		Confidence:   premium.Confidence,
		MarginPct:    a.Params.MarginPct,
		MarginValue:  marginValue,
		Price:        price,
		Time:         hours,
		Notes:        in.Notes,
		TollSummary:  in.TollSummary,
		TruckProfile: profile,
		Enrichment:   Enrichment{Degradations: []Degradation{}},
	}

	start, ok := pricing.ParseTripDate(in.TripDate, a.Location)
	if !ok && strings.TrimSpace(in.TripDate) != "" {
		appErr := apperrors.ErrInvalidDate(in.TripDate)
		q.Enrichment.Degradations = append(q.Enrichment.Degradations, Degradation{Code: appErr.Code, Message: appErr.Message})
	}
	q.EtaDate = pricing.FormatETA(pricing.ETA(hours, start, a.now()))

	return q
}

func (a *Assembler) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}
