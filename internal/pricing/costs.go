package pricing

import "math"

// CostOverrides carries externally sourced figures. A non-nil finite value
// always wins over the computed one; nil means "not supplied".
type CostOverrides struct {
	Fuel          *float64
	Tolls         *float64
	MileageKmPerL *float64
	TollPerKm     *float64
}

// Costs is the additive physical cost breakdown of a trip
type Costs struct {
	Fuel         float64 `json:"fuel"`
	Tolls        float64 `json:"tolls"`
	Opex         float64 `json:"opex"`
	BaseSubtotal float64 `json:"baseSubtotal"`
}

// ComputeCosts prices fuel, tolls and operating expense for a trip.
// Negative distance and load are treated as zero.
func ComputeCosts(p Params, distanceKm, loadTons float64, o CostOverrides) Costs {
	km := nonNegative(distanceKm)
	load := nonNegative(loadTons)

	var c Costs
	if v, ok := value(o.Fuel); ok {
		c.Fuel = nonNegative(v)
	} else {
		c.Fuel = FuelCost(p, km, load, o.MileageKmPerL)
	}

	if v, ok := value(o.Tolls); ok {
		c.Tolls = nonNegative(v)
	} else {
		rate := p.DefaultTollPerKm
		if v, ok := value(o.TollPerKm); ok {
			rate = v
		}
		c.Tolls = km * nonNegative(rate)
	}

	c.Opex = km * nonNegative(p.OpexPerKm)
	c.BaseSubtotal = c.Fuel + c.Tolls + c.Opex
	return c
}

// FuelCost is litres burned over km at the given mileage, adjusted for
// load, times the diesel price. A missing or non-positive mileage falls
// back to the default; if that is non-positive too no fuel is charged.
func FuelCost(p Params, distanceKm, loadTons float64, mileageKmPerL *float64) float64 {
	mileage := p.DefaultMileageKmPerL
	if v, ok := value(mileageKmPerL); ok && v > 0 {
		mileage = v
	}
	if mileage <= 0 {
		return 0
	}

	loadFactor := 1 + nonNegative(loadTons)*LoadFuelFactorPerTon
	litres := nonNegative(distanceKm) / mileage * loadFactor
	return litres * p.DieselPerLitre
}

// Float returns a pointer to v, for building overrides
func Float(v float64) *float64 {
	return &v
}

func value(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return 0, false
	}
	return *p, true
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
