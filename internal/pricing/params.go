// Package pricing implements the physical cost model, the premium
// estimator and the price, delivery time and ETA arithmetic of a quote.
// Everything here is pure: no I/O, no clock reads, no environment access.
package pricing

import "github.com/sumit-fleet/fleet-booking/internal/config"

// Model constants. The premium and price formulas depend on these exact
// values; do not repeat them at call sites.
const (
	// LoadFuelFactorPerTon is the extra fuel burned per ton of load
	LoadFuelFactorPerTon = 0.01

	AverageSpeedKmh   = 55.0
	TrafficMultiplier = 1.15

	// Premium score coefficients
	scoreDistanceCoef  = 0.002
	scoreLoadCoef      = 0.08
	scoreTollRatioCoef = 0.35
	scoreFuelRatioCoef = 0.22
	scoreOpexRatioCoef = 0.18
	scoreIntercept     = -0.4

	// Premium percentage is sigmoid(score) rescaled into [PremiumPctMin, PremiumPctMin+premiumPctSpan]
	PremiumPctMin  = 0.03
	premiumPctSpan = 0.22
	PremiumPctMax  = PremiumPctMin + premiumPctSpan

	confidenceBase  = 0.55
	confidenceSlope = 0.1
	ConfidenceCap   = 0.95
)

// Params are the process-wide cost constants, all in INR
type Params struct {
	DieselPerLitre       float64
	PetrolPerLitre       float64 // carried for completeness, unused by the cost model
	DefaultMileageKmPerL float64
	DefaultTollPerKm     float64
	OpexPerKm            float64
	MarginPct            float64
}

// DefaultParams returns the documented defaults
func DefaultParams() Params {
	return Params{
		DieselPerLitre:       95,
		PetrolPerLitre:       105,
		DefaultMileageKmPerL: 3.5,
		DefaultTollPerKm:     2.0,
		OpexPerKm:            8.0,
		MarginPct:            0.08,
	}
}

// ParamsFromConfig copies the pricing section of cfg
func ParamsFromConfig(cfg config.PricingConfig) Params {
	return Params{
		DieselPerLitre:       cfg.DieselPerLitre,
		PetrolPerLitre:       cfg.PetrolPerLitre,
		DefaultMileageKmPerL: cfg.DefaultMileageKmPerL,
		DefaultTollPerKm:     cfg.DefaultTollPerKm,
		OpexPerKm:            cfg.OpexPerKm,
		MarginPct:            cfg.MarginPct,
	}
}
