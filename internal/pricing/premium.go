package pricing

import "math"

// Premium is the estimator's surcharge above physical cost
type Premium struct {
	Amount     float64 `json:"premium"`
	Pct        float64 `json:"premiumPct"`
	Confidence float64 `json:"confidence"`
}

// EstimatePremium scores the trip on distance, load and cost composition
// and maps the score onto a bounded surcharge. It is a fixed regression
// surface: identical inputs always give identical outputs. Inputs are
// scored as given; only a zero (or NaN) distance or cost base short-circuits.
func EstimatePremium(distanceKm, loadTons, fuel, tolls, opex float64) Premium {
	base := fuel + tolls + opex
	if distanceKm == 0 || base == 0 || math.IsNaN(distanceKm) || math.IsNaN(base) {
		return Premium{}
	}

	score := premiumScore(distanceKm, loadTons, tolls/base, fuel/base, opex/base)
	pct := sigmoid(score)*premiumPctSpan + PremiumPctMin

	return Premium{
		Amount:     base * pct,
		Pct:        pct,
		Confidence: math.Min(ConfidenceCap, confidenceBase+math.Abs(score)*confidenceSlope),
	}
}

func premiumScore(km, load, tollRatio, fuelRatio, opexRatio float64) float64 {
	return scoreDistanceCoef*km +
		scoreLoadCoef*load +
		scoreTollRatioCoef*tollRatio +
		scoreFuelRatioCoef*fuelRatio +
		scoreOpexRatioCoef*opexRatio +
		scoreIntercept
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
