package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestComputeCostsLongHaulScenario(t *testing.T) {
	p := DefaultParams()
	c := ComputeCosts(p, 1280, 15, CostOverrides{})

	assert.InDelta(t, 39954.28571428571, c.Fuel, eps)
	assert.InDelta(t, 2560.0, c.Tolls, eps)
	assert.InDelta(t, 10240.0, c.Opex, eps)
	assert.InDelta(t, 52754.28571428571, c.BaseSubtotal, eps)
	assert.Equal(t, c.Fuel+c.Tolls+c.Opex, c.BaseSubtotal)

	prem := EstimatePremium(1280, 15, c.Fuel, c.Tolls, c.Opex)
	assert.InDelta(t, 0.24402520612328824, prem.Pct, eps)
	assert.InDelta(t, 12873.37544531541, prem.Amount, 1e-6)
	assert.InDelta(t, 0.9078544194107453, prem.Confidence, eps)

	margin, price := FinalPrice(c.BaseSubtotal, prem.Amount, p.MarginPct)
	assert.InDelta(t, (c.BaseSubtotal+prem.Amount)*0.08, margin, 1e-6)
	assert.Equal(t, 70878.0, price)
}

func TestComputeCostsOverrides(t *testing.T) {
	p := DefaultParams()

	t.Run("fuel and tolls win", func(t *testing.T) {
		c := ComputeCosts(p, 100, 10, CostOverrides{Fuel: Float(1234), Tolls: Float(0)})
		assert.Equal(t, 1234.0, c.Fuel)
		assert.Equal(t, 0.0, c.Tolls)
		assert.Equal(t, 800.0, c.Opex)
		assert.Equal(t, 2034.0, c.BaseSubtotal)
	})

	t.Run("profile rates", func(t *testing.T) {
		c := ComputeCosts(p, 350, 0, CostOverrides{MileageKmPerL: Float(3.5), TollPerKm: Float(7)})
		assert.InDelta(t, 9500.0, c.Fuel, eps)
		assert.InDelta(t, 2450.0, c.Tolls, eps)
	})

	t.Run("non-finite overrides are ignored", func(t *testing.T) {
		c := ComputeCosts(p, 100, 0, CostOverrides{Fuel: Float(math.NaN()), Tolls: Float(math.Inf(1))})
		assert.InDelta(t, 100/3.5*95, c.Fuel, eps)
		assert.InDelta(t, 200.0, c.Tolls, eps)
	})

	t.Run("negative overrides clamp to zero", func(t *testing.T) {
		c := ComputeCosts(p, 100, 0, CostOverrides{Fuel: Float(-5), TollPerKm: Float(-1)})
		assert.Equal(t, 0.0, c.Fuel)
		assert.Equal(t, 0.0, c.Tolls)
	})

	t.Run("zero mileage falls back to default", func(t *testing.T) {
		c := ComputeCosts(p, 70, 0, CostOverrides{MileageKmPerL: Float(0)})
		assert.InDelta(t, 1900.0, c.Fuel, eps)
	})
}

func TestComputeCostsClampsNegativeInputs(t *testing.T) {
	c := ComputeCosts(DefaultParams(), -50, -3, CostOverrides{})
	assert.Equal(t, Costs{}, c)

	c = ComputeCosts(DefaultParams(), 100, -3, CostOverrides{})
	assert.Equal(t, ComputeCosts(DefaultParams(), 100, 0, CostOverrides{}), c)
}

func TestFuelCostWithoutUsableMileage(t *testing.T) {
	p := DefaultParams()
	p.DefaultMileageKmPerL = 0
	assert.Equal(t, 0.0, FuelCost(p, 500, 10, nil))
}

func TestEstimatePremiumDegenerate(t *testing.T) {
	assert.Equal(t, Premium{}, EstimatePremium(0, 15, 0, 0, 0))
	assert.Equal(t, Premium{}, EstimatePremium(0, 15, 100, 10, 50))
	assert.Equal(t, Premium{}, EstimatePremium(500, 15, 0, 0, 0))
}

func TestEstimatePremiumScoresRawInputs(t *testing.T) {
	prem := EstimatePremium(500, -10, 10000, 1000, 4000)
	assert.InDelta(t, 0.14098997327086601, prem.Pct, eps)
	assert.InDelta(t, 0.5518, prem.Confidence, eps)
	assert.InDelta(t, 15000*prem.Pct, prem.Amount, 1e-6)
}

func TestEstimatePremiumDeterministic(t *testing.T) {
	first := EstimatePremium(733, 12.5, 21000.5, 3100.25, 5864)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, EstimatePremium(733, 12.5, 21000.5, 3100.25, 5864))
	}
}

func TestEstimatePremiumBounds(t *testing.T) {
	p := DefaultParams()
	for _, km := range []float64{1, 10, 250, 1280, 5000, 20000} {
		for _, load := range []float64{0, 1, 15, 40, 200} {
			c := ComputeCosts(p, km, load, CostOverrides{})
			prem := EstimatePremium(km, load, c.Fuel, c.Tolls, c.Opex)

			assert.GreaterOrEqual(t, prem.Pct, PremiumPctMin)
			assert.LessOrEqual(t, prem.Pct, PremiumPctMax)
			assert.GreaterOrEqual(t, prem.Confidence, 0.0)
			assert.LessOrEqual(t, prem.Confidence, ConfidenceCap)
			assert.InDelta(t, c.BaseSubtotal*prem.Pct, prem.Amount, 1e-6)
		}
	}
}

func TestFinalPriceFormula(t *testing.T) {
	margin, price := FinalPrice(2000, 200, 0.08)
	assert.InDelta(t, 176.0, margin, eps)
	assert.Equal(t, 2376.0, price)
}

func TestRoundPriceHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 2376.0, RoundPrice(2375.5))
	assert.Equal(t, 2375.0, RoundPrice(2374.5))
	assert.Equal(t, 2375.0, RoundPrice(2375.49))
	assert.Equal(t, 0.0, RoundPrice(0.4))
}

func TestDeliveryHours(t *testing.T) {
	assert.InDelta(t, 26.763636363636362, DeliveryHours(1280), eps)
	assert.InDelta(t, 10.454545454545455, DeliveryHours(500), eps)
	assert.Equal(t, 0.0, DeliveryHours(-10))
}

func TestParseTripDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	got, ok := ParseTripDate("2025-03-14", ist)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, ist), got)

	got, ok = ParseTripDate("2025-3-4", nil)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"", "not-a-date", "2025/03/14", "2025-02-30", "2025-13-01", "2025-03", "14-03-2025x"} {
		_, ok := ParseTripDate(bad, time.UTC)
		assert.False(t, ok, bad)
	}
}

func TestETA(t *testing.T) {
	now := time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)
	start := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	eta := ETA(DeliveryHours(500), start, now)
	assert.Equal(t, start.Add(37636364*time.Millisecond), eta)

	// A zero start is the same as no start at all
	assert.Equal(t, now.Add(5*time.Hour), ETA(5, time.Time{}, now))
	_, ok := ParseTripDate("not-a-date", time.UTC)
	assert.False(t, ok)
}

func TestETASaturates(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	limit := now.Add(time.Duration(maxETAMillis) * time.Millisecond)

	for _, km := range []float64{1e11, 1e12, 1e15} {
		eta := ETA(DeliveryHours(km), time.Time{}, now)
		assert.Equal(t, limit, eta, "%g", km)
		assert.True(t, eta.After(now))
	}

	// Just below the limit nothing is clamped
	hours := (maxETAMillis - 1000) / 3600 / 1000
	assert.True(t, ETA(hours, time.Time{}, now).Before(limit))
}

func TestFormatETA(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2025, 3, 14, 5, 30, 0, 0, ist).Add(1500 * time.Millisecond)
	assert.Equal(t, "2025-03-14T00:00:01.500Z", FormatETA(ts))
}
