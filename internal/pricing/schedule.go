package pricing

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FinalPrice applies the margin on top of base plus premium and rounds to
// whole rupees.
func FinalPrice(baseSubtotal, premium, marginPct float64) (marginValue, price float64) {
	withPremium := baseSubtotal + premium
	marginValue = withPremium * marginPct
	return marginValue, RoundPrice(withPremium + marginValue)
}

// RoundPrice rounds half away from zero, so x.5 always goes up for prices
func RoundPrice(v float64) float64 {
	return math.Round(v)
}

// DeliveryHours is the predicted driving time for a distance
func DeliveryHours(distanceKm float64) float64 {
	return nonNegative(distanceKm) / AverageSpeedKmh * TrafficMultiplier
}

// ParseTripDate parses a YYYY-MM-DD calendar date as midnight in loc.
// Out-of-range parts (2025-02-30) are rejected rather than normalized.
func ParseTripDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	var ymd [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return time.Time{}, false
		}
		ymd[i] = n
	}

	t := time.Date(ymd[0], time.Month(ymd[1]), ymd[2], 0, 0, 0, 0, loc)
	if t.Year() != ymd[0] || int(t.Month()) != ymd[1] || t.Day() != ymd[2] {
		return time.Time{}, false
	}
	return t, true
}

// maxETAMillis is the longest offset a time.Duration can hold, in ms
const maxETAMillis = float64(math.MaxInt64 / int64(time.Millisecond))

// ETA adds hours, rounded to the millisecond, to start; a zero start means
// now. Offsets beyond what a time.Duration holds saturate instead of
// wrapping around.
func ETA(hours float64, start, now time.Time) time.Time {
	base := start
	if base.IsZero() {
		base = now
	}
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		hours = 0
	}
	ms := math.Round(hours * 3600 * 1000)
	ms = math.Max(-maxETAMillis, math.Min(maxETAMillis, ms))
	return base.Add(time.Duration(ms) * time.Millisecond)
}

// FormatETA renders t the way quote responses carry it: UTC with milliseconds
func FormatETA(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
