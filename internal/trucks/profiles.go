// Package trucks holds the fixed table of truck classes the quote engine
// prices against.
package trucks

import "strings"

// DefaultKey is the profile returned for unknown or empty truck types
const DefaultKey = "12W"

// Profile describes the mileage and toll assumptions for a class of truck
type Profile struct {
	Key           string  `json:"key"`
	Name          string  `json:"name"`
	MileageKmPerL float64 `json:"mileageKmPerL"`
	TollPerKm     float64 `json:"tollPerKm"`
	Description   string  `json:"description"`
	Note          string  `json:"note"`
}

var order = []string{"10W", "12W", "16W", "22W"}

var profiles = map[string]Profile{
	"10W": {
		Key:           "10W",
		Name:          "10-Wheeler · Heavy Trucks (3-Axle)",
		MileageKmPerL: 4.5,
		TollPerKm:     5.5,
		Description:   "Low mileage (~4.5 km/l). Toll intensity about ₹5.50 per km.",
		Note:          "Best for dense loads up to ~18T with good maneuverability.",
	},
	"12W": {
		Key:           "12W",
		Name:          "12-Wheeler · Multi-Axle Truck",
		MileageKmPerL: 3.5,
		TollPerKm:     7.0,
		Description:   "Lower mileage (~3.5 km/l). Toll rate around ₹7.00 per km.",
		Note:          "Balanced option for 20–24T consignments needing stability.",
	},
	"16W": {
		Key:           "16W",
		Name:          "16-Wheeler · Heavy Hauler / Trailer",
		MileageKmPerL: 3.0,
		TollPerKm:     8.5,
		Description:   "Very low mileage (~3.0 km/l). Toll estimate ₹8.50 per km.",
		Note:          "Ideal for bulk steel, cement, machinery where axle spread is needed.",
	},
	"22W": {
		Key:           "22W",
		Name:          "22-Wheeler · Oversized Cargo Carrier",
		MileageKmPerL: 2.0,
		TollPerKm:     11.0,
		Description:   "Extremely low mileage (~2.0 km/l). Highest toll band (~₹11.00/km).",
		Note:          "Used for project cargo / ODC consignments with escorts.",
	},
}

// Resolve returns the profile for code. Codes are matched case-insensitively
// after trimming; anything unrecognized resolves to the default profile.
func Resolve(code string) Profile {
	if p, ok := Lookup(code); ok {
		return p
	}
	return profiles[DefaultKey]
}

// Lookup reports whether code names a known profile
func Lookup(code string) (Profile, bool) {
	p, ok := profiles[strings.ToUpper(strings.TrimSpace(code))]
	return p, ok
}

// Default returns the default profile
func Default() Profile {
	return profiles[DefaultKey]
}

// All returns every profile, smallest class first
func All() []Profile {
	out := make([]Profile, 0, len(order))
	for _, key := range order {
		out = append(out, profiles[key])
	}
	return out
}
