// Package toll talks to the TollGuru route API and normalizes its
// responses into a small summary the cost model can consume.
package toll

// Vehicle is the axle class sent to the toll provider
type Vehicle struct {
	Type  string `json:"type"`
	Axles int    `json:"axles"`
}

var vehicleBreakpoints = []struct {
	maxTons float64
	vehicle Vehicle
}{
	{10, Vehicle{"2AxlesTruck", 2}},
	{18, Vehicle{"3AxlesTruck", 3}},
	{26, Vehicle{"4AxlesTruck", 4}},
	{34, Vehicle{"5AxlesTruck", 5}},
	{42, Vehicle{"6AxlesTruck", 6}},
}

var heaviestVehicle = Vehicle{"7AxlesTruck", 7}

// ResolveVehicle maps a load onto the first class whose upper bound
// (inclusive) covers it. Anything above the last bound is a 7-axle truck.
func ResolveVehicle(loadTons float64) Vehicle {
	for _, bp := range vehicleBreakpoints {
		if loadTons <= bp.maxTons {
			return bp.vehicle
		}
	}
	return heaviestVehicle
}
