// Package geo resolves place names to coordinates and coordinates to
// driving distance, with a detailed-then-simple routing fallback.
package geo

import "context"

// Coordinates is a WGS84 point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Step is one turn-by-turn instruction of a detailed route
type Step struct {
	Name        string `json:"name"`
	Mode        string `json:"mode"`
	Instruction string `json:"instruction"`
	Distance    int    `json:"distance"` // metres
	Duration    int    `json:"duration"` // seconds
}

// RouteDetails is a route with optional geometry (encoded polyline) and steps
type RouteDetails struct {
	DistanceKm float64
	Geometry   string
	Steps      []Step
}

// Geocoder resolves a free-text place name. The first candidate wins.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (Coordinates, error)
}

// Router computes driving routes between two points
type Router interface {
	RouteDetails(ctx context.Context, from, to Coordinates) (RouteDetails, error)
	RouteDistance(ctx context.Context, from, to Coordinates) (float64, error)
}
