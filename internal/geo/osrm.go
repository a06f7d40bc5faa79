package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sumit-fleet/fleet-booking/internal/logger"
)

// ErrNoRoute is returned when the router answers without any route
var ErrNoRoute = errors.New("no route between points")

// OSRMRouter talks to an OSRM HTTP endpoint using the driving profile
type OSRMRouter struct {
	baseURL string
	session httpSession
}

// NewOSRMRouter creates a router for baseURL
func NewOSRMRouter(baseURL, userAgent string, timeout time.Duration, opts ...Option) *OSRMRouter {
	return &OSRMRouter{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: newHTTPSession(userAgent, timeout, opts),
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Geometry string  `json:"geometry"`
		Legs     []struct {
			Steps []struct {
				Name     string  `json:"name"`
				Mode     string  `json:"mode"`
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
				Maneuver struct {
					Instruction string `json:"instruction"`
				} `json:"maneuver"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

// RouteDetails fetches the full route with polyline geometry and steps
func (r *OSRMRouter) RouteDetails(ctx context.Context, from, to Coordinates) (_ RouteDetails, err error) {
	defer logger.Timed(ctx, "osrm.route.details")(&err)

	var resp osrmResponse
	if err := r.session.getJSON(ctx, r.routeURL(from, to, "overview=full&steps=true&geometries=polyline"), &resp); err != nil {
		return RouteDetails{}, fmt.Errorf("detailed route: %w", err)
	}
	if len(resp.Routes) == 0 {
		return RouteDetails{}, fmt.Errorf("detailed route: %w", ErrNoRoute)
	}

	route := resp.Routes[0]
	details := RouteDetails{
		DistanceKm: metresToKm(route.Distance),
		Geometry:   route.Geometry,
		Steps:      []Step{},
	}
	for _, leg := range route.Legs {
		for _, s := range leg.Steps {
			details.Steps = append(details.Steps, Step{
				Name:        s.Name,
				Mode:        s.Mode,
				Instruction: s.Maneuver.Instruction,
				Distance:    int(math.Round(s.Distance)),
				Duration:    int(math.Round(s.Duration)),
			})
		}
	}
	return details, nil
}

// RouteDistance fetches only the driving distance, in whole kilometres
func (r *OSRMRouter) RouteDistance(ctx context.Context, from, to Coordinates) (_ float64, err error) {
	defer logger.Timed(ctx, "osrm.route.simple")(&err)

	var resp osrmResponse
	if err := r.session.getJSON(ctx, r.routeURL(from, to, "overview=false"), &resp); err != nil {
		return 0, fmt.Errorf("simple route: %w", err)
	}
	if len(resp.Routes) == 0 {
		return 0, fmt.Errorf("simple route: %w", ErrNoRoute)
	}
	return metresToKm(resp.Routes[0].Distance), nil
}

func (r *OSRMRouter) routeURL(from, to Coordinates, query string) string {
	return fmt.Sprintf("%s/route/v1/driving/%s;%s?%s", r.baseURL, lonLat(from), lonLat(to), query)
}

func lonLat(c Coordinates) string {
	return strconv.FormatFloat(c.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}

func metresToKm(m float64) float64 {
	if m <= 0 {
		return 0
	}
	return math.Round(m / 1000)
}
