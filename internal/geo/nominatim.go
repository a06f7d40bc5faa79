package geo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
)

// NominatimGeocoder resolves places through an OpenStreetMap Nominatim endpoint
type NominatimGeocoder struct {
	baseURL string
	session httpSession
}

// NewNominatimGeocoder creates a geocoder for baseURL
func NewNominatimGeocoder(baseURL, userAgent string, timeout time.Duration, opts ...Option) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: newHTTPSession(userAgent, timeout, opts),
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the first candidate for place
func (g *NominatimGeocoder) Geocode(ctx context.Context, place string) (_ Coordinates, err error) {
	defer logger.Timed(ctx, "nominatim.search")(&err)

	endpoint := g.baseURL + "/search?" + url.Values{
		"format": {"json"},
		"q":      {place},
	}.Encode()

	var candidates []nominatimPlace
	if err := g.session.getJSON(ctx, endpoint, &candidates); err != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: %w", place, err)
	}
	if len(candidates) == 0 {
		return Coordinates{}, apperrors.ErrLocationNotFound(place, nil)
	}

	best := candidates[0]
	lat, latErr := strconv.ParseFloat(best.Lat, 64)
	lon, lonErr := strconv.ParseFloat(best.Lon, 64)
	if latErr != nil || lonErr != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: invalid coordinates %q,%q", place, best.Lat, best.Lon)
	}

	return Coordinates{Lat: lat, Lon: lon}, nil
}
