package toll

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sumit-fleet/fleet-booking/internal/config"
	apperrors "github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/geo"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
)

const maxResponseBytes = 8 << 20

// Client calls the TollGuru route endpoint
type Client struct {
	apiKey     string
	baseURL    string
	country    string
	httpClient *http.Client
}

// NewClient creates a client from the toll configuration. A client with no
// API key is valid but disabled.
func NewClient(cfg config.TollConfig) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		country:    cfg.Country,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// WithHTTPClient replaces the HTTP client
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Enabled reports whether a credential is configured
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Request describes a trip for toll lookup. Coordinates are optional.
type Request struct {
	Pickup   string
	Dropoff  string
	From     *geo.Coordinates
	To       *geo.Coordinates
	LoadTons float64
}

type location struct {
	Address string  `json:"address,omitempty"`
	Geocode *latLng `json:"geocode,omitempty"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type weight struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type vehiclePayload struct {
	Type   string `json:"type"`
	Axles  int    `json:"axles"`
	Weight weight `json:"weight"`
}

type routeRequest struct {
	From            location       `json:"from"`
	To              location       `json:"to"`
	Country         string         `json:"country"`
	ServiceProvider string         `json:"serviceProvider"`
	Vehicle         vehiclePayload `json:"vehicle"`
	Units           struct {
		Currency string `json:"currency"`
	} `json:"units"`
}

func buildPayload(country string, req Request) routeRequest {
	v := ResolveVehicle(req.LoadTons)
	w := req.LoadTons
	if w <= 0 {
		w = 1
	}

	p := routeRequest{
		From:            newLocation(req.Pickup, req.From),
		To:              newLocation(req.Dropoff, req.To),
		Country:         country,
		ServiceProvider: "gmaps",
		Vehicle: vehiclePayload{
			Type:   v.Type,
			Axles:  v.Axles,
			Weight: weight{Value: w, Unit: "tonnes"},
		},
	}
	p.Units.Currency = defaultCurrency
	return p
}

func newLocation(address string, c *geo.Coordinates) location {
	loc := location{Address: address}
	if c != nil {
		loc.Geocode = &latLng{Lat: c.Lat, Lng: c.Lon}
	}
	return loc
}

// Fetch returns the raw provider response. It returns nil without calling
// out when the client is disabled or either address is missing. Non-2xx
// responses are TOLL_PROVIDER_ERROR.
func (c *Client) Fetch(ctx context.Context, req Request) (_ []byte, err error) {
	if !c.Enabled() || strings.TrimSpace(req.Pickup) == "" || strings.TrimSpace(req.Dropoff) == "" {
		return nil, nil
	}
	defer logger.Timed(ctx, "tollguru.route")(&err)

	body, err := json.Marshal(buildPayload(c.country, req))
	if err != nil {
		return nil, fmt.Errorf("marshal toll request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create toll request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperrors.ErrTollProvider("Toll API request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.ErrTollProvider("Toll API response unreadable", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.ErrTollProvider(fmt.Sprintf("Toll API error (%d)", resp.StatusCode), nil)
	}
	return raw, nil
}

// Lookup fetches and normalizes in one step. A disabled client or skipped
// request yields (nil, nil).
func (c *Client) Lookup(ctx context.Context, req Request) (*Summary, error) {
	raw, err := c.Fetch(ctx, req)
	if err != nil || raw == nil {
		return nil, err
	}
	s := Summarize(raw)
	return &s, nil
}
