// Package api exposes the quote, booking and fleet operations over HTTP.
// One route table backs both the API Gateway adapter used in Lambda and
// the chi router used by the local server.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
	"github.com/sumit-fleet/fleet-booking/internal/models"
	"github.com/sumit-fleet/fleet-booking/internal/quotes"
	"github.com/sumit-fleet/fleet-booking/internal/trucks"
)

// QuoteService prices trips
type QuoteService interface {
	Quote(ctx context.Context, req *models.QuoteRequest) (*quotes.Quote, error)
	Distance(ctx context.Context, req *models.DistanceRequest) (*quotes.DistanceResponse, error)
}

// BookingService runs the booking lifecycle
type BookingService interface {
	Create(ctx context.Context, req *models.BookingRequest) (*models.Booking, error)
	Get(ctx context.Context, bookingID string) (*models.Booking, error)
	List(ctx context.Context) ([]models.Booking, error)
	Assign(ctx context.Context, bookingID string, req *models.AssignRequest) (*models.Booking, error)
	Complete(ctx context.Context, bookingID string) (*models.Booking, error)
	Reject(ctx context.Context, bookingID string) error
}

// FleetService manages drivers and trucks
type FleetService interface {
	ListDrivers(ctx context.Context) ([]models.Driver, error)
	ListTrucks(ctx context.Context) ([]models.Truck, error)
	CreateDriver(ctx context.Context, driver *models.Driver) (*models.Driver, error)
	CreateTruck(ctx context.Context, truck *models.Truck) (*models.Truck, error)
	Delete(ctx context.Context, kind models.AssetKind, assetID string) error
	SetTruckHealth(ctx context.Context, truckID, health string) (*models.Truck, error)
	ResetTruckHealth(ctx context.Context) (int, error)
	SetTruckLocation(ctx context.Context, truckID string, loc *models.Location) (*models.Truck, error)
	Maintenance(req *models.MaintenanceRequest) (*models.MaintenanceResponse, error)
}

// KindParser maps a path segment to an asset kind
type KindParser func(segment string) (models.AssetKind, error)

// Request is a transport-neutral view of an incoming call
type Request struct {
	Params map[string]string // path parameters by name
	Body   []byte
}

// Response is what an operation answers with
type Response struct {
	Status int
	Body   interface{}
}

// Operation serves one route
type Operation func(ctx context.Context, req *Request) (*Response, error)

// Route binds a method and chi-style pattern to an operation
type Route struct {
	Method  string
	Pattern string
	Op      Operation
}

// Handler holds the services behind the API
type Handler struct {
	quotes    QuoteService
	bookings  BookingService
	fleet     FleetService
	parseKind KindParser
}

// NewHandler creates a new API handler
func NewHandler(q QuoteService, b BookingService, f FleetService, parseKind KindParser) *Handler {
	return &Handler{quotes: q, bookings: b, fleet: f, parseKind: parseKind}
}

// Routes returns the route table. Static segments are listed before
// parameterised ones that could shadow them.
func (h *Handler) Routes() []Route {
	return []Route{
		{http.MethodGet, "/health", h.health},

		{http.MethodPost, "/api/ai/quote", h.quote},
		{http.MethodPost, "/api/ai/distance", h.distance},
		{http.MethodPost, "/api/ai/maintenance", h.maintenance},
		{http.MethodGet, "/api/trucks/profiles", h.truckProfiles},

		{http.MethodGet, "/api/bookings", h.listBookings},
		{http.MethodPost, "/api/bookings", h.createBooking},
		{http.MethodGet, "/api/bookings/{bookingId}", h.getBooking},
		{http.MethodDelete, "/api/bookings/{bookingId}", h.rejectBooking},
		{http.MethodPost, "/api/bookings/{bookingId}/assign", h.assignBooking},
		{http.MethodPost, "/api/bookings/{bookingId}/complete", h.completeBooking},

		{http.MethodGet, "/api/assets/drivers", h.listDrivers},
		{http.MethodPost, "/api/assets/drivers", h.createDriver},
		{http.MethodGet, "/api/assets/trucks", h.listTrucks},
		{http.MethodPost, "/api/assets/trucks", h.createTruck},
		{http.MethodPost, "/api/assets/trucks/health/reset", h.resetTruckHealth},
		{http.MethodPatch, "/api/assets/trucks/{assetId}/health", h.setTruckHealth},
		{http.MethodPatch, "/api/assets/trucks/{assetId}/location", h.setTruckLocation},
		{http.MethodDelete, "/api/assets/{kind}/{assetId}", h.deleteAsset},
	}
}

func ok(body interface{}) *Response {
	return &Response{Status: http.StatusOK, Body: body}
}

func created(body interface{}) *Response {
	return &Response{Status: http.StatusCreated, Body: body}
}

// decode parses a JSON body into out. An empty body leaves out untouched.
func decode(req *Request, out interface{}) error {
	if len(strings.TrimSpace(string(req.Body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Body, out); err != nil {
		return errors.ErrInvalidRequest("Invalid request body", err)
	}
	return nil
}

func (h *Handler) health(context.Context, *Request) (*Response, error) {
	return ok(map[string]string{"status": "ok"}), nil
}

func (h *Handler) quote(ctx context.Context, req *Request) (*Response, error) {
	var body models.QuoteRequest
	if err := decode(req, &body); err != nil {
		return nil, err
	}
	q, err := h.quotes.Quote(ctx, &body)
	if err != nil {
		return nil, err
	}
	return ok(q), nil
}

func (h *Handler) distance(ctx context.Context, req *Request) (*Response, error) {
	var body models.DistanceRequest
	if err := decode(req, &body); err != nil {
		return nil, err
	}
	d, err := h.quotes.Distance(ctx, &body)
	if err != nil {
		return nil, err
	}
	return ok(d), nil
}

func (h *Handler) maintenance(_ context.Context, req *Request) (*Response, error) {
	var body models.MaintenanceRequest
	if err := decode(req, &body); err != nil {
		return nil, err
	}
	risk, err := h.fleet.Maintenance(&body)
	if err != nil {
		return nil, err
	}
	return ok(risk), nil
}

func (h *Handler) truckProfiles(context.Context, *Request) (*Response, error) {
	return ok(trucks.All()), nil
}

func (h *Handler) listBookings(ctx context.Context, _ *Request) (*Response, error) {
	bookings, err := h.bookings.List(ctx)
	if err != nil {
		return nil, err
	}
	return ok(bookings), nil
}

func (h *Handler) createBooking(ctx context.Context, req *Request) (*Response, error) {
	var body models.BookingRequest
	if err := decode(req, &body); err != nil {
		return nil, err
	}
	booking, err := h.bookings.Create(ctx, &body)
	if err != nil {
		return nil, err
	}
	return created(booking), nil
}

func (h *Handler) getBooking(ctx context.Context, req *Request) (*Response, error) {
	booking, err := h.bookings.Get(ctx, req.Params["bookingId"])
	if err != nil {
		return nil, err
	}
	return ok(booking), nil
}

func (h *Handler) rejectBooking(ctx context.Context, req *Request) (*Response, error) {
	if err := h.bookings.Reject(ctx, req.Params["bookingId"]); err != nil {
		return nil, err
	}
	return ok(map[string]bool{"ok": true}), nil
}

func (h *Handler) assignBooking(ctx context.Context, req *Request) (*Response, error) {
	var body models.AssignRequest
	if err := decode(req, &body); err != nil {
		return nil, err
	}
	booking, err := h.bookings.Assign(ctx, req.Params["bookingId"], &body)
	if err != nil {
		return nil, err
	}
	return ok(booking), nil
}

func (h *Handler) completeBooking(ctx context.Context, req *Request) (*Response, error) {
	booking, err := h.bookings.Complete(ctx, req.Params["bookingId"])
	if err != nil {
		return nil, err
	}
	return ok(booking), nil
}

func (h *Handler) listDrivers(ctx context.Context, _ *Request) (*Response, error) {
	drivers, err := h.fleet.ListDrivers(ctx)
	if err != nil {
		return nil, err
	}
	return ok(drivers), nil
}

func (h *Handler) createDriver(ctx context.Context, req *Request) (*Response, error) {
	var body models.Driver
	if err := decode(req, &body); err != nil {
		return nil, err
	}
	driver, err := h.fleet.CreateDriver(ctx, &body)
	if err != nil {
		return nil, err
	}
	return created(driver), nil
}

func (h *Handler) listTrucks(ctx context.Context, _ *Request) (*Response, error) {
	trucks, err := h.fleet.ListTrucks(ctx)
	if err != nil {
		return nil, err
	}
	return ok(trucks), nil
}

func (h *Handler) createTruck(ctx context.Context, req *Request) (*Response, error) {
	var body models.Truck
	if err := decode(req, &body); err != nil {
		return nil, err
	}
	truck, err := h.fleet.CreateTruck(ctx, &body)
	if err != nil {
		return nil, err
	}
	return created(truck), nil
}

func (h *Handler) resetTruckHealth(ctx context.Context, _ *Request) (*Response, error) {
	modified, err := h.fleet.ResetTruckHealth(ctx)
	if err != nil {
		return nil, err
	}
	return ok(map[string]interface{}{"ok": true, "modified": modified}), nil
}

func (h *Handler) setTruckHealth(ctx context.Context, req *Request) (*Response, error) {
	var body struct {
		HealthStatus string `json:"healthStatus"`
	}
	if err := decode(req, &body); err != nil {
		return nil, err
	}
	truck, err := h.fleet.SetTruckHealth(ctx, req.Params["assetId"], body.HealthStatus)
	if err != nil {
		return nil, err
	}
	return ok(truck), nil
}

func (h *Handler) setTruckLocation(ctx context.Context, req *Request) (*Response, error) {
	var body *models.Location
	if err := decode(req, &body); err != nil {
		return nil, err
	}
	truck, err := h.fleet.SetTruckLocation(ctx, req.Params["assetId"], body)
	if err != nil {
		return nil, err
	}
	return ok(truck), nil
}

func (h *Handler) deleteAsset(ctx context.Context, req *Request) (*Response, error) {
	kind, err := h.parseKind(req.Params["kind"])
	if err != nil {
		return nil, err
	}
	if err := h.fleet.Delete(ctx, kind, req.Params["assetId"]); err != nil {
		return nil, err
	}
	return ok(map[string]bool{"ok": true}), nil
}

// run executes an operation and renders its result or error as a status
// and JSON body
func run(ctx context.Context, op Operation, req *Request) (int, []byte) {
	resp, err := op(ctx, req)
	if err != nil {
		return renderError(ctx, err)
	}

	body, err := json.Marshal(resp.Body)
	if err != nil {
		return renderError(ctx, errors.ErrInternalServer("Failed to encode response", err))
	}
	return resp.Status, body
}

func renderError(ctx context.Context, err error) (int, []byte) {
	appErr := errors.Normalize(err)
	log := logger.Default().WithContext(ctx)
	fields := logger.Fields{"code": appErr.Code, "error": err.Error()}
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.Error("Request failed", fields)
	} else {
		log.Warn("Request rejected", fields)
	}

	body, _ := json.Marshal(errors.ToErrorResponse(appErr))
	return appErr.StatusCode, body
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET,POST,PATCH,DELETE,OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token,X-Request-ID",
}

func responseHeaders(requestID string) map[string]string {
	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range corsHeaders {
		headers[k] = v
	}
	if requestID != "" {
		headers["X-Request-ID"] = requestID
	}
	return headers
}
