// Package bookings runs the booking lifecycle: a booking is priced and
// stored as Pending Assignment, moves In Transit when a driver and truck
// are assigned, and ends Completed or rejected (deleted). Every transition
// is announced on the booking events queue for the fleet worker.
package bookings

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/geo"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
	"github.com/sumit-fleet/fleet-booking/internal/models"
	"github.com/sumit-fleet/fleet-booking/internal/pricing"
	"github.com/sumit-fleet/fleet-booking/internal/quotes"
	"github.com/sumit-fleet/fleet-booking/internal/validator"
)

// Store persists bookings
type Store interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	AssignBooking(ctx context.Context, bookingID, driverID, truckID string, at time.Time) (*models.Booking, error)
	CompleteBooking(ctx context.Context, bookingID string, at time.Time) (*models.Booking, error)
	DeleteBooking(ctx context.Context, bookingID string) (*models.Booking, error)
}

// DistanceResolver turns a pickup/dropoff pair into a road distance
type DistanceResolver interface {
	Resolve(ctx context.Context, q geo.Query) (*geo.Result, error)
}

// EventPublisher announces booking transitions
type EventPublisher interface {
	Publish(ctx context.Context, event *models.BookingEvent) error
}

// Service implements the booking operations
type Service struct {
	store     Store
	distance  DistanceResolver
	events    EventPublisher
	assembler *quotes.Assembler
	now       func() time.Time
	newID     func() string
}

// NewService creates a booking service
func NewService(store Store, distance DistanceResolver, events EventPublisher, assembler *quotes.Assembler) *Service {
	return &Service{
		store:     store,
		distance:  distance,
		events:    events,
		assembler: assembler,
		now:       time.Now,
		newID:     func() string { return "bk_" + uuid.NewString() },
	}
}

// Create prices and stores a new booking
func (s *Service) Create(ctx context.Context, req *models.BookingRequest) (*models.Booking, error) {
	if err := validator.ValidateBookingRequest(req); err != nil {
		return nil, err
	}

	route, err := s.distance.Resolve(ctx, geo.Query{
		Pickup:     req.Pickup,
		Dropoff:    req.Dropoff,
		DistanceKm: req.Distance,
	})
	if err != nil {
		logger.Default().WithContext(ctx).Warn("Booking distance unavailable", logger.Fields{
			"pickup":  req.Pickup,
			"dropoff": req.Dropoff,
			"error":   err.Error(),
		})
		return nil, apperrors.ErrDistanceUnavailable(err)
	}

	preference := strings.TrimSpace(req.TruckPreference)
	q := s.assembler.Assemble(quotes.AssembleInput{
		DistanceKm: route.DistanceKm,
		LoadTons:   req.Load,
		TruckType:  preference,
		Baseline:   preference == "",
		TripDate:   req.TripDate,
	})

	now := s.now().UTC()
	booking := &models.Booking{
		BookingID:     s.newID(),
		Customer:      strings.TrimSpace(req.Customer),
		Phone:         strings.TrimSpace(req.Phone),
		Email:         strings.TrimSpace(req.Email),
		Pickup:        strings.TrimSpace(req.Pickup),
		Dropoff:       strings.TrimSpace(req.Dropoff),
		Load:          req.Load,
		Distance:      route.DistanceKm,
		Status:        models.BookingPendingAssignment,
		Quote:         q.Price,
		PredictedTime: math.Round(q.Time*10) / 10,
		Date:          s.bookingDate(req.TripDate, now),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if q.TruckProfile != nil {
		booking.TruckPreference = q.TruckProfile.Key
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, &models.BookingEvent{
		Type:       models.EventBookingCreated,
		BookingID:  booking.BookingID,
		Status:     booking.Status,
		DistanceKm: booking.Distance,
		Quote:      booking.Quote,
	})
	return booking, nil
}

// bookingDate is the trip date as YYYY-MM-DD, or today when none parses
func (s *Service) bookingDate(tripDate string, now time.Time) string {
	loc := s.assembler.Location
	if loc == nil {
		loc = time.UTC
	}
	if start, ok := pricing.ParseTripDate(tripDate, loc); ok {
		return start.Format("2006-01-02")
	}
	return now.In(loc).Format("2006-01-02")
}

// Get returns one booking
func (s *Service) Get(ctx context.Context, bookingID string) (*models.Booking, error) {
	if err := validator.ValidateID("bookingId", bookingID); err != nil {
		return nil, err
	}
	return s.store.GetBooking(ctx, bookingID)
}

// List returns all bookings, newest first
func (s *Service) List(ctx context.Context) ([]models.Booking, error) {
	return s.store.ListBookings(ctx)
}

// Assign puts a pending booking in transit with a driver and truck
func (s *Service) Assign(ctx context.Context, bookingID string, req *models.AssignRequest) (*models.Booking, error) {
	if err := validator.ValidateID("bookingId", bookingID); err != nil {
		return nil, err
	}
	if err := validator.ValidateAssignRequest(req); err != nil {
		return nil, err
	}

	booking, err := s.store.AssignBooking(ctx, bookingID, req.DriverID, req.TruckID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &models.BookingEvent{
		Type:       models.EventBookingAssigned,
		BookingID:  booking.BookingID,
		Status:     booking.Status,
		DriverID:   req.DriverID,
		TruckID:    req.TruckID,
		DistanceKm: booking.Distance,
	})
	return booking, nil
}

// Complete finishes an in-transit booking. The event carries the driver,
// truck and distance the booking held before they were cleared.
func (s *Service) Complete(ctx context.Context, bookingID string) (*models.Booking, error) {
	if err := validator.ValidateID("bookingId", bookingID); err != nil {
		return nil, err
	}

	current, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.store.CompleteBooking(ctx, bookingID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &models.BookingEvent{
		Type:       models.EventBookingCompleted,
		BookingID:  booking.BookingID,
		Status:     booking.Status,
		DriverID:   current.DriverID,
		TruckID:    current.TruckID,
		DistanceKm: current.Distance,
	})
	return booking, nil
}

// Reject deletes a booking
func (s *Service) Reject(ctx context.Context, bookingID string) error {
	if err := validator.ValidateID("bookingId", bookingID); err != nil {
		return err
	}

	booking, err := s.store.DeleteBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	s.publish(ctx, &models.BookingEvent{
		Type:      models.EventBookingRejected,
		BookingID: booking.BookingID,
		Status:    booking.Status,
		DriverID:  booking.DriverID,
		TruckID:   booking.TruckID,
	})
	return nil
}

// publish never fails the caller; the booking is already stored
func (s *Service) publish(ctx context.Context, event *models.BookingEvent) {
	if s.events == nil {
		return
	}
	event.Timestamp = s.now().UTC()
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Default().WithContext(ctx).Error("Failed to publish booking event", logger.Fields{
			"booking_id": event.BookingID,
			"type":       event.Type,
			"error":      err.Error(),
		})
	}
}
