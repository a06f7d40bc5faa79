package models

import "time"

// BookingEventType names a booking lifecycle transition
type BookingEventType string

const (
	EventBookingCreated   BookingEventType = "booking.created"
	EventBookingAssigned  BookingEventType = "booking.assigned"
	EventBookingCompleted BookingEventType = "booking.completed"
	EventBookingRejected  BookingEventType = "booking.rejected"
)

// BookingEvent is the message published to the booking events queue
type BookingEvent struct {
	Type       BookingEventType `json:"type"`
	BookingID  string           `json:"booking_id"`
	Status     BookingStatus    `json:"status,omitempty"`
	DriverID   string           `json:"driver_id,omitempty"`
	TruckID    string           `json:"truck_id,omitempty"`
	DistanceKm float64          `json:"distance_km,omitempty"`
	Quote      float64          `json:"quote,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}
