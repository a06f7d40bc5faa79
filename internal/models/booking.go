package models

import "time"

// BookingStatus represents the current state of a booking
type BookingStatus string

const (
	BookingPendingAssignment BookingStatus = "Pending Assignment"
	BookingInTransit         BookingStatus = "In Transit"
	BookingCompleted         BookingStatus = "Completed"
)

// Booking represents a freight booking record
type Booking struct {
	BookingID       string        `json:"bookingId" dynamodbav:"booking_id"`
	Customer        string        `json:"customer" dynamodbav:"customer"`
	Phone           string        `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	Email           string        `json:"email,omitempty" dynamodbav:"email,omitempty"`
	Pickup          string        `json:"pickup" dynamodbav:"pickup"`
	Dropoff         string        `json:"dropoff" dynamodbav:"dropoff"`
	Load            float64       `json:"load" dynamodbav:"load"`
	Distance        float64       `json:"distance" dynamodbav:"distance"`
	Status          BookingStatus `json:"status" dynamodbav:"status"`
	Quote           float64       `json:"quote" dynamodbav:"quote"`
	PredictedTime   float64       `json:"predictedTime" dynamodbav:"predicted_time"` // hours, 1 decimal
	DriverID        string        `json:"driverId,omitempty" dynamodbav:"driver_id,omitempty"`
	TruckID         string        `json:"truckId,omitempty" dynamodbav:"truck_id,omitempty"`
	TruckPreference string        `json:"truckPreference,omitempty" dynamodbav:"truck_preference,omitempty"`
	Date            string        `json:"date" dynamodbav:"date"`
	CreatedAt       time.Time     `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" dynamodbav:"updated_at"`
	AssignedAt      *time.Time    `json:"assignedAt,omitempty" dynamodbav:"assigned_at,omitempty"`
	CompletedAt     *time.Time    `json:"completedAt,omitempty" dynamodbav:"completed_at,omitempty"`
}

// BookingRequest is the incoming booking creation request
type BookingRequest struct {
	Customer        string  `json:"customer"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email"`
	Pickup          string  `json:"pickup"`
	Dropoff         string  `json:"dropoff"`
	Load            float64 `json:"load"`
	Distance        float64 `json:"distance"`
	TripDate        string  `json:"tripDate"`
	TruckPreference string  `json:"truckPreference"`
}

// AssignRequest assigns a driver and truck to a booking
type AssignRequest struct {
	DriverID string `json:"driverId"`
	TruckID  string `json:"truckId"`
}
