package validator

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/models"
)

const (
	maxPlaceLength = 200
	maxLoadTons    = 1000
	maxDistanceKm  = 50000
	maxIDLength    = 64
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	idPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ValidateQuoteRequest validates a quote request. Pickup and dropoff are
// only required when no positive distance is supplied. Unknown truck types
// and unparsable trip dates are not errors.
func ValidateQuoteRequest(req *models.QuoteRequest) error {
	if err := validateLoad(req.Load); err != nil {
		return err
	}
	if err := validateDistance(req.Distance); err != nil {
		return err
	}
	return validatePlaces(req.Pickup, req.Dropoff, req.Distance > 0)
}

// ValidateDistanceRequest validates a distance-only request
func ValidateDistanceRequest(req *models.DistanceRequest) error {
	return validatePlaces(req.Pickup, req.Dropoff, false)
}

// ValidateBookingRequest validates a booking creation request
func ValidateBookingRequest(req *models.BookingRequest) error {
	if strings.TrimSpace(req.Customer) == "" {
		return errors.ErrValidation("customer", "is required")
	}
	if req.Email != "" && !emailPattern.MatchString(req.Email) {
		return errors.ErrValidation("email", "is not a valid email address")
	}
	if err := validateLoad(req.Load); err != nil {
		return err
	}
	if err := validateDistance(req.Distance); err != nil {
		return err
	}
	// Bookings keep their route text even when a distance is supplied
	return validatePlaces(req.Pickup, req.Dropoff, false)
}

// ValidateAssignRequest validates a driver/truck assignment
func ValidateAssignRequest(req *models.AssignRequest) error {
	if err := ValidateID("driverId", req.DriverID); err != nil {
		return err
	}
	return ValidateID("truckId", req.TruckID)
}

// ValidateMaintenanceRequest validates maintenance risk inputs
func ValidateMaintenanceRequest(req *models.MaintenanceRequest) error {
	if !finite(req.Mileage) || req.Mileage < 0 {
		return errors.ErrValidation("mileage", "must be a non-negative number")
	}
	if !finite(req.Age) || req.Age < 0 {
		return errors.ErrValidation("age", "must be a non-negative number")
	}
	return nil
}

// ValidateDriver validates a driver before it is stored
func ValidateDriver(d *models.Driver) error {
	if err := ValidateID("driverId", d.DriverID); err != nil {
		return err
	}
	if strings.TrimSpace(d.Name) == "" {
		return errors.ErrValidation("name", "is required")
	}
	if d.Status != "" && d.Status != models.DriverAvailable && d.Status != models.DriverOnRoute {
		return errors.ErrValidation("status", fmt.Sprintf("'%s' is not a driver status", d.Status))
	}
	return nil
}

// ValidateTruck validates a truck before it is stored
func ValidateTruck(t *models.Truck) error {
	if err := ValidateID("truckId", t.TruckID); err != nil {
		return err
	}
	if !finite(t.Mileage) || t.Mileage < 0 {
		return errors.ErrValidation("mileage", "must be a non-negative number")
	}
	if !finite(t.Age) || t.Age < 0 {
		return errors.ErrValidation("age", "must be a non-negative number")
	}
	if t.Status != "" && t.Status != models.TruckAvailable && t.Status != models.TruckInUse {
		return errors.ErrValidation("status", fmt.Sprintf("'%s' is not a truck status", t.Status))
	}
	if t.HealthStatus != "" {
		return ValidateTruckHealth(t.HealthStatus)
	}
	return nil
}

// ValidateTruckHealth checks a health status value
func ValidateTruckHealth(status string) error {
	if status != models.HealthGood && status != models.HealthNeedsMaintenance {
		return errors.ErrValidation("healthStatus", fmt.Sprintf("must be '%s' or '%s'", models.HealthGood, models.HealthNeedsMaintenance))
	}
	return nil
}

// ValidateLocation checks a GPS fix
func ValidateLocation(loc *models.Location) error {
	if loc == nil || !finite(loc.Lat) || !finite(loc.Lng) {
		return errors.ErrValidation("location", "lat and lng must be numbers")
	}
	if loc.Lat < -90 || loc.Lat > 90 || loc.Lng < -180 || loc.Lng > 180 {
		return errors.ErrValidation("location", "lat/lng out of range")
	}
	return nil
}

// ValidateID validates a path or body identifier
func ValidateID(field, id string) error {
	if id == "" {
		return errors.ErrValidation(field, "is required")
	}
	if len(id) > maxIDLength || !idPattern.MatchString(id) {
		return errors.ErrValidation(field, "must be at most 64 alphanumeric characters, hyphens, or underscores")
	}
	return nil
}

func validatePlaces(pickup, dropoff string, optional bool) error {
	for _, f := range []struct{ name, value string }{{"pickup", pickup}, {"dropoff", dropoff}} {
		v := strings.TrimSpace(f.value)
		if v == "" && !optional {
			return errors.ErrValidation(f.name, "is required")
		}
		if len(v) > maxPlaceLength {
			return errors.ErrValidation(f.name, fmt.Sprintf("must be at most %d characters", maxPlaceLength))
		}
	}
	return nil
}

func validateLoad(load float64) error {
	if !finite(load) {
		return errors.ErrValidation("load", "must be a number")
	}
	if load < 0 {
		return errors.ErrValidation("load", "must not be negative")
	}
	if load > maxLoadTons {
		return errors.ErrValidation("load", "exceeds maximum allowed load")
	}
	return nil
}

func validateDistance(km float64) error {
	if !finite(km) {
		return errors.ErrValidation("distance", "must be a number")
	}
	if km > maxDistanceKm {
		return errors.ErrValidation("distance", fmt.Sprintf("must be at most %d km", maxDistanceKm))
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
