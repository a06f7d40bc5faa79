package models

import "time"

// AssetKind partitions the fleet table
type AssetKind string

const (
	AssetDriver AssetKind = "driver"
	AssetTruck  AssetKind = "truck"
)

// DriverStatus values
const (
	DriverAvailable = "Available"
	DriverOnRoute   = "On Route"
)

// TruckStatus values
const (
	TruckAvailable = "Available"
	TruckInUse     = "In Use"
)

// TruckHealth values
const (
	HealthGood             = "Good Condition"
	HealthNeedsMaintenance = "Needs Maintenance"
)

// Driver is a fleet driver
type Driver struct {
	DriverID   string    `json:"driverId" dynamodbav:"asset_id"`
	Kind       AssetKind `json:"-" dynamodbav:"kind"`
	Name       string    `json:"name" dynamodbav:"name"`
	License    string    `json:"license,omitempty" dynamodbav:"license,omitempty"`
	Efficiency float64   `json:"efficiency" dynamodbav:"efficiency"`
	Status     string    `json:"status" dynamodbav:"status"`
	DLExpiry   string    `json:"dlExpiry,omitempty" dynamodbav:"dl_expiry,omitempty"`
	MedExpiry  string    `json:"medExpiry,omitempty" dynamodbav:"med_expiry,omitempty"`
	CreatedAt  time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// Location is a last-known GPS fix
type Location struct {
	Lat float64 `json:"lat" dynamodbav:"lat"`
	Lng float64 `json:"lng" dynamodbav:"lng"`
}

// Truck is a fleet vehicle
type Truck struct {
	TruckID         string    `json:"truckId" dynamodbav:"asset_id"`
	Kind            AssetKind `json:"-" dynamodbav:"kind"`
	Make            string    `json:"make,omitempty" dynamodbav:"make,omitempty"`
	Model           string    `json:"model,omitempty" dynamodbav:"model,omitempty"`
	ModelYear       int       `json:"modelYear,omitempty" dynamodbav:"model_year,omitempty"`
	Reg             string    `json:"reg,omitempty" dynamodbav:"reg,omitempty"`
	TruckType       string    `json:"truckType,omitempty" dynamodbav:"truck_type,omitempty"`
	Mileage         float64   `json:"mileage" dynamodbav:"mileage"` // km on the odometer
	Age             float64   `json:"age" dynamodbav:"age"`         // years
	Capacity        float64   `json:"capacity,omitempty" dynamodbav:"capacity,omitempty"`
	Status          string    `json:"status" dynamodbav:"status"`
	HealthStatus    string    `json:"healthStatus" dynamodbav:"health_status"`
	LastMaintenance string    `json:"lastMaintenance,omitempty" dynamodbav:"last_maintenance,omitempty"`
	Location        *Location `json:"location,omitempty" dynamodbav:"location,omitempty"`
	CreatedAt       time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}
