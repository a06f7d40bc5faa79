package models

// QuoteRequest is the incoming instant-quote request
type QuoteRequest struct {
	Pickup    string  `json:"pickup"`
	Dropoff   string  `json:"dropoff"`
	Load      float64 `json:"load"`              // tons
	TripDate  string  `json:"tripDate,omitempty"` // YYYY-MM-DD
	TruckType string  `json:"truckType,omitempty"`
	Distance  float64 `json:"distance,omitempty"` // km, skips routing when positive
}

// DistanceRequest is the incoming distance-only request
type DistanceRequest struct {
	Pickup  string `json:"pickup"`
	Dropoff string `json:"dropoff"`
}

// MaintenanceRequest asks for a truck's maintenance risk score
type MaintenanceRequest struct {
	Mileage float64 `json:"mileage"`
	Age     float64 `json:"age"`
}

// MaintenanceResponse carries the maintenance risk score (0 to 55)
type MaintenanceResponse struct {
	Risk int `json:"risk"`
}
