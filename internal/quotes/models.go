package quotes

import (
	"github.com/sumit-fleet/fleet-booking/internal/geo"
	"github.com/sumit-fleet/fleet-booking/internal/toll"
	"github.com/sumit-fleet/fleet-booking/internal/trucks"
)

// Quote is the priced, time-bounded answer to one quote request
type Quote struct {
	Distance     float64         `json:"distance"` // km
	Fuel         float64         `json:"fuel"`
	Tolls        float64         `json:"tolls"`
	Opex         float64         `json:"opex"`
	BaseSubtotal float64         `json:"baseSubtotal"`
	Premium      float64         `json:"premium"`
	PremiumPct   float64         `json:"premiumPct"`
	Confidence   float64         `json:"confidence"`
	MarginPct    float64         `json:"marginPct"`
	MarginValue  float64         `json:"-"`
	Price        float64         `json:"quote"`
	Time         float64         `json:"time"` // hours
	EtaDate      string          `json:"etaDate"`
	Notes        Notes           `json:"notes"`
	TollSummary  *toll.Summary   `json:"tollSummary"`
	TruckProfile *trucks.Profile `json:"truckProfile,omitempty"`
	Enrichment   Enrichment      `json:"enrichment"`
}

// Notes are advisory strings attached to a quote
type Notes struct {
	NoEntry string `json:"noEntry"`
}

// TollStatus says what happened to toll enrichment
type TollStatus string

const (
	TollDisabled TollStatus = "disabled" // no credential configured
	TollSkipped  TollStatus = "skipped"  // pickup or dropoff text missing
	TollApplied  TollStatus = "applied"
	TollDegraded TollStatus = "degraded" // provider call failed; model estimates used
)

// Enrichment records which optional inputs fed the quote and which ones
// degraded. A quote with degradations is still a valid quote.
type Enrichment struct {
	TollStatus   TollStatus    `json:"tollStatus"`
	RouteSource  geo.Source    `json:"routeSource"`
	Degradations []Degradation `json:"degradations"`
}

// Degradation is a recovered failure in an optional path
type Degradation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Degraded reports whether any optional enrichment failed
func (e Enrichment) Degraded() bool {
	return len(e.Degradations) > 0
}

// HasDegradation reports whether a degradation with code was recorded
func (e Enrichment) HasDegradation(code string) bool {
	for _, d := range e.Degradations {
		if d.Code == code {
			return true
		}
	}
	return false
}

// DistanceResponse is the result of a distance-only lookup
type DistanceResponse struct {
	Distance float64          `json:"distance"`
	From     *geo.Coordinates `json:"from,omitempty"`
	To       *geo.Coordinates `json:"to,omitempty"`
	Source   geo.Source       `json:"source"`
}
