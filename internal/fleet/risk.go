package fleet

import "math"

// Maintenance risk weights: mileage saturates at 500,000 km and age at ten
// years, giving a score between 0 and 55.
const (
	riskMileageUnitKm = 50000.0
	riskMileageCap    = 10.0
	riskMileageWeight = 5.0
	riskAgeCapYears   = 10.0
	riskAgeWeight     = 0.5
)

// MaintenanceRisk scores how urgently a truck needs servicing
func MaintenanceRisk(mileageKm, ageYears float64) int {
	mileageRisk := math.Min(riskMileageCap, mileageKm/riskMileageUnitKm) * riskMileageWeight
	ageRisk := math.Min(riskAgeCapYears, ageYears) * riskAgeWeight
	return int(math.Round(mileageRisk + ageRisk))
}
