package fleet

import (
	"context"
	"sort"
	"strings"
	"time"

	apperrors "github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
	"github.com/sumit-fleet/fleet-booking/internal/models"
	"github.com/sumit-fleet/fleet-booking/internal/validator"
)

// AssetStore persists drivers and trucks
type AssetStore interface {
	StatusStore
	PutDriver(ctx context.Context, driver *models.Driver) error
	PutTruck(ctx context.Context, truck *models.Truck) error
	ListDrivers(ctx context.Context) ([]models.Driver, error)
	ListTrucks(ctx context.Context) ([]models.Truck, error)
	DeleteAsset(ctx context.Context, kind models.AssetKind, assetID string) error
	SetTruckHealth(ctx context.Context, truckID, health, lastMaintenance string) (*models.Truck, error)
	SetTruckLocation(ctx context.Context, truckID string, loc models.Location) (*models.Truck, error)
}

// Service manages fleet assets
type Service struct {
	store AssetStore
	now   func() time.Time
}

// NewService creates a new asset service
func NewService(store AssetStore) *Service {
	return &Service{store: store, now: time.Now}
}

// ParseKind maps a path segment ("drivers", "truck", ...) to an asset kind
func ParseKind(segment string) (models.AssetKind, error) {
	switch strings.ToLower(strings.TrimSpace(segment)) {
	case "driver", "drivers":
		return models.AssetDriver, nil
	case "truck", "trucks":
		return models.AssetTruck, nil
	}
	return "", apperrors.ErrValidation("kind", "must be 'drivers' or 'trucks'")
}

// ListDrivers returns drivers ordered by ID
func (s *Service) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	drivers, err := s.store.ListDrivers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(drivers, func(i, j int) bool { return drivers[i].DriverID < drivers[j].DriverID })
	return drivers, nil
}

// ListTrucks returns trucks ordered by ID
func (s *Service) ListTrucks(ctx context.Context) ([]models.Truck, error) {
	trucks, err := s.store.ListTrucks(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(trucks, func(i, j int) bool { return trucks[i].TruckID < trucks[j].TruckID })
	return trucks, nil
}

// CreateDriver stores a driver, defaulting its status to Available
func (s *Service) CreateDriver(ctx context.Context, driver *models.Driver) (*models.Driver, error) {
	if err := validator.ValidateDriver(driver); err != nil {
		return nil, err
	}
	if driver.Status == "" {
		driver.Status = models.DriverAvailable
	}
	now := s.now().UTC()
	driver.CreatedAt, driver.UpdatedAt = now, now

	if err := s.store.PutDriver(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// CreateTruck stores a truck, defaulting it to Available and in good condition
func (s *Service) CreateTruck(ctx context.Context, truck *models.Truck) (*models.Truck, error) {
	if err := validator.ValidateTruck(truck); err != nil {
		return nil, err
	}
	if truck.Status == "" {
		truck.Status = models.TruckAvailable
	}
	if truck.HealthStatus == "" {
		truck.HealthStatus = models.HealthGood
	}
	now := s.now().UTC()
	truck.CreatedAt, truck.UpdatedAt = now, now

	if err := s.store.PutTruck(ctx, truck); err != nil {
		return nil, err
	}
	return truck, nil
}

// Delete removes a driver or truck
func (s *Service) Delete(ctx context.Context, kind models.AssetKind, assetID string) error {
	if err := validator.ValidateID("assetId", assetID); err != nil {
		return err
	}
	return s.store.DeleteAsset(ctx, kind, assetID)
}

// SetTruckHealth updates a truck's health status. Marking a truck in good
// condition records today as its last maintenance.
func (s *Service) SetTruckHealth(ctx context.Context, truckID, health string) (*models.Truck, error) {
	if err := validator.ValidateID("truckId", truckID); err != nil {
		return nil, err
	}
	if err := validator.ValidateTruckHealth(health); err != nil {
		return nil, err
	}

	var serviced string
	if health == models.HealthGood {
		serviced = s.now().UTC().Format("2006-01-02")
	}
	return s.store.SetTruckHealth(ctx, truckID, health, serviced)
}

// ResetTruckHealth marks every truck in good condition and reports how many
// changed
func (s *Service) ResetTruckHealth(ctx context.Context) (int, error) {
	trucks, err := s.store.ListTrucks(ctx)
	if err != nil {
		return 0, err
	}

	modified := 0
	for _, t := range trucks {
		if t.HealthStatus == models.HealthGood {
			continue
		}
		if _, err := s.SetTruckHealth(ctx, t.TruckID, models.HealthGood); err != nil {
			return modified, err
		}
		modified++
	}

	logger.Info("Truck health reset", logger.Fields{"modified": modified})
	return modified, nil
}

// SetTruckLocation records a truck's GPS position
func (s *Service) SetTruckLocation(ctx context.Context, truckID string, loc *models.Location) (*models.Truck, error) {
	if err := validator.ValidateID("truckId", truckID); err != nil {
		return nil, err
	}
	if err := validator.ValidateLocation(loc); err != nil {
		return nil, err
	}
	return s.store.SetTruckLocation(ctx, truckID, *loc)
}

// Maintenance scores the maintenance risk for the given mileage and age
func (s *Service) Maintenance(req *models.MaintenanceRequest) (*models.MaintenanceResponse, error) {
	if err := validator.ValidateMaintenanceRequest(req); err != nil {
		return nil, err
	}
	return &models.MaintenanceResponse{Risk: MaintenanceRisk(req.Mileage, req.Age)}, nil
}
