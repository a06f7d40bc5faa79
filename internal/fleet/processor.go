// Package fleet keeps driver and truck records in step with bookings and
// scores trucks for maintenance.
package fleet

import (
	"context"
	"errors"

	apperrors "github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
	"github.com/sumit-fleet/fleet-booking/internal/models"
)

// StatusStore is the part of the asset store the processor writes to
type StatusStore interface {
	UpdateStatus(ctx context.Context, kind models.AssetKind, assetID, status string) error
	AddTruckMileage(ctx context.Context, truckID string, km float64) (float64, error)
}

// Processor applies booking events to the fleet
type Processor struct {
	store StatusStore
}

// NewProcessor creates a new fleet event processor
func NewProcessor(store StatusStore) *Processor {
	return &Processor{store: store}
}

// Handle applies one booking event. Assets that no longer exist are
// skipped; other failures are returned so the message is retried.
func (p *Processor) Handle(ctx context.Context, event *models.BookingEvent) error {
	log := logger.Default().WithContext(ctx).With(logger.Fields{
		"booking_id": event.BookingID,
		"type":       event.Type,
	})

	var errs []error
	switch event.Type {
	case models.EventBookingAssigned:
		errs = append(errs,
			p.setStatus(ctx, log, models.AssetDriver, event.DriverID, models.DriverOnRoute),
			p.setStatus(ctx, log, models.AssetTruck, event.TruckID, models.TruckInUse),
		)

	case models.EventBookingCompleted:
		errs = append(errs,
			p.setStatus(ctx, log, models.AssetDriver, event.DriverID, models.DriverAvailable),
			p.setStatus(ctx, log, models.AssetTruck, event.TruckID, models.TruckAvailable),
			p.addMileage(ctx, log, event.TruckID, event.DistanceKm),
		)

	default:
		log.Debug("Event does not affect the fleet")
		return nil
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	log.Info("Fleet updated for booking event")
	return nil
}

func (p *Processor) setStatus(ctx context.Context, log *logger.Logger, kind models.AssetKind, id, status string) error {
	if id == "" {
		return nil
	}
	err := p.store.UpdateStatus(ctx, kind, id, status)
	return skipMissing(log, kind, id, err)
}

func (p *Processor) addMileage(ctx context.Context, log *logger.Logger, truckID string, km float64) error {
	if truckID == "" || km <= 0 {
		return nil
	}
	total, err := p.store.AddTruckMileage(ctx, truckID, km)
	if err != nil {
		return skipMissing(log, models.AssetTruck, truckID, err)
	}
	log.Debug("Truck mileage updated", logger.Fields{"truck_id": truckID, "mileage": total})
	return nil
}

func skipMissing(log *logger.Logger, kind models.AssetKind, id string, err error) error {
	if err != nil && apperrors.HasCode(err, apperrors.CodeAssetNotFound) {
		log.Warn("Asset referenced by booking not found", logger.Fields{"kind": kind, "asset_id": id})
		return nil
	}
	return err
}
