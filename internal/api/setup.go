package api

import (
	"context"

	"github.com/sumit-fleet/fleet-booking/internal/bookings"
	"github.com/sumit-fleet/fleet-booking/internal/config"
	"github.com/sumit-fleet/fleet-booking/internal/database"
	"github.com/sumit-fleet/fleet-booking/internal/fleet"
	"github.com/sumit-fleet/fleet-booking/internal/geo"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
	"github.com/sumit-fleet/fleet-booking/internal/pricing"
	"github.com/sumit-fleet/fleet-booking/internal/queue"
	"github.com/sumit-fleet/fleet-booking/internal/quotes"
	"github.com/sumit-fleet/fleet-booking/internal/toll"
)

// NewFromConfig wires the production services behind a Handler. The
// returned func releases cache connections.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Handler, func(), error) {
	if cfg.Toll.APIKey == "" && cfg.Toll.SecretName != "" {
		fetch, err := config.NewSecretFetcher(cfg.AWS.Region)
		if err == nil {
			err = config.ResolveTollAPIKey(ctx, cfg, fetch)
		}
		if err != nil {
			logger.Warn("Toll API key unavailable, toll enrichment disabled", logger.Fields{"error": err.Error()})
		}
	}

	bookingDB, err := database.NewBookingClient(cfg.AWS.Region, cfg.Database.BookingsTable, cfg.Database.Endpoint)
	if err != nil {
		return nil, nil, err
	}

	fleetDB, err := database.NewFleetClient(cfg.AWS.Region, cfg.Database.FleetTable, cfg.Database.Endpoint)
	if err != nil {
		return nil, nil, err
	}

	sqsClient, err := queue.NewClient(cfg.AWS.Region, cfg.Queue.Endpoint)
	if err != nil {
		return nil, nil, err
	}
	publisher := queue.NewPublisher(sqsClient, cfg.Queue.BookingEventsQueueURL)

	resolver, closeGeo := geo.NewFromConfig(ctx, cfg.Geo)
	assembler := quotes.NewAssembler(pricing.ParamsFromConfig(cfg.Pricing), cfg.Pricing.Location())
	engine := quotes.NewEngine(resolver, toll.NewClient(cfg.Toll), assembler)

	handler := NewHandler(
		engine,
		bookings.NewService(bookingDB, resolver, publisher, assembler),
		fleet.NewService(fleetDB),
		fleet.ParseKind,
	)

	logger.Info("API handler initialised", logger.Fields{
		"bookings_table": cfg.Database.BookingsTable,
		"fleet_table":    cfg.Database.FleetTable,
		"toll_enabled":   cfg.Toll.APIKey != "",
		"events_queue":   cfg.Queue.BookingEventsQueueURL != "",
	})
	return handler, closeGeo, nil
}
