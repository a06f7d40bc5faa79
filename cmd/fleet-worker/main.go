package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/sumit-fleet/fleet-booking/internal/config"
	"github.com/sumit-fleet/fleet-booking/internal/database"
	"github.com/sumit-fleet/fleet-booking/internal/fleet"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", logger.Fields{"error": err.Error()})
		panic(err)
	}

	// Initialize logger
	log := logger.NewFromString(cfg.Logging.Level)
	logger.SetDefault(log)

	// Initialize fleet table client
	fleetDB, err := database.NewFleetClient(cfg.AWS.Region, cfg.Database.FleetTable, cfg.Database.Endpoint)
	if err != nil {
		logger.Error("Failed to create fleet client", logger.Fields{"error": err.Error()})
		panic(err)
	}

	processor := fleet.NewProcessor(fleetDB)

	// Start Lambda
	lambda.Start(processor.HandleSQS)
}
