package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/sumit-fleet/fleet-booking/internal/api"
	"github.com/sumit-fleet/fleet-booking/internal/config"
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

	// Create handler; cache connections live as long as the execution environment
	handler, _, err := api.NewFromConfig(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to create handler", logger.Fields{"error": err.Error()})
		panic(err)
	}

	// Start Lambda
	lambda.Start(handler.HandleAPIGateway)
}
