package queue

import (
	"context"

	"github.com/sumit-fleet/fleet-booking/internal/logger"
	"github.com/sumit-fleet/fleet-booking/internal/models"
)

// Publisher wraps the SQS client with the booking events queue URL
type Publisher struct {
	client   *Client
	queueURL string
}

// NewPublisher creates a new booking event publisher. An empty queue URL
// yields a publisher that drops events.
func NewPublisher(client *Client, queueURL string) *Publisher {
	return &Publisher{
		client:   client,
		queueURL: queueURL,
	}
}

// Publish sends event to the booking events queue
func (p *Publisher) Publish(ctx context.Context, event *models.BookingEvent) error {
	if p == nil || p.client == nil || p.queueURL == "" {
		logger.Debug("Booking events queue not configured, dropping event", logger.Fields{
			"booking_id": event.BookingID,
			"type":       event.Type,
		})
		return nil
	}
	return p.client.SendBookingEvent(ctx, p.queueURL, event)
}
