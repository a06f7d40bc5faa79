package queue

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"

	"github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
	"github.com/sumit-fleet/fleet-booking/internal/models"
)

// Client represents an SQS client
type Client struct {
	svc sqsiface.SQSAPI
}

// NewClient creates a new SQS client
func NewClient(region, endpoint string) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	svc := sqs.New(sess)

	// Override endpoint for local testing
	if endpoint != "" {
		svc.Endpoint = endpoint
	}

	return NewClientWithAPI(svc), nil
}

// NewClientWithAPI wraps an existing SQS API
func NewClientWithAPI(svc sqsiface.SQSAPI) *Client {
	return &Client{svc: svc}
}

// SendBookingEvent sends a booking lifecycle event to the queue
func (c *Client) SendBookingEvent(ctx context.Context, queueURL string, event *models.BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal booking event", logger.Fields{"error": err.Error()})
		return errors.ErrQueueOperation("marshal", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]*sqs.MessageAttributeValue{
			"EventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(event.Type)),
			},
			"BookingID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.BookingID),
			},
		},
	}

	result, err := c.svc.SendMessageWithContext(ctx, input)
	if err != nil {
		logger.Error("Failed to send booking event", logger.Fields{
			"error":      err.Error(),
			"booking_id": event.BookingID,
			"type":       event.Type,
		})
		return errors.ErrQueueOperation("send", err)
	}

	logger.Info("Booking event sent to queue", logger.Fields{
		"booking_id": event.BookingID,
		"type":       event.Type,
		"message_id": aws.StringValue(result.MessageId),
	})
	return nil
}

// DecodeBookingEvent parses a message body produced by SendBookingEvent
func DecodeBookingEvent(body string) (*models.BookingEvent, error) {
	var event models.BookingEvent
	if err := json.Unmarshal([]byte(body), &event); err != nil {
		return nil, errors.ErrQueueOperation("unmarshal", err)
	}
	return &event, nil
}
