package database

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/aws/aws-sdk-go/service/dynamodb/expression"

	"github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
	"github.com/sumit-fleet/fleet-booking/internal/models"
)

const bookingKey = "booking_id"

// BookingClient handles booking storage operations
type BookingClient struct {
	client
}

// NewBookingClient creates a new bookings table client
func NewBookingClient(region, tableName, endpoint string) (*BookingClient, error) {
	svc, err := newDynamoDB(region, endpoint)
	if err != nil {
		return nil, err
	}
	return NewBookingClientWithAPI(svc, tableName), nil
}

// NewBookingClientWithAPI wraps an existing DynamoDB API
func NewBookingClientWithAPI(svc dynamodbiface.DynamoDBAPI, tableName string) *BookingClient {
	return &BookingClient{client{svc: svc, tableName: tableName}}
}

// CreateBooking stores a new booking. The booking ID must not exist yet.
func (c *BookingClient) CreateBooking(ctx context.Context, booking *models.Booking) error {
	av, err := dynamodbattribute.MarshalMap(booking)
	if err != nil {
		logger.Error("Failed to marshal booking", logger.Fields{"error": err.Error()})
		return errors.ErrDatabaseOperation("marshal", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(c.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(booking_id)"),
	}

	if _, err := c.svc.PutItemWithContext(ctx, input); err != nil {
		logger.Error("Failed to create booking", logger.Fields{
			"error":      err.Error(),
			"booking_id": booking.BookingID,
		})
		return errors.ErrDatabaseOperation("create", err)
	}

	logger.Info("Booking created", logger.Fields{
		"booking_id": booking.BookingID,
		"quote":      booking.Quote,
	})
	return nil
}

// GetBooking retrieves a booking by its ID
func (c *BookingClient) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	found, err := c.get(ctx, stringKey(bookingKey, bookingID), &booking)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.ErrBookingNotFound(bookingID)
	}
	return &booking, nil
}

// ListBookings returns every booking, newest first
func (c *BookingClient) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var items []map[string]*dynamodb.AttributeValue
	err := c.svc.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName: aws.String(c.tableName),
	}, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		items = append(items, page.Items...)
		return true
	})
	if err != nil {
		logger.Error("Failed to scan bookings", logger.Fields{"error": err.Error()})
		return nil, errors.ErrDatabaseOperation("scan", err)
	}

	bookings := []models.Booking{}
	if len(items) == 0 {
		return bookings, nil
	}
	if err := dynamodbattribute.UnmarshalListOfMaps(items, &bookings); err != nil {
		logger.Error("Failed to unmarshal bookings", logger.Fields{"error": err.Error()})
		return nil, errors.ErrDatabaseOperation("unmarshal", err)
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

// AssignBooking moves a pending booking in transit with a driver and truck
func (c *BookingClient) AssignBooking(ctx context.Context, bookingID, driverID, truckID string, at time.Time) (*models.Booking, error) {
	update := expression.Set(expression.Name("status"), expression.Value(models.BookingInTransit)).
		Set(expression.Name("driver_id"), expression.Value(driverID)).
		Set(expression.Name("truck_id"), expression.Value(truckID)).
		Set(expression.Name("assigned_at"), expression.Value(at)).
		Set(expression.Name("updated_at"), expression.Value(at))

	return c.transition(ctx, bookingID, models.BookingPendingAssignment, models.BookingInTransit, update)
}

// CompleteBooking marks an in-transit booking completed and releases its
// driver and truck
func (c *BookingClient) CompleteBooking(ctx context.Context, bookingID string, at time.Time) (*models.Booking, error) {
	update := expression.Set(expression.Name("status"), expression.Value(models.BookingCompleted)).
		Set(expression.Name("completed_at"), expression.Value(at)).
		Set(expression.Name("updated_at"), expression.Value(at)).
		Remove(expression.Name("driver_id")).
		Remove(expression.Name("truck_id"))

	return c.transition(ctx, bookingID, models.BookingInTransit, models.BookingCompleted, update)
}

func (c *BookingClient) transition(
	ctx context.Context,
	bookingID string,
	from, to models.BookingStatus,
	update expression.UpdateBuilder,
) (*models.Booking, error) {
	cond := expression.AttributeExists(expression.Name(bookingKey)).
		And(expression.Name("status").Equal(expression.Value(from)))

	attrs, err := c.update(ctx, stringKey(bookingKey, bookingID), update, cond)
	if err != nil {
		return nil, err
	}

	if attrs == nil {
		// Either the booking is gone or it is in another state
		current, err := c.GetBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		return nil, errors.ErrInvalidTransition(bookingID, string(current.Status), string(to))
	}

	var booking models.Booking
	if err := dynamodbattribute.UnmarshalMap(attrs, &booking); err != nil {
		logger.Error("Failed to unmarshal booking", logger.Fields{"error": err.Error()})
		return nil, errors.ErrDatabaseOperation("unmarshal", err)
	}

	logger.Info("Booking status updated", logger.Fields{
		"booking_id": bookingID,
		"from":       from,
		"status":     to,
	})
	return &booking, nil
}

// DeleteBooking removes a booking and returns what was stored
func (c *BookingClient) DeleteBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	result, err := c.svc.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(c.tableName),
		Key:                 stringKey(bookingKey, bookingID),
		ConditionExpression: aws.String("attribute_exists(booking_id)"),
		ReturnValues:        aws.String(dynamodb.ReturnValueAllOld),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, errors.ErrBookingNotFound(bookingID)
		}
		logger.Error("Failed to delete booking", logger.Fields{"error": err.Error(), "booking_id": bookingID})
		return nil, errors.ErrDatabaseOperation("delete", err)
	}

	var booking models.Booking
	if err := dynamodbattribute.UnmarshalMap(result.Attributes, &booking); err != nil {
		return nil, errors.ErrDatabaseOperation("unmarshal", err)
	}

	logger.Info("Booking deleted", logger.Fields{"booking_id": bookingID})
	return &booking, nil
}
