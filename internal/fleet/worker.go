package fleet

import (
	"context"

	"github.com/aws/aws-lambda-go/events"

	"github.com/sumit-fleet/fleet-booking/internal/logger"
	"github.com/sumit-fleet/fleet-booking/internal/queue"
)

// HandleSQS applies a batch of booking events. Messages that fail are
// reported back individually so only they are redelivered; messages that
// cannot be decoded are dropped.
func (p *Processor) HandleSQS(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	logger.Info("Received SQS event", logger.Fields{
		"record_count": len(sqsEvent.Records),
	})

	resp := events.SQSEventResponse{BatchItemFailures: []events.SQSBatchItemFailure{}}
	for _, record := range sqsEvent.Records {
		ctx := logger.ContextWithRequestID(ctx, record.MessageId)

		event, err := queue.DecodeBookingEvent(record.Body)
		if err != nil {
			logger.Error("Dropping undecodable booking event", logger.Fields{
				"error":      err.Error(),
				"message_id": record.MessageId,
			})
			continue
		}

		if err := p.Handle(ctx, event); err != nil {
			logger.Error("Failed to process record", logger.Fields{
				"error":      err.Error(),
				"message_id": record.MessageId,
				"booking_id": event.BookingID,
			})
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: record.MessageId,
			})
		}
	}

	return resp, nil
}
