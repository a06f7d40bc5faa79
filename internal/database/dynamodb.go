package database

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/aws/aws-sdk-go/service/dynamodb/expression"

	"github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
)

// client is the table handle shared by the bookings and fleet clients
type client struct {
	svc       dynamodbiface.DynamoDBAPI
	tableName string
}

// newDynamoDB creates a DynamoDB service client
func newDynamoDB(region, endpoint string) (dynamodbiface.DynamoDBAPI, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	svc := dynamodb.New(sess)

	// Override endpoint for local testing
	if endpoint != "" {
		svc.Endpoint = endpoint
	}

	return svc, nil
}

// update applies an update expression under a condition and returns the
// item as it looks afterwards. A nil map with a nil error means the
// condition did not hold.
func (c *client) update(
	ctx context.Context,
	key map[string]*dynamodb.AttributeValue,
	update expression.UpdateBuilder,
	cond expression.ConditionBuilder,
) (map[string]*dynamodb.AttributeValue, error) {
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		logger.Error("Failed to build update expression", logger.Fields{"error": err.Error()})
		return nil, errors.ErrDatabaseOperation("build_expression", err)
	}

	result, err := c.svc.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(c.tableName),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              aws.String(dynamodb.ReturnValueAllNew),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, nil
		}
		logger.Error("Failed to update item", logger.Fields{
			"error": err.Error(),
			"table": c.tableName,
		})
		return nil, errors.ErrDatabaseOperation("update", err)
	}

	return result.Attributes, nil
}

// get loads one item into out and reports whether it exists
func (c *client) get(ctx context.Context, key map[string]*dynamodb.AttributeValue, out interface{}) (bool, error) {
	result, err := c.svc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key:       key,
	})
	if err != nil {
		logger.Error("Failed to get item", logger.Fields{"error": err.Error(), "table": c.tableName})
		return false, errors.ErrDatabaseOperation("get", err)
	}

	if result.Item == nil {
		return false, nil
	}

	if err := dynamodbattribute.UnmarshalMap(result.Item, out); err != nil {
		logger.Error("Failed to unmarshal item", logger.Fields{"error": err.Error()})
		return false, errors.ErrDatabaseOperation("unmarshal", err)
	}
	return true, nil
}

func isConditionalCheckFailed(err error) bool {
	if aerr, ok := err.(awserr.Error); ok {
		return aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException
	}
	return false
}

func stringKey(name, value string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		name: {S: aws.String(value)},
	}
}
