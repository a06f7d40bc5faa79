package database

import (
	"context"
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

// FleetClient stores drivers and trucks in one table partitioned by kind
// (hash key "kind", range key "asset_id")
type FleetClient struct {
	client
	now func() time.Time
}

// NewFleetClient creates a new fleet table client
func NewFleetClient(region, tableName, endpoint string) (*FleetClient, error) {
	svc, err := newDynamoDB(region, endpoint)
	if err != nil {
		return nil, err
	}
	return NewFleetClientWithAPI(svc, tableName), nil
}

// NewFleetClientWithAPI wraps an existing DynamoDB API
func NewFleetClientWithAPI(svc dynamodbiface.DynamoDBAPI, tableName string) *FleetClient {
	return &FleetClient{client: client{svc: svc, tableName: tableName}, now: time.Now}
}

func assetKey(kind models.AssetKind, assetID string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"kind":     {S: aws.String(string(kind))},
		"asset_id": {S: aws.String(assetID)},
	}
}

// PutDriver creates or replaces a driver
func (c *FleetClient) PutDriver(ctx context.Context, driver *models.Driver) error {
	driver.Kind = models.AssetDriver
	return c.put(ctx, driver.Kind, driver.DriverID, driver)
}

// PutTruck creates or replaces a truck
func (c *FleetClient) PutTruck(ctx context.Context, truck *models.Truck) error {
	truck.Kind = models.AssetTruck
	return c.put(ctx, truck.Kind, truck.TruckID, truck)
}

func (c *FleetClient) put(ctx context.Context, kind models.AssetKind, assetID string, item interface{}) error {
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		logger.Error("Failed to marshal asset", logger.Fields{"error": err.Error()})
		return errors.ErrDatabaseOperation("marshal", err)
	}

	_, err = c.svc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      av,
	})
	if err != nil {
		logger.Error("Failed to put asset", logger.Fields{
			"error":    err.Error(),
			"kind":     kind,
			"asset_id": assetID,
		})
		return errors.ErrDatabaseOperation("put", err)
	}

	logger.Info("Asset saved", logger.Fields{"kind": kind, "asset_id": assetID})
	return nil
}

// ListDrivers returns all drivers
func (c *FleetClient) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	drivers := []models.Driver{}
	if err := c.query(ctx, models.AssetDriver, &drivers); err != nil {
		return nil, err
	}
	return drivers, nil
}

// ListTrucks returns all trucks
func (c *FleetClient) ListTrucks(ctx context.Context) ([]models.Truck, error) {
	trucks := []models.Truck{}
	if err := c.query(ctx, models.AssetTruck, &trucks); err != nil {
		return nil, err
	}
	return trucks, nil
}

func (c *FleetClient) query(ctx context.Context, kind models.AssetKind, out interface{}) error {
	keyCond := expression.Key("kind").Equal(expression.Value(string(kind)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return errors.ErrDatabaseOperation("build_expression", err)
	}

	var items []map[string]*dynamodb.AttributeValue
	err = c.svc.QueryPagesWithContext(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(c.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}, func(page *dynamodb.QueryOutput, lastPage bool) bool {
		items = append(items, page.Items...)
		return true
	})
	if err != nil {
		logger.Error("Failed to query assets", logger.Fields{"error": err.Error(), "kind": kind})
		return errors.ErrDatabaseOperation("query", err)
	}

	if len(items) == 0 {
		return nil
	}
	if err := dynamodbattribute.UnmarshalListOfMaps(items, out); err != nil {
		logger.Error("Failed to unmarshal assets", logger.Fields{"error": err.Error()})
		return errors.ErrDatabaseOperation("unmarshal", err)
	}
	return nil
}

// GetDriver retrieves a driver by ID
func (c *FleetClient) GetDriver(ctx context.Context, driverID string) (*models.Driver, error) {
	var driver models.Driver
	found, err := c.get(ctx, assetKey(models.AssetDriver, driverID), &driver)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.ErrAssetNotFound(string(models.AssetDriver), driverID)
	}
	return &driver, nil
}

// GetTruck retrieves a truck by ID
func (c *FleetClient) GetTruck(ctx context.Context, truckID string) (*models.Truck, error) {
	var truck models.Truck
	found, err := c.get(ctx, assetKey(models.AssetTruck, truckID), &truck)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.ErrAssetNotFound(string(models.AssetTruck), truckID)
	}
	return &truck, nil
}

// DeleteAsset removes a driver or truck
func (c *FleetClient) DeleteAsset(ctx context.Context, kind models.AssetKind, assetID string) error {
	_, err := c.svc.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(c.tableName),
		Key:                 assetKey(kind, assetID),
		ConditionExpression: aws.String("attribute_exists(asset_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return errors.ErrAssetNotFound(string(kind), assetID)
		}
		logger.Error("Failed to delete asset", logger.Fields{"error": err.Error(), "asset_id": assetID})
		return errors.ErrDatabaseOperation("delete", err)
	}

	logger.Info("Asset deleted", logger.Fields{"kind": kind, "asset_id": assetID})
	return nil
}

// UpdateStatus sets the status of an existing driver or truck
func (c *FleetClient) UpdateStatus(ctx context.Context, kind models.AssetKind, assetID, status string) error {
	update := expression.Set(expression.Name("status"), expression.Value(status))
	_, err := c.updateAsset(ctx, kind, assetID, update)
	return err
}

// AddTruckMileage adds km to a truck's odometer and returns the new total
func (c *FleetClient) AddTruckMileage(ctx context.Context, truckID string, km float64) (float64, error) {
	update := expression.Add(expression.Name("mileage"), expression.Value(km))
	truck, err := c.updateTruck(ctx, truckID, update)
	if err != nil {
		return 0, err
	}
	return truck.Mileage, nil
}

// SetTruckHealth records a truck's health status and, when given, the date
// of its last maintenance
func (c *FleetClient) SetTruckHealth(ctx context.Context, truckID, health, lastMaintenance string) (*models.Truck, error) {
	update := expression.Set(expression.Name("health_status"), expression.Value(health))
	if lastMaintenance != "" {
		update = update.Set(expression.Name("last_maintenance"), expression.Value(lastMaintenance))
	}
	return c.updateTruck(ctx, truckID, update)
}

// SetTruckLocation records a truck's last known position
func (c *FleetClient) SetTruckLocation(ctx context.Context, truckID string, loc models.Location) (*models.Truck, error) {
	update := expression.Set(expression.Name("location"), expression.Value(loc))
	return c.updateTruck(ctx, truckID, update)
}

func (c *FleetClient) updateTruck(ctx context.Context, truckID string, update expression.UpdateBuilder) (*models.Truck, error) {
	attrs, err := c.updateAsset(ctx, models.AssetTruck, truckID, update)
	if err != nil {
		return nil, err
	}

	var truck models.Truck
	if err := dynamodbattribute.UnmarshalMap(attrs, &truck); err != nil {
		logger.Error("Failed to unmarshal truck", logger.Fields{"error": err.Error()})
		return nil, errors.ErrDatabaseOperation("unmarshal", err)
	}
	return &truck, nil
}

func (c *FleetClient) updateAsset(
	ctx context.Context,
	kind models.AssetKind,
	assetID string,
	update expression.UpdateBuilder,
) (map[string]*dynamodb.AttributeValue, error) {
	update = update.Set(expression.Name("updated_at"), expression.Value(c.now().UTC()))
	cond := expression.AttributeExists(expression.Name("asset_id"))

	attrs, err := c.update(ctx, assetKey(kind, assetID), update, cond)
	if err != nil {
		return nil, err
	}
	if attrs == nil {
		return nil, errors.ErrAssetNotFound(string(kind), assetID)
	}

	logger.Info("Asset updated", logger.Fields{"kind": kind, "asset_id": assetID})
	return attrs, nil
}
