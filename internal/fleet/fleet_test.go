package fleet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/models"
)

type fakeAssets struct {
	drivers map[string]models.Driver
	trucks  map[string]models.Truck
	failOn  string
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{drivers: map[string]models.Driver{}, trucks: map[string]models.Truck{}}
}

func (f *fakeAssets) UpdateStatus(_ context.Context, kind models.AssetKind, id, status string) error {
	if id == f.failOn {
		return apperrors.ErrDatabaseOperation("update", errors.New("throttled"))
	}
	switch kind {
	case models.AssetDriver:
		d, ok := f.drivers[id]
		if !ok {
			return apperrors.ErrAssetNotFound(string(kind), id)
		}
		d.Status = status
		f.drivers[id] = d
	case models.AssetTruck:
		t, ok := f.trucks[id]
		if !ok {
			return apperrors.ErrAssetNotFound(string(kind), id)
		}
		t.Status = status
		f.trucks[id] = t
	}
	return nil
}

func (f *fakeAssets) AddTruckMileage(_ context.Context, id string, km float64) (float64, error) {
	t, ok := f.trucks[id]
	if !ok {
		return 0, apperrors.ErrAssetNotFound("truck", id)
	}
	t.Mileage += km
	f.trucks[id] = t
	return t.Mileage, nil
}

func (f *fakeAssets) PutDriver(_ context.Context, d *models.Driver) error {
	f.drivers[d.DriverID] = *d
	return nil
}

func (f *fakeAssets) PutTruck(_ context.Context, t *models.Truck) error {
	f.trucks[t.TruckID] = *t
	return nil
}

func (f *fakeAssets) ListDrivers(context.Context) ([]models.Driver, error) {
	out := []models.Driver{}
	for _, d := range f.drivers {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeAssets) ListTrucks(context.Context) ([]models.Truck, error) {
	out := []models.Truck{}
	for _, t := range f.trucks {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeAssets) DeleteAsset(_ context.Context, kind models.AssetKind, id string) error {
	if kind == models.AssetDriver {
		if _, ok := f.drivers[id]; !ok {
			return apperrors.ErrAssetNotFound(string(kind), id)
		}
		delete(f.drivers, id)
		return nil
	}
	if _, ok := f.trucks[id]; !ok {
		return apperrors.ErrAssetNotFound(string(kind), id)
	}
	delete(f.trucks, id)
	return nil
}

func (f *fakeAssets) SetTruckHealth(_ context.Context, id, health, serviced string) (*models.Truck, error) {
	t, ok := f.trucks[id]
	if !ok {
		return nil, apperrors.ErrAssetNotFound("truck", id)
	}
	t.HealthStatus = health
	if serviced != "" {
		t.LastMaintenance = serviced
	}
	f.trucks[id] = t
	return &t, nil
}

func (f *fakeAssets) SetTruckLocation(_ context.Context, id string, loc models.Location) (*models.Truck, error) {
	t, ok := f.trucks[id]
	if !ok {
		return nil, apperrors.ErrAssetNotFound("truck", id)
	}
	t.Location = &loc
	f.trucks[id] = t
	return &t, nil
}

func TestMaintenanceRisk(t *testing.T) {
	tests := []struct {
		mileage, age float64
		want         int
	}{
		{0, 0, 0},
		{100000, 4, 12},
		{600000, 12, 55},
		{25000, 1, 3},
		{75000, 0, 8},
		{45000, 0.9, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MaintenanceRisk(tt.mileage, tt.age), "mileage=%v age=%v", tt.mileage, tt.age)
	}
}

func TestProcessorAssignedAndCompleted(t *testing.T) {
	store := newFakeAssets()
	store.drivers["d1"] = models.Driver{DriverID: "d1", Status: models.DriverAvailable}
	store.trucks["t1"] = models.Truck{TruckID: "t1", Status: models.TruckAvailable, Mileage: 120000}
	p := NewProcessor(store)
	ctx := context.Background()

	require.NoError(t, p.Handle(ctx, &models.BookingEvent{
		Type: models.EventBookingAssigned, BookingID: "bk_1", DriverID: "d1", TruckID: "t1", DistanceKm: 500,
	}))
	assert.Equal(t, models.DriverOnRoute, store.drivers["d1"].Status)
	assert.Equal(t, models.TruckInUse, store.trucks["t1"].Status)
	assert.Equal(t, 120000.0, store.trucks["t1"].Mileage)

	require.NoError(t, p.Handle(ctx, &models.BookingEvent{
		Type: models.EventBookingCompleted, BookingID: "bk_1", DriverID: "d1", TruckID: "t1", DistanceKm: 500,
	}))
	assert.Equal(t, models.DriverAvailable, store.drivers["d1"].Status)
	assert.Equal(t, models.TruckAvailable, store.trucks["t1"].Status)
	assert.Equal(t, 120500.0, store.trucks["t1"].Mileage)
}

func TestProcessorIgnoresOtherEvents(t *testing.T) {
	store := newFakeAssets()
	store.drivers["d1"] = models.Driver{DriverID: "d1", Status: models.DriverAvailable}
	p := NewProcessor(store)

	for _, typ := range []models.BookingEventType{models.EventBookingCreated, models.EventBookingRejected, "booking.unknown"} {
		require.NoError(t, p.Handle(context.Background(), &models.BookingEvent{Type: typ, DriverID: "d1"}))
	}
	assert.Equal(t, models.DriverAvailable, store.drivers["d1"].Status)
}

func TestProcessorSkipsMissingAssets(t *testing.T) {
	store := newFakeAssets()
	store.trucks["t1"] = models.Truck{TruckID: "t1", Status: models.TruckInUse}
	p := NewProcessor(store)

	err := p.Handle(context.Background(), &models.BookingEvent{
		Type: models.EventBookingCompleted, DriverID: "gone", TruckID: "t1", DistanceKm: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TruckAvailable, store.trucks["t1"].Status)
	assert.Equal(t, 20.0, store.trucks["t1"].Mileage)
}

func TestProcessorReturnsStoreFailures(t *testing.T) {
	store := newFakeAssets()
	store.trucks["t1"] = models.Truck{TruckID: "t1"}
	store.failOn = "d1"
	p := NewProcessor(store)

	err := p.Handle(context.Background(), &models.BookingEvent{
		Type: models.EventBookingAssigned, DriverID: "d1", TruckID: "t1",
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDatabase))
	// The truck update still ran
	assert.Equal(t, models.TruckInUse, store.trucks["t1"].Status)
}

func newTestService() (*Service, *fakeAssets) {
	store := newFakeAssets()
	svc := NewService(store)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC) }
	return svc, store
}

func TestCreateAssetsApplyDefaults(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	driver, err := svc.CreateDriver(ctx, &models.Driver{DriverID: "d1", Name: "Ravi"})
	require.NoError(t, err)
	assert.Equal(t, models.DriverAvailable, driver.Status)

	truck, err := svc.CreateTruck(ctx, &models.Truck{TruckID: "t1", TruckType: "12W"})
	require.NoError(t, err)
	assert.Equal(t, models.TruckAvailable, truck.Status)
	assert.Equal(t, models.HealthGood, truck.HealthStatus)
	assert.Contains(t, store.trucks, "t1")

	_, err = svc.CreateDriver(ctx, &models.Driver{DriverID: "d2"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = svc.CreateTruck(ctx, &models.Truck{TruckID: "t2", Mileage: -1})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestListSortedByID(t *testing.T) {
	svc, store := newTestService()
	for _, id := range []string{"t3", "t1", "t2"} {
		store.trucks[id] = models.Truck{TruckID: id}
	}

	trucks, err := svc.ListTrucks(context.Background())
	require.NoError(t, err)
	require.Len(t, trucks, 3)
	assert.Equal(t, "t1", trucks[0].TruckID)
	assert.Equal(t, "t3", trucks[2].TruckID)
}

func TestTruckHealth(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	store.trucks["t1"] = models.Truck{TruckID: "t1", HealthStatus: models.HealthGood}
	store.trucks["t2"] = models.Truck{TruckID: "t2", HealthStatus: models.HealthNeedsMaintenance}
	store.trucks["t3"] = models.Truck{TruckID: "t3", HealthStatus: models.HealthNeedsMaintenance}

	truck, err := svc.SetTruckHealth(ctx, "t1", models.HealthNeedsMaintenance)
	require.NoError(t, err)
	assert.Equal(t, models.HealthNeedsMaintenance, truck.HealthStatus)
	assert.Empty(t, truck.LastMaintenance)

	_, err = svc.SetTruckHealth(ctx, "t1", "Broken")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = svc.SetTruckHealth(ctx, "t9", models.HealthGood)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAssetNotFound))

	modified, err := svc.ResetTruckHealth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, modified)
	for _, tr := range store.trucks {
		assert.Equal(t, models.HealthGood, tr.HealthStatus)
		assert.Equal(t, "2025-06-01", tr.LastMaintenance)
	}
}

func TestTruckLocation(t *testing.T) {
	svc, store := newTestService()
	store.trucks["t1"] = models.Truck{TruckID: "t1"}

	truck, err := svc.SetTruckLocation(context.Background(), "t1", &models.Location{Lat: 19.076, Lng: 72.8777})
	require.NoError(t, err)
	require.NotNil(t, truck.Location)
	assert.Equal(t, 72.8777, truck.Location.Lng)

	_, err = svc.SetTruckLocation(context.Background(), "t1", &models.Location{Lat: 91})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = svc.SetTruckLocation(context.Background(), "t1", nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestDeleteAndParseKind(t *testing.T) {
	svc, store := newTestService()
	store.drivers["d1"] = models.Driver{DriverID: "d1"}

	kind, err := ParseKind("Drivers")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), kind, "d1"))
	assert.Empty(t, store.drivers)

	err = svc.Delete(context.Background(), kind, "d1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAssetNotFound))

	_, err = ParseKind("buses")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestMaintenance(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Maintenance(&models.MaintenanceRequest{Mileage: 100000, Age: 4})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.Risk)

	_, err = svc.Maintenance(&models.MaintenanceRequest{Mileage: -5})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestHandleSQSReportsFailuresPerMessage(t *testing.T) {
	store := newFakeAssets()
	store.drivers["d1"] = models.Driver{DriverID: "d1"}
	store.trucks["t1"] = models.Truck{TruckID: "t1"}
	store.failOn = "d2"
	p := NewProcessor(store)

	resp, err := p.HandleSQS(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "m1", Body: `{"type":"booking.assigned","booking_id":"bk_1","driver_id":"d1","truck_id":"t1"}`},
		{MessageId: "m2", Body: `not json`},
		{MessageId: "m3", Body: `{"type":"booking.assigned","booking_id":"bk_2","driver_id":"d2"}`},
	}})
	require.NoError(t, err)

	require.Len(t, resp.BatchItemFailures, 1)
	assert.Equal(t, "m3", resp.BatchItemFailures[0].ItemIdentifier)
	assert.Equal(t, models.DriverOnRoute, store.drivers["d1"].Status)
	assert.Equal(t, models.TruckInUse, store.trucks["t1"].Status)
}
