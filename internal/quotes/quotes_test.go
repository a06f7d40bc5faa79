package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/geo"
	"github.com/sumit-fleet/fleet-booking/internal/models"
	"github.com/sumit-fleet/fleet-booking/internal/pricing"
	"github.com/sumit-fleet/fleet-booking/internal/toll"
)

var fixedNow = time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

func testAssembler() *Assembler {
	return &Assembler{
		Params:   pricing.DefaultParams(),
		Now:      func() time.Time { return fixedNow },
		Location: time.UTC,
	}
}

type fakeDistance struct {
	from, to   geo.Coordinates
	geocodeErr error
	route      *geo.Result
	routeErr   error
	geocodes   int32
	routes     int32
}

func (f *fakeDistance) Resolve(ctx context.Context, q geo.Query) (*geo.Result, error) {
	from, to, err := f.GeocodePair(ctx, q.Pickup, q.Dropoff)
	if err != nil {
		return nil, err
	}
	return f.Route(ctx, from, to)
}

func (f *fakeDistance) GeocodePair(_ context.Context, _, _ string) (geo.Coordinates, geo.Coordinates, error) {
	atomic.AddInt32(&f.geocodes, 1)
	return f.from, f.to, f.geocodeErr
}

func (f *fakeDistance) Route(_ context.Context, from, to geo.Coordinates) (*geo.Result, error) {
	atomic.AddInt32(&f.routes, 1)
	if f.routeErr != nil {
		return nil, f.routeErr
	}
	r := *f.route
	r.From, r.To = &from, &to
	return &r, nil
}

type fakeTolls struct {
	enabled bool
	summary *toll.Summary
	err     error
	calls   int32
	lastReq toll.Request
}

func (f *fakeTolls) Enabled() bool { return f.enabled }

func (f *fakeTolls) Lookup(_ context.Context, req toll.Request) (*toll.Summary, error) {
	atomic.AddInt32(&f.calls, 1)
	f.lastReq = req
	return f.summary, f.err
}

func newDistance() *fakeDistance {
	return &fakeDistance{
		from:  geo.Coordinates{Lat: 19.076, Lon: 72.8777},
		to:    geo.Coordinates{Lat: 18.5204, Lon: 73.8567},
		route: &geo.Result{DistanceKm: 149, Source: geo.SourceDetailed},
	}
}

func TestAssembleBaselineLongHaul(t *testing.T) {
	q := testAssembler().Assemble(AssembleInput{DistanceKm: 1280, LoadTons: 15, Baseline: true})

	assert.InDelta(t, 39954.28571428571, q.Fuel, 1e-9)
	assert.InDelta(t, 2560.0, q.Tolls, 1e-9)
	assert.InDelta(t, 10240.0, q.Opex, 1e-9)
	assert.InDelta(t, 52754.28571428571, q.BaseSubtotal, 1e-9)
	assert.InDelta(t, 12873.37544531541, q.Premium, 1e-6)
	assert.InDelta(t, 0.24402520612328824, q.PremiumPct, 1e-9)
	assert.InDelta(t, 0.9078544194107453, q.Confidence, 1e-9)
	assert.Equal(t, 0.08, q.MarginPct)
	assert.Equal(t, 70878.0, q.Price)
	assert.InDelta(t, 26.763636363636362, q.Time, 1e-9)
	assert.Nil(t, q.TruckProfile)
}

func TestAssembleWithTruckProfile(t *testing.T) {
	q := testAssembler().Assemble(AssembleInput{DistanceKm: 500, LoadTons: 10, TruckType: "12W", TripDate: "2025-03-14"})

	require.NotNil(t, q.TruckProfile)
	assert.Equal(t, "12W", q.TruckProfile.Key)
	assert.InDelta(t, 14928.571428571431, q.Fuel, 1e-9)
	assert.InDelta(t, 3500.0, q.Tolls, 1e-9)
	assert.InDelta(t, 22428.57142857143, q.BaseSubtotal, 1e-9)
	assert.InDelta(t, 0.2140522402811573, q.PremiumPct, 1e-9)
	assert.InDelta(t, 0.7133152866242038, q.Confidence, 1e-9)
	assert.Equal(t, 29408.0, q.Price)
	assert.Equal(t, "2025-03-14T10:27:16.364Z", q.EtaDate)
	assert.False(t, q.Enrichment.Degraded())
}

func TestAssembleUnknownTruckUsesDefault(t *testing.T) {
	a := testAssembler()
	unknown := a.Assemble(AssembleInput{DistanceKm: 500, LoadTons: 10, TruckType: "99W"})
	def := a.Assemble(AssembleInput{DistanceKm: 500, LoadTons: 10, TruckType: "12W"})
	assert.Equal(t, def, unknown)
}

func TestAssembleInvalidTripDate(t *testing.T) {
	a := testAssembler()
	bad := a.Assemble(AssembleInput{DistanceKm: 0, TripDate: "not-a-date"})
	absent := a.Assemble(AssembleInput{DistanceKm: 0})

	assert.Equal(t, absent.EtaDate, bad.EtaDate)
	assert.Equal(t, "2025-06-01T08:30:00.000Z", bad.EtaDate)
	assert.True(t, bad.Enrichment.HasDegradation(apperrors.CodeInvalidDate))
	assert.False(t, absent.Enrichment.Degraded())
}

func TestAssembleZeroDistance(t *testing.T) {
	q := testAssembler().Assemble(AssembleInput{DistanceKm: 0, LoadTons: 20})
	assert.Zero(t, q.BaseSubtotal)
	assert.Zero(t, q.Premium)
	assert.Zero(t, q.PremiumPct)
	assert.Zero(t, q.Confidence)
	assert.Zero(t, q.Price)
}

func TestNoEntryNote(t *testing.T) {
	assert.Equal(t, UrbanNoEntryNote, NoEntryNote("Navi MUMBAI", "Nashik"))
	assert.Equal(t, UrbanNoEntryNote, NoEntryNote("", "Bangalore Rural"))
	assert.Equal(t, HighwayNoEntryNote, NoEntryNote("Nashik", "Surat"))
	assert.Equal(t, HighwayNoEntryNote, NoEntryNote("", ""))
}

func TestEngineSuppliedDistanceSkipsRouting(t *testing.T) {
	dist := newDistance()
	tolls := &fakeTolls{}
	e := NewEngine(dist, tolls, testAssembler())

	q, err := e.Quote(context.Background(), &models.QuoteRequest{Distance: 1280, Load: 15})
	require.NoError(t, err)

	assert.Equal(t, 1280.0, q.Distance)
	assert.Zero(t, dist.geocodes)
	assert.Zero(t, dist.routes)
	assert.Equal(t, geo.SourceSupplied, q.Enrichment.RouteSource)
	assert.Equal(t, TollDisabled, q.Enrichment.TollStatus)
	assert.Nil(t, q.TollSummary)
	assert.Equal(t, 79482.0, q.Price)
	assert.Equal(t, HighwayNoEntryNote, q.Notes.NoEntry)
}

func TestEngineSuppliedDistanceGeocodesForTolls(t *testing.T) {
	dist := newDistance()
	tolls := &fakeTolls{enabled: true, summary: &toll.Summary{Currency: "INR", Tolls: []toll.Plaza{}}}
	e := NewEngine(dist, tolls, testAssembler())

	q, err := e.Quote(context.Background(), &models.QuoteRequest{Pickup: "Mumbai", Dropoff: "Delhi", Distance: 1400, Load: 10})
	require.NoError(t, err)

	assert.Equal(t, 1400.0, q.Distance)
	assert.Equal(t, int32(1), dist.geocodes)
	assert.Zero(t, dist.routes)
	assert.Equal(t, TollApplied, q.Enrichment.TollStatus)
	require.NotNil(t, tolls.lastReq.From)
	require.NotNil(t, tolls.lastReq.To)
	assert.Equal(t, dist.to, *tolls.lastReq.To)

	// A failed geocode still sends the addresses
	dist = newDistance()
	dist.geocodeErr = apperrors.ErrLocationNotFound("Delhi", nil)
	tolls = &fakeTolls{enabled: true, summary: &toll.Summary{Currency: "INR", Tolls: []toll.Plaza{}}}
	q, err = NewEngine(dist, tolls, testAssembler()).Quote(context.Background(), &models.QuoteRequest{Pickup: "Mumbai", Dropoff: "Delhi", Distance: 1400, Load: 10})
	require.NoError(t, err)
	assert.Equal(t, TollApplied, q.Enrichment.TollStatus)
	assert.Nil(t, tolls.lastReq.From)
	assert.Equal(t, "Delhi", tolls.lastReq.Dropoff)
}

func TestEngineRejectsDistanceBeyondCap(t *testing.T) {
	e := NewEngine(newDistance(), nil, testAssembler())
	for _, km := range []float64{1e11, 1e12, 1e15} {
		_, err := e.Quote(context.Background(), &models.QuoteRequest{Distance: km, Load: 10})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "%g", km)
	}
}

func TestEngineRoutesAndPricesWithoutTolls(t *testing.T) {
	dist := newDistance()
	e := NewEngine(dist, nil, testAssembler())

	q, err := e.Quote(context.Background(), &models.QuoteRequest{Pickup: "Mumbai", Dropoff: "Pune", Load: 10})
	require.NoError(t, err)

	assert.Equal(t, 149.0, q.Distance)
	assert.Equal(t, 8574.0, q.Price)
	assert.Equal(t, geo.SourceDetailed, q.Enrichment.RouteSource)
	assert.Equal(t, UrbanNoEntryNote, q.Notes.NoEntry)
	assert.Equal(t, "2025-06-01T11:36:55.636Z", q.EtaDate)
}

func TestEngineAppliesTollOverrides(t *testing.T) {
	dist := newDistance()
	summary := toll.Summary{TotalTagCost: ptr(510), TotalFuelCost: ptr(12000), Currency: "INR", Tolls: []toll.Plaza{}}
	tolls := &fakeTolls{enabled: true, summary: &summary}
	e := NewEngine(dist, tolls, testAssembler())

	q, err := e.Quote(context.Background(), &models.QuoteRequest{Pickup: "Mumbai", Dropoff: "Pune", Load: 10})
	require.NoError(t, err)

	assert.Equal(t, 12000.0, q.Fuel)
	assert.Equal(t, 510.0, q.Tolls)
	assert.Equal(t, 13702.0, q.BaseSubtotal)
	assert.Equal(t, 17570.0, q.Price)
	assert.Equal(t, TollApplied, q.Enrichment.TollStatus)
	assert.Same(t, &summary, q.TollSummary)

	require.NotNil(t, tolls.lastReq.From)
	assert.Equal(t, dist.from, *tolls.lastReq.From)
	assert.Equal(t, 10.0, tolls.lastReq.LoadTons)
}

func TestEngineTollFailureDegrades(t *testing.T) {
	dist := newDistance()
	tolls := &fakeTolls{enabled: true, err: apperrors.ErrTollProvider("Toll API error (503)", nil)}
	e := NewEngine(dist, tolls, testAssembler())

	q, err := e.Quote(context.Background(), &models.QuoteRequest{Pickup: "Mumbai", Dropoff: "Pune", Load: 10})
	require.NoError(t, err)

	assert.Equal(t, TollDegraded, q.Enrichment.TollStatus)
	assert.True(t, q.Enrichment.HasDegradation(apperrors.CodeTollProvider))
	assert.Nil(t, q.TollSummary)
	// Falls back to the truck profile toll rate
	assert.InDelta(t, 149*7.0, q.Tolls, 1e-9)
	assert.Equal(t, 8574.0, q.Price)
}

func TestEngineTollSkippedWithoutAddresses(t *testing.T) {
	tolls := &fakeTolls{enabled: true}
	e := NewEngine(newDistance(), tolls, testAssembler())

	q, err := e.Quote(context.Background(), &models.QuoteRequest{Distance: 100})
	require.NoError(t, err)
	assert.Equal(t, TollSkipped, q.Enrichment.TollStatus)
	assert.Zero(t, tolls.calls)
}

func TestEngineMandatoryFailuresAbort(t *testing.T) {
	t.Run("location", func(t *testing.T) {
		dist := newDistance()
		dist.geocodeErr = apperrors.ErrLocationNotFound("Atlantis", nil)
		_, err := NewEngine(dist, nil, testAssembler()).Quote(context.Background(), &models.QuoteRequest{Pickup: "Atlantis", Dropoff: "Pune"})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeLocationNotFound))
		assert.Zero(t, dist.routes)
	})

	t.Run("routing", func(t *testing.T) {
		dist := newDistance()
		dist.routeErr = apperrors.ErrRoutingUnavailable(errors.New("both down"))
		tolls := &fakeTolls{enabled: true, summary: &toll.Summary{}}
		_, err := NewEngine(dist, tolls, testAssembler()).Quote(context.Background(), &models.QuoteRequest{Pickup: "Mumbai", Dropoff: "Pune"})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeRoutingUnavailable))
	})

	t.Run("validation", func(t *testing.T) {
		dist := newDistance()
		_, err := NewEngine(dist, nil, testAssembler()).Quote(context.Background(), &models.QuoteRequest{Pickup: "Mumbai"})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
		assert.Zero(t, dist.geocodes)
	})
}

func TestEngineDistance(t *testing.T) {
	e := NewEngine(newDistance(), nil, testAssembler())
	res, err := e.Distance(context.Background(), &models.DistanceRequest{Pickup: "Mumbai", Dropoff: "Pune"})
	require.NoError(t, err)
	assert.Equal(t, 149.0, res.Distance)
	require.NotNil(t, res.From)
	assert.Equal(t, 19.076, res.From.Lat)

	_, err = e.Distance(context.Background(), &models.DistanceRequest{Pickup: "Mumbai"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestQuoteJSONShape(t *testing.T) {
	q, err := NewEngine(newDistance(), nil, testAssembler()).Quote(context.Background(), &models.QuoteRequest{Distance: 500, Load: 10})
	require.NoError(t, err)

	b, err := json.Marshal(q)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m))
	for _, key := range []string{"distance", "fuel", "tolls", "opex", "baseSubtotal", "premium", "premiumPct",
		"confidence", "marginPct", "quote", "time", "etaDate", "notes", "tollSummary", "truckProfile", "enrichment"} {
		assert.Contains(t, m, key)
	}
	assert.Nil(t, m["tollSummary"])
	assert.NotContains(t, m, "MarginValue")
	assert.Equal(t, []interface{}{}, m["enrichment"].(map[string]interface{})["degradations"])
}

func ptr(v float64) *float64 { return &v }
