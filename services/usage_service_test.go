package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reabastece-api/apperrors"
	"reabastece-api/calculator"
	"reabastece-api/models"
)

func newUsageService(e *testEnv) *UsageService {
	s := NewUsageService(e.usage, e.vehicles, zap.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestUsageService_CreateFillsDerivedFields(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	vehicle := e.flexVehicle(t, "alice")
	s := newUsageService(e)

	record, err := s.Create(ctx, "alice", calculator.Snapshot{
		VehicleID:       vehicle.ID,
		FuelType:        models.FuelFlex,
		InitialOdometer: f(10000),
		FinalOdometer:   f(10450),
		PricePerLiter:   f(4.329),
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", record.UserID)
	assert.Equal(t, "2024-03-15", record.Date)
	assert.False(t, record.IsPaid)
	require.NotNil(t, record.KmDriven)
	assert.Equal(t, 450.0, *record.KmDriven)
	require.NotNil(t, record.EstimatedLiters)
	assert.Equal(t, 60.0, *record.EstimatedLiters)
	require.NotNil(t, record.TotalCost)
	assert.Equal(t, 259.74, *record.TotalCost)

	stored, err := s.Get(ctx, "alice", record.ID)
	require.NoError(t, err)
	assert.Equal(t, 259.74, *stored.TotalCost)
	require.NotNil(t, stored.Vehicle)
	assert.Equal(t, vehicle.ID, stored.Vehicle.ID)
}

func TestUsageService_CreateKeepsSuppliedValues(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	vehicle := e.flexVehicle(t, "alice")
	s := newUsageService(e)

	record, err := s.Create(ctx, "alice", calculator.Snapshot{
		VehicleID:       vehicle.ID,
		FuelType:        models.FuelFlex,
		InitialOdometer: f(10000.4),
		FinalOdometer:   f(10450.6),
		EstimatedLiters: f(55),
		PricePerLiter:   f(5),
		Date:            "2024-03-01",
		GasStation:      "Posto Ipiranga",
	})
	require.NoError(t, err)

	assert.Equal(t, 10000.0, *record.InitialOdometer)
	assert.Equal(t, 10451.0, *record.FinalOdometer)
	assert.Equal(t, 450.0, *record.KmDriven)
	assert.Equal(t, 55.0, *record.EstimatedLiters)
	assert.Equal(t, 275.0, *record.TotalCost)
	require.NotNil(t, record.GasStation)
	assert.Equal(t, "Posto Ipiranga", *record.GasStation)
	assert.Nil(t, record.Notes)
}

func TestUsageService_CreateRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	other := e.flexVehicle(t, "bob")
	s := newUsageService(e)

	_, err := s.Create(ctx, "alice", calculator.Snapshot{FuelType: models.FuelFlex})
	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Vehicle is required", validation.Fields["vehicle_id"])

	_, err = s.Create(ctx, "alice", calculator.Snapshot{VehicleID: other.ID, FuelType: models.FuelFlex})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Vehicle not found", validation.Fields["vehicle_id"])

	_, err = s.Create(ctx, "", calculator.Snapshot{VehicleID: other.ID, FuelType: models.FuelFlex})
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, total, err := e.usage.List(ctx, "alice", repositoriesDefaults)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUsageService_Update(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	vehicle := e.flexVehicle(t, "alice")
	s := newUsageService(e)

	record, err := s.Create(ctx, "alice", calculator.Snapshot{
		VehicleID:       vehicle.ID,
		FuelType:        models.FuelFlex,
		InitialOdometer: f(10000),
		FinalOdometer:   f(10450),
		PricePerLiter:   f(4.329),
	})
	require.NoError(t, err)

	values := calculator.SnapshotFromUsage(record)
	values.IsPaid = true
	values.TotalCost = nil
	values.PricePerLiter = f(5)

	updated, err := s.Update(ctx, "alice", record.ID, values)
	require.NoError(t, err)
	assert.True(t, updated.IsPaid)
	assert.Equal(t, 300.0, *updated.TotalCost)
	assert.Equal(t, record.ID, updated.ID)

	_, err = s.Update(ctx, "bob", record.ID, values)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "alice", record.ID))
	assert.ErrorIs(t, s.Delete(ctx, "alice", record.ID), apperrors.ErrNotFound)
}

func TestUsageService_UpdateRederivesFromMovedOdometers(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	vehicle := e.flexVehicle(t, "alice")
	s := newUsageService(e)

	record, err := s.Create(ctx, "alice", calculator.Snapshot{
		VehicleID:       vehicle.ID,
		FuelType:        models.FuelFlex,
		InitialOdometer: f(10000),
		FinalOdometer:   f(10450),
		PricePerLiter:   f(4.329),
	})
	require.NoError(t, err)
	require.Equal(t, 450.0, *record.KmDriven)

	// The whole form is posted back with the old distance and totals.
	values := calculator.SnapshotFromUsage(record)
	values.FinalOdometer = f(10300)

	updated, err := s.Update(ctx, "alice", record.ID, values)
	require.NoError(t, err)
	assert.Equal(t, 300.0, *updated.KmDriven)
	assert.Equal(t, 40.0, *updated.EstimatedLiters)
	assert.Equal(t, 173.16, *updated.TotalCost)

	// A direct edit of a derived field is kept when its inputs did not move.
	values = calculator.SnapshotFromUsage(updated)
	values.TotalCost = f(180)

	updated, err = s.Update(ctx, "alice", record.ID, values)
	require.NoError(t, err)
	assert.Equal(t, 300.0, *updated.KmDriven)
	assert.Equal(t, 180.0, *updated.TotalCost)
}

func TestUsageService_Derive(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	vehicle := e.flexVehicle(t, "alice")
	s := newUsageService(e)

	result, err := s.Derive(ctx, "alice", DeriveRequest{
		Values: calculator.Snapshot{
			VehicleID:       vehicle.ID,
			FuelType:        models.FuelFlex,
			InitialOdometer: f(10000),
			FinalOdometer:   f(10450),
			PricePerLiter:   f(4.329),
		},
		Changed: []calculator.Field{calculator.FieldFinalOdometer},
	})
	require.NoError(t, err)

	assert.Equal(t, 450.0, *result.Values.KmDriven)
	assert.Equal(t, 60.0, *result.Values.EstimatedLiters)
	assert.Equal(t, 259.74, *result.Values.TotalCost)
	require.NotNil(t, result.Presentation.CostPerKm)
	assert.Equal(t, "0.577", *result.Presentation.CostPerKm)
	require.NotNil(t, result.Presentation.Comparison)
	assert.Equal(t, "0.0", result.Presentation.Comparison.DeviationPct)
	require.Len(t, result.Outcomes, 3)
	assert.Equal(t, calculator.FieldKmDriven, result.Outcomes[0].Field)

	_, total, err := e.usage.List(ctx, "alice", repositoriesDefaults)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = s.Derive(ctx, "alice", DeriveRequest{Changed: []calculator.Field{"color"}})
	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields["changed"], "color")
}

func TestUsageService_DeriveUnknownVehicleSkips(t *testing.T) {
	s := newUsageService(newTestEnv(t))

	result, err := s.Derive(context.Background(), "alice", DeriveRequest{
		Values: calculator.Snapshot{
			VehicleID:       "missing",
			FuelType:        models.FuelFlex,
			InitialOdometer: f(100),
			FinalOdometer:   f(200),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, *result.Values.KmDriven)
	assert.Nil(t, result.Values.EstimatedLiters)
	assert.Nil(t, result.Values.TotalCost)
	assert.Nil(t, result.Presentation.Comparison)
}
