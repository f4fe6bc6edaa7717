package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reabastece-api/apperrors"
	"reabastece-api/models"
)

func TestVehicleService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	s := NewVehicleService(e.vehicles, zap.NewNop())

	vehicle, err := s.Create(ctx, "alice", VehicleInput{Name: " Civic ", Brand: "Honda", Model: "Civic"})
	require.NoError(t, err)
	assert.Equal(t, "Civic", vehicle.Name)
	assert.Equal(t, models.FuelGasoline, vehicle.FuelType)

	year := 2019
	updated, err := s.Update(ctx, "alice", vehicle.ID, VehicleInput{
		Name:     "Civic",
		Year:     &year,
		FuelType: "FLEX",
		ConsumptionRates: models.ConsumptionRates{
			GasolineConsumption: f(12.1),
			EthanolConsumption:  f(8.4),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.FuelFlex, updated.FuelType)
	assert.Equal(t, 2019, *updated.Year)
	assert.Empty(t, updated.Brand)
	assert.Equal(t, 8.4, *updated.RateFor(models.FuelFlex))

	got, err := s.Get(ctx, "alice", vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.1, *got.GasolineConsumption)

	_, err = s.Get(ctx, "bob", vehicle.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestVehicleService_Validation(t *testing.T) {
	s := NewVehicleService(newTestEnv(t).vehicles, zap.NewNop())
	year := 1800

	_, err := s.Create(context.Background(), "alice", VehicleInput{
		FuelType: "kerosene",
		Year:     &year,
		ConsumptionRates: models.ConsumptionRates{
			DieselConsumption: f(0),
		},
	})
	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, map[string]string{
		"name":               "Name is required",
		"fuel_type":          "Unknown fuel type",
		"year":               "Year is out of range",
		"diesel_consumption": "Consumption must be greater than zero",
	}, validation.Fields)
}
