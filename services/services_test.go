package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"reabastece-api/database"
	"reabastece-api/models"
	"reabastece-api/repositories"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	db         *gorm.DB
	vehicles   *repositories.VehicleRepository
	refuelings *repositories.RefuelingRepository
	usage      *repositories.UsageRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Initialize("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name), false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &testEnv{
		db:         db,
		vehicles:   repositories.NewVehicleRepository(db),
		refuelings: repositories.NewRefuelingRepository(db),
		usage:      repositories.NewUsageRepository(db),
	}
}

// flexVehicle declares 7.5 km/l on ethanol and no flex rate.
func (e *testEnv) flexVehicle(t *testing.T, owner string) *models.Vehicle {
	t.Helper()
	ethanol := 7.5
	v := &models.Vehicle{
		ID:       uuid.New().String(),
		UserID:   owner,
		Name:     "Gol",
		FuelType: models.FuelFlex,
		ConsumptionRates: models.ConsumptionRates{
			EthanolConsumption: &ethanol,
		},
	}
	require.NoError(t, e.vehicles.Create(context.Background(), v))
	return v
}

func f(v float64) *float64 {
	return &v
}

var repositoriesDefaults = repositories.ListOptions{}
