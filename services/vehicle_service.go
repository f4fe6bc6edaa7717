package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reabastece-api/apperrors"
	"reabastece-api/models"
	"reabastece-api/repositories"
)

// VehicleInput is the editable part of a vehicle as posted by clients.
type VehicleInput struct {
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Year     *int   `json:"year"`
	FuelType string `json:"fuel_type"`
	models.ConsumptionRates
}

type VehicleService struct {
	vehicles *repositories.VehicleRepository
	log      *zap.Logger
}

func NewVehicleService(vehicles *repositories.VehicleRepository, log *zap.Logger) *VehicleService {
	return &VehicleService{vehicles: vehicles, log: log}
}

func (s *VehicleService) List(ctx context.Context, owner string, opts repositories.ListOptions) ([]models.Vehicle, int64, error) {
	if err := requireOwner(owner); err != nil {
		return nil, 0, err
	}
	return s.vehicles.List(ctx, owner, opts)
}

func (s *VehicleService) Get(ctx context.Context, owner, id string) (*models.Vehicle, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return s.vehicles.FindByID(ctx, id, owner)
}

func (s *VehicleService) Create(ctx context.Context, owner string, in VehicleInput) (*models.Vehicle, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	fuel, err := validateVehicle(in)
	if err != nil {
		return nil, err
	}

	vehicle := &models.Vehicle{
		ID:               uuid.New().String(),
		UserID:           owner,
		Name:             strings.TrimSpace(in.Name),
		Brand:            strings.TrimSpace(in.Brand),
		Model:            strings.TrimSpace(in.Model),
		Year:             in.Year,
		FuelType:         fuel,
		ConsumptionRates: in.ConsumptionRates,
	}
	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		s.log.Error("failed to create vehicle", zap.String("user_id", owner), zap.Error(err))
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) Update(ctx context.Context, owner, id string, in VehicleInput) (*models.Vehicle, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	fuel, err := validateVehicle(in)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":                 strings.TrimSpace(in.Name),
		"brand":                strings.TrimSpace(in.Brand),
		"model":                strings.TrimSpace(in.Model),
		"year":                 in.Year,
		"fuel_type":            fuel,
		"gasoline_consumption": in.GasolineConsumption,
		"ethanol_consumption":  in.EthanolConsumption,
		"diesel_consumption":   in.DieselConsumption,
		"flex_consumption":     in.FlexConsumption,
		"electric_consumption": in.ElectricConsumption,
		"hybrid_consumption":   in.HybridConsumption,
	}
	vehicle, err := s.vehicles.Update(ctx, id, owner, updates)
	if err != nil {
		logFailure(s.log, "failed to update vehicle", owner, id, err)
		return nil, err
	}
	return vehicle, nil
}

// Delete removes the vehicle and every record logged against it.
func (s *VehicleService) Delete(ctx context.Context, owner, id string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if err := s.vehicles.Delete(ctx, id, owner); err != nil {
		logFailure(s.log, "failed to delete vehicle", owner, id, err)
		return err
	}
	return nil
}

func validateVehicle(in VehicleInput) (models.FuelType, error) {
	v := apperrors.NewValidationError()

	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "Name is required")
	}

	fuel := models.FuelGasoline
	if strings.TrimSpace(in.FuelType) != "" {
		parsed, err := models.ParseFuelType(in.FuelType)
		if err != nil {
			v.Add("fuel_type", "Unknown fuel type")
		}
		fuel = parsed
	}

	if in.Year != nil && (*in.Year < 1900 || *in.Year > 2100) {
		v.Add("year", "Year is out of range")
	}

	rates := map[string]*float64{
		"gasoline_consumption": in.GasolineConsumption,
		"ethanol_consumption":  in.EthanolConsumption,
		"diesel_consumption":   in.DieselConsumption,
		"flex_consumption":     in.FlexConsumption,
		"electric_consumption": in.ElectricConsumption,
		"hybrid_consumption":   in.HybridConsumption,
	}
	for field, rate := range rates {
		if rate != nil && *rate <= 0 {
			v.Add(field, "Consumption must be greater than zero")
		}
	}

	return fuel, v.OrNil()
}

func requireOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return apperrors.ErrUnauthenticated
	}
	return nil
}

// logFailure logs store failures; a missing record is an expected outcome.
func logFailure(log *zap.Logger, msg, owner, id string, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		return
	}
	log.Error(msg, zap.String("user_id", owner), zap.String("id", id), zap.Error(err))
}
