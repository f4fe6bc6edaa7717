package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reabastece-api/apperrors"
	"reabastece-api/calculator"
	"reabastece-api/models"
	"reabastece-api/repositories"
)

// RefuelingInput is a refueling as posted by clients. TotalCost may be left
// out and is then liters times price.
type RefuelingInput struct {
	VehicleID     string   `json:"vehicle_id"`
	Date          string   `json:"date"`
	Liters        *float64 `json:"liters"`
	PricePerLiter *float64 `json:"price_per_liter"`
	TotalCost     *float64 `json:"total_cost"`
	Odometer      *float64 `json:"odometer"`
	GasStation    string   `json:"gas_station"`
	Notes         string   `json:"notes"`
}

type RefuelingService struct {
	refuelings *repositories.RefuelingRepository
	vehicles   *repositories.VehicleRepository
	log        *zap.Logger
	now        func() time.Time
}

func NewRefuelingService(refuelings *repositories.RefuelingRepository, vehicles *repositories.VehicleRepository, log *zap.Logger) *RefuelingService {
	return &RefuelingService{refuelings: refuelings, vehicles: vehicles, log: log, now: time.Now}
}

func (s *RefuelingService) List(ctx context.Context, owner string, opts repositories.ListOptions) ([]models.Refueling, int64, error) {
	if err := requireOwner(owner); err != nil {
		return nil, 0, err
	}
	return s.refuelings.List(ctx, owner, opts)
}

func (s *RefuelingService) Get(ctx context.Context, owner, id string) (*models.Refueling, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return s.refuelings.FindByID(ctx, id, owner)
}

func (s *RefuelingService) Create(ctx context.Context, owner string, in RefuelingInput) (*models.Refueling, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	record, err := s.build(ctx, owner, in)
	if err != nil {
		return nil, err
	}

	record.ID = uuid.New().String()
	record.UserID = owner
	if err := s.refuelings.Create(ctx, record); err != nil {
		s.log.Error("failed to create refueling", zap.String("user_id", owner), zap.Error(err))
		return nil, err
	}
	return record, nil
}

func (s *RefuelingService) Update(ctx context.Context, owner, id string, in RefuelingInput) (*models.Refueling, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	record, err := s.build(ctx, owner, in)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"vehicle_id":      record.VehicleID,
		"date":            record.Date,
		"liters":          record.Liters,
		"price_per_liter": record.PricePerLiter,
		"total_cost":      record.TotalCost,
		"odometer":        record.Odometer,
		"gas_station":     record.GasStation,
		"notes":           record.Notes,
	}
	updated, err := s.refuelings.Update(ctx, id, owner, updates)
	if err != nil {
		logFailure(s.log, "failed to update refueling", owner, id, err)
		return nil, err
	}
	return updated, nil
}

func (s *RefuelingService) Delete(ctx context.Context, owner, id string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if err := s.refuelings.Delete(ctx, id, owner); err != nil {
		logFailure(s.log, "failed to delete refueling", owner, id, err)
		return err
	}
	return nil
}

// build validates the input and turns it into the record to store.
func (s *RefuelingService) build(ctx context.Context, owner string, in RefuelingInput) (*models.Refueling, error) {
	v := apperrors.NewValidationError()

	vehicleID := strings.TrimSpace(in.VehicleID)
	if vehicleID == "" {
		v.Add("vehicle_id", "Vehicle is required")
	} else if err := s.checkVehicle(ctx, owner, vehicleID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		v.Add("vehicle_id", "Vehicle not found")
	}

	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = s.now().Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		v.Add("date", "Date must be formatted as YYYY-MM-DD")
	}

	if in.Liters == nil || *in.Liters <= 0 {
		v.Add("liters", "Liters must be greater than zero")
	}
	if in.PricePerLiter == nil || *in.PricePerLiter <= 0 {
		v.Add("price_per_liter", "Price per liter must be greater than zero")
	}
	if in.TotalCost != nil && *in.TotalCost < 0 {
		v.Add("total_cost", "Total cost cannot be negative")
	}
	if in.Odometer != nil && *in.Odometer < 0 {
		v.Add("odometer", "Odometer cannot be negative")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	total, _ := calculator.DeriveTotalCost(in.Liters, in.PricePerLiter)
	if in.TotalCost != nil {
		total = *in.TotalCost
	}

	record := &models.Refueling{
		VehicleID:     vehicleID,
		Date:          date,
		Liters:        *in.Liters,
		PricePerLiter: *in.PricePerLiter,
		TotalCost:     total,
		GasStation:    optionalText(in.GasStation),
		Notes:         optionalText(in.Notes),
	}
	if in.Odometer != nil {
		odometer := int(math.Round(*in.Odometer))
		record.Odometer = &odometer
	}
	return record, nil
}

func (s *RefuelingService) checkVehicle(ctx context.Context, owner, id string) error {
	_, err := s.vehicles.FindByID(ctx, id, owner)
	return err
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
