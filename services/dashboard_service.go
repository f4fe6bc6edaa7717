package services

import (
	"context"
	"time"

	"reabastece-api/calculator"
	"reabastece-api/models"
	"reabastece-api/repositories"
)

// DashboardSummary is the monthly overview of one user.
type DashboardSummary struct {
	Month           string         `json:"month"`
	VehicleCount    int64          `json:"vehicle_count"`
	Refuelings      MonthTotals    `json:"refuelings"`
	Usage           MonthTotals    `json:"usage"`
	UnpaidUsageCost float64        `json:"unpaid_usage_cost"`
	LastRefueling   *LastRefueling `json:"last_refueling"`
}

type MonthTotals struct {
	Count     int64   `json:"count"`
	Liters    float64 `json:"liters"`
	TotalCost float64 `json:"total_cost"`
}

type LastRefueling struct {
	Date      string  `json:"date"`
	Liters    float64 `json:"liters"`
	TotalCost float64 `json:"total_cost"`
	VehicleID string  `json:"vehicle_id"`
}

type DashboardService struct {
	vehicles   *repositories.VehicleRepository
	refuelings *repositories.RefuelingRepository
	usage      *repositories.UsageRepository
}

func NewDashboardService(vehicles *repositories.VehicleRepository, refuelings *repositories.RefuelingRepository, usage *repositories.UsageRepository) *DashboardService {
	return &DashboardService{vehicles: vehicles, refuelings: refuelings, usage: usage}
}

// MonthRange returns the first day of the month of now and of the month after,
// in now's location.
func MonthRange(now time.Time) (from, to string) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.Format(models.DateLayout), first.AddDate(0, 1, 0).Format(models.DateLayout)
}

// Summary aggregates the owner's records for the calendar month of now.
func (s *DashboardService) Summary(ctx context.Context, owner string, now time.Time) (*DashboardSummary, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	from, to := MonthRange(now)

	vehicleCount, err := s.vehicles.Count(ctx, owner)
	if err != nil {
		return nil, err
	}
	refuelTotals, err := s.refuelings.TotalsBetween(ctx, owner, from, to)
	if err != nil {
		return nil, err
	}
	usageTotals, err := s.usage.TotalsBetween(ctx, owner, from, to)
	if err != nil {
		return nil, err
	}
	unpaid, err := s.usage.UnpaidTotal(ctx, owner)
	if err != nil {
		return nil, err
	}
	latest, err := s.refuelings.Latest(ctx, owner)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		Month:        now.Format("2006-01"),
		VehicleCount: vehicleCount,
		Refuelings: MonthTotals{
			Count:     refuelTotals.Count,
			Liters:    calculator.Round(refuelTotals.Liters, 2),
			TotalCost: calculator.Round(refuelTotals.TotalCost, 2),
		},
		Usage: MonthTotals{
			Count:     usageTotals.Count,
			Liters:    calculator.Round(usageTotals.EstimatedLiters, 2),
			TotalCost: calculator.Round(usageTotals.TotalCost, 2),
		},
		UnpaidUsageCost: calculator.Round(unpaid, 2),
	}
	if latest != nil {
		summary.LastRefueling = &LastRefueling{
			Date:      latest.Date,
			Liters:    latest.Liters,
			TotalCost: latest.TotalCost,
			VehicleID: latest.VehicleID,
		}
	}
	return summary, nil
}
