package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"reabastece-api/models"
)

type UsageRepository struct {
	*RecordRepository[models.VehicleUsage]
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{
		RecordRepository: NewRecordRepository[models.VehicleUsage](db, "vehicle_usage", "created_at DESC").WithPreload("Vehicle"),
	}
}

type UsageTotals struct {
	EstimatedLiters float64
	TotalCost       float64
	Count           int64
}

// TotalsBetween sums the owner's usage sessions dated in [from, to). Unset
// values count as zero.
func (r *UsageRepository) TotalsBetween(ctx context.Context, owner, from, to string) (UsageTotals, error) {
	start := time.Now()
	var totals UsageTotals
	err := r.db.WithContext(ctx).Model(&models.VehicleUsage{}).
		Select("COALESCE(SUM(estimated_liters), 0) AS estimated_liters, COALESCE(SUM(total_cost), 0) AS total_cost, COUNT(*) AS count").
		Where("user_id = ? AND date >= ? AND date < ?", owner, from, to).
		Scan(&totals).Error
	return totals, r.done("totals", start, err)
}

// UnpaidTotal sums total_cost over every unpaid session of the owner.
func (r *UsageRepository) UnpaidTotal(ctx context.Context, owner string) (float64, error) {
	start := time.Now()
	var total float64
	err := r.db.WithContext(ctx).Model(&models.VehicleUsage{}).
		Select("COALESCE(SUM(total_cost), 0)").
		Where("user_id = ? AND is_paid = ?", owner, false).
		Scan(&total).Error
	return total, r.done("unpaid_total", start, err)
}
