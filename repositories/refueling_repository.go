package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"reabastece-api/models"
)

type RefuelingRepository struct {
	*RecordRepository[models.Refueling]
}

func NewRefuelingRepository(db *gorm.DB) *RefuelingRepository {
	return &RefuelingRepository{
		RecordRepository: NewRecordRepository[models.Refueling](db, "refuelings", "date DESC, created_at DESC").WithPreload("Vehicle"),
	}
}

type RefuelingTotals struct {
	Liters    float64
	TotalCost float64
	Count     int64
}

// TotalsBetween sums the owner's refuelings dated in [from, to).
func (r *RefuelingRepository) TotalsBetween(ctx context.Context, owner, from, to string) (RefuelingTotals, error) {
	start := time.Now()
	var totals RefuelingTotals
	err := r.db.WithContext(ctx).Model(&models.Refueling{}).
		Select("COALESCE(SUM(liters), 0) AS liters, COALESCE(SUM(total_cost), 0) AS total_cost, COUNT(*) AS count").
		Where("user_id = ? AND date >= ? AND date < ?", owner, from, to).
		Scan(&totals).Error
	return totals, r.done("totals", start, err)
}

// Latest returns the most recent refueling of the owner, nil when there is none.
func (r *RefuelingRepository) Latest(ctx context.Context, owner string) (*models.Refueling, error) {
	start := time.Now()
	var refuelings []models.Refueling
	err := r.db.WithContext(ctx).Where("user_id = ?", owner).
		Order("date DESC, created_at DESC").Limit(1).Find(&refuelings).Error
	if err = r.done("latest", start, err); err != nil {
		return nil, err
	}
	if len(refuelings) == 0 {
		return nil, nil
	}
	return &refuelings[0], nil
}
