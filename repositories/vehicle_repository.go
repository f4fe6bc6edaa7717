package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"reabastece-api/models"
)

type VehicleRepository struct {
	*RecordRepository[models.Vehicle]
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{
		RecordRepository: NewRecordRepository[models.Vehicle](db, "vehicles", "created_at DESC"),
	}
}

// Delete removes the vehicle together with its refuelings and usage sessions.
func (r *VehicleRepository) Delete(ctx context.Context, id, owner string) error {
	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vehicle models.Vehicle
		if err := tx.Where("id = ? AND user_id = ?", id, owner).First(&vehicle).Error; err != nil {
			return err
		}
		if err := tx.Where("vehicle_id = ?", id).Delete(&models.VehicleUsage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vehicle_id = ?", id).Delete(&models.Refueling{}).Error; err != nil {
			return err
		}
		return tx.Delete(&vehicle).Error
	})
	return r.done("delete", start, err)
}

func (r *VehicleRepository) Count(ctx context.Context, owner string) (int64, error) {
	start := time.Now()
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Where("user_id = ?", owner).Count(&count).Error
	if err = r.done("count", start, err); err != nil {
		return 0, err
	}
	return count, nil
}
