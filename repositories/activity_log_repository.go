package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"reabastece-api/models"
)

// ActivityLogRepository writes the rows of the scheduled heartbeat. The table
// is not owner scoped.
type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

func (r *ActivityLogRepository) Insert(ctx context.Context, entry *models.ActivityLog) error {
	start := time.Now()
	err := mapError("activity_log.insert", r.db.WithContext(ctx).Create(entry).Error)
	metricsDone("activity_log.insert", start, err)
	return err
}

// Recent returns the newest entries first.
func (r *ActivityLogRepository) Recent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	start := time.Now()
	var entries []models.ActivityLog
	err := mapError("activity_log.recent", r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&entries).Error)
	metricsDone("activity_log.recent", start, err)
	return entries, err
}

// DeleteOlderThan prunes entries created before the cutoff.
func (r *ActivityLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	start := time.Now()
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	err := mapError("activity_log.prune", result.Error)
	metricsDone("activity_log.prune", start, err)
	return result.RowsAffected, err
}
