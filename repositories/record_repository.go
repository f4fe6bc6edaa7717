package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"reabastece-api/apperrors"
	"reabastece-api/metrics"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListOptions selects one page of an owner's records.
type ListOptions struct {
	OrderBy string
	Page    int
	Limit   int
}

// Normalize clamps the page to 1.. and the limit to 1..MaxPageSize.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = DefaultPageSize
	}
	if o.Limit > MaxPageSize {
		o.Limit = MaxPageSize
	}
	return o
}

func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// RecordRepository stores one owner-scoped record type. Every query is
// filtered by user_id, so a record of another user reads as not found.
type RecordRepository[T any] struct {
	db           *gorm.DB
	name         string
	defaultOrder string
	preloads     []string
}

func NewRecordRepository[T any](db *gorm.DB, name, defaultOrder string) *RecordRepository[T] {
	return &RecordRepository[T]{db: db, name: name, defaultOrder: defaultOrder}
}

// WithPreload loads the named associations on every read.
func (r *RecordRepository[T]) WithPreload(associations ...string) *RecordRepository[T] {
	r.preloads = append(r.preloads, associations...)
	return r
}

func (r *RecordRepository[T]) DB() *gorm.DB {
	return r.db
}

func (r *RecordRepository[T]) reader(ctx context.Context) *gorm.DB {
	tx := r.db.WithContext(ctx)
	for _, name := range r.preloads {
		tx = tx.Preload(name)
	}
	return tx
}

func (r *RecordRepository[T]) Create(ctx context.Context, record *T) error {
	start := time.Now()
	err := r.db.WithContext(ctx).Create(record).Error
	return r.done("create", start, err)
}

func (r *RecordRepository[T]) FindByID(ctx context.Context, id, owner string) (*T, error) {
	start := time.Now()
	var record T
	err := r.reader(ctx).Where("id = ? AND user_id = ?", id, owner).First(&record).Error
	if err = r.done("find", start, err); err != nil {
		return nil, err
	}
	return &record, nil
}

// Update writes fields onto the record and returns it as stored afterwards.
func (r *RecordRepository[T]) Update(ctx context.Context, id, owner string, fields map[string]interface{}) (*T, error) {
	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current T
		if err := tx.Where("id = ? AND user_id = ?", id, owner).First(&current).Error; err != nil {
			return err
		}
		return tx.Model(&current).Updates(fields).Error
	})

	var record T
	if err == nil {
		err = r.reader(ctx).Where("id = ? AND user_id = ?", id, owner).First(&record).Error
	}
	if err = r.done("update", start, err); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *RecordRepository[T]) Delete(ctx context.Context, id, owner string) error {
	start := time.Now()
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).Delete(new(T))
	err := result.Error
	if err == nil && result.RowsAffected == 0 {
		err = gorm.ErrRecordNotFound
	}
	return r.done("delete", start, err)
}

// List returns one page of the owner's records and the owner's total count.
func (r *RecordRepository[T]) List(ctx context.Context, owner string, opts ListOptions) ([]T, int64, error) {
	start := time.Now()
	opts = opts.Normalize()
	order := opts.OrderBy
	if order == "" {
		order = r.defaultOrder
	}

	var (
		records []T
		total   int64
	)
	owned := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(new(T)).Where("user_id = ?", owner)
	}
	err := owned().Count(&total).Error
	if err == nil {
		err = r.reader(ctx).Where("user_id = ?", owner).Order(order).Offset(opts.Offset()).Limit(opts.Limit).Find(&records).Error
	}
	if err = r.done("list", start, err); err != nil {
		return nil, 0, err
	}
	if records == nil {
		records = []T{}
	}
	return records, total, nil
}

// done records the query and maps gorm errors onto the application taxonomy.
func (r *RecordRepository[T]) done(op string, start time.Time, err error) error {
	mapped := mapError(r.name+"."+op, err)
	metricsDone(r.name+"."+op, start, mapped)
	return mapped
}

func metricsDone(op string, start time.Time, err error) {
	metrics.RecordDatabaseQuery(op, err, time.Since(start))
}

func mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, apperrors.ErrNotFound):
		return apperrors.ErrNotFound
	default:
		return apperrors.NewPersistenceError(op, err)
	}
}
