package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"office-duty/internal/model"
)

// CalendarOverrideRepository 日历覆盖数据访问接口
type CalendarOverrideRepository interface {
	List(ctx context.Context) ([]model.CalendarOverride, error)
	ListRange(ctx context.Context, from, to time.Time) ([]model.CalendarOverride, error)
	Upsert(ctx context.Context, overrides []model.CalendarOverride) error
}

type calendarOverrideRepo struct {
	db *gorm.DB
}

// NewCalendarOverrideRepo 创建 CalendarOverrideRepository 实例
func NewCalendarOverrideRepo(db *gorm.DB) CalendarOverrideRepository {
	return &calendarOverrideRepo{db: db}
}

func (r *calendarOverrideRepo) List(ctx context.Context) ([]model.CalendarOverride, error) {
	var overrides []model.CalendarOverride
	err := r.db.WithContext(ctx).
		Order("date ASC").
		Find(&overrides).Error
	return overrides, err
}

// ListRange 查询 [from, to] 闭区间内的覆盖
func (r *calendarOverrideRepo) ListRange(ctx context.Context, from, to time.Time) ([]model.CalendarOverride, error) {
	var overrides []model.CalendarOverride
	err := r.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", from, to).
		Order("date ASC").
		Find(&overrides).Error
	return overrides, err
}

// Upsert 以 date 为冲突键批量写入
func (r *calendarOverrideRepo) Upsert(ctx context.Context, overrides []model.CalendarOverride) error {
	if len(overrides) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "name", "source", "updated_by", "updated_at"}),
		}).
		Create(&overrides).Error
}
