package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"office-duty/internal/model"
	pkgerrors "office-duty/pkg/errors"
)

// DutyMonthRepository 月度排班数据访问接口
type DutyMonthRepository interface {
	Create(ctx context.Context, month *model.DutyMonth) error
	GetByID(ctx context.Context, id string) (*model.DutyMonth, error)
	GetByYearMonth(ctx context.Context, year, month int) (*model.DutyMonth, error)
	GetLatestPublished(ctx context.Context) (*model.DutyMonth, error)
	Update(ctx context.Context, month *model.DutyMonth) error
	DeleteDraft(ctx context.Context, id string, version int) error
}

// DutyScheduleRepository 每日排班数据访问接口
type DutyScheduleRepository interface {
	BatchCreate(ctx context.Context, days []model.DutySchedule) error
	GetByDate(ctx context.Context, date time.Time) (*model.DutySchedule, error)
	ListByMonth(ctx context.Context, monthID string) ([]model.DutySchedule, error)
	ListRange(ctx context.Context, from, to time.Time, status string) ([]model.DutySchedule, error)
	ListPublishedByPerson(ctx context.Context, personID string) ([]model.DutySchedule, error)
	UpdateStatusByMonth(ctx context.Context, monthID, status string) error
}

// DutyAssignmentRepository 岗位分配数据访问接口
type DutyAssignmentRepository interface {
	Update(ctx context.Context, assignment *model.DutyAssignment) error
}

// ChangeLogFilter 变更日志过滤条件
type ChangeLogFilter struct {
	From     *time.Time
	To       *time.Time
	PersonID string // 原值班人或新值班人
}

// DutyChangeLogRepository 变更日志数据访问接口
type DutyChangeLogRepository interface {
	Create(ctx context.Context, log *model.DutyChangeLog) error
	List(ctx context.Context, filter ChangeLogFilter, offset, limit int) ([]model.DutyChangeLog, int64, error)
}

// RotationPointerRepository 轮换指针数据访问接口
type RotationPointerRepository interface {
	List(ctx context.Context) ([]model.RotationPointer, error)
	ReplaceAll(ctx context.Context, pointers []model.RotationPointer) error
}

// ── DutyMonth Repository 实现 ──

type dutyMonthRepo struct {
	db *gorm.DB
}

// NewDutyMonthRepo 创建 DutyMonthRepository 实例
func NewDutyMonthRepo(db *gorm.DB) DutyMonthRepository {
	return &dutyMonthRepo{db: db}
}

func (r *dutyMonthRepo) Create(ctx context.Context, month *model.DutyMonth) error {
	return r.db.WithContext(ctx).Create(month).Error
}

func (r *dutyMonthRepo) GetByID(ctx context.Context, id string) (*model.DutyMonth, error) {
	var month model.DutyMonth
	err := r.db.WithContext(ctx).
		Where("month_id = ?", id).
		First(&month).Error
	if err != nil {
		return nil, err
	}
	return &month, nil
}

func (r *dutyMonthRepo) GetByYearMonth(ctx context.Context, year, month int) (*model.DutyMonth, error) {
	var m model.DutyMonth
	err := r.db.WithContext(ctx).
		Where("year = ? AND month = ?", year, month).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *dutyMonthRepo) GetLatestPublished(ctx context.Context) (*model.DutyMonth, error) {
	var m model.DutyMonth
	err := r.db.WithContext(ctx).
		Where("status = ?", "published").
		Order("year DESC, month DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Update 乐观锁更新：version 不匹配时返回 ErrOptimisticLock
func (r *dutyMonthRepo) Update(ctx context.Context, month *model.DutyMonth) error {
	oldVersion := month.Version
	result := r.db.WithContext(ctx).
		Model(month).
		Where("month_id = ? AND version = ?", month.MonthID, oldVersion).
		Updates(map[string]interface{}{
			"status":        month.Status,
			"pending_state": month.PendingState,
			"fingerprint":   month.Fingerprint,
			"based_on":      month.BasedOn,
			"published_at":  month.PublishedAt,
			"updated_by":    month.UpdatedBy,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	month.Version = oldVersion + 1
	return nil
}

// DeleteDraft 物理删除草稿月份，每日排班与分配随外键级联删除
// 月份已发布或 version 不匹配时返回 ErrOptimisticLock
func (r *dutyMonthRepo) DeleteDraft(ctx context.Context, id string, version int) error {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("month_id = ? AND status = ? AND version = ?", id, "draft", version).
		Delete(&model.DutyMonth{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

// ── DutySchedule Repository 实现 ──

type dutyScheduleRepo struct {
	db *gorm.DB
}

// NewDutyScheduleRepo 创建 DutyScheduleRepository 实例
func NewDutyScheduleRepo(db *gorm.DB) DutyScheduleRepository {
	return &dutyScheduleRepo{db: db}
}

// BatchCreate 批量创建每日排班（连同 Assignments）
func (r *dutyScheduleRepo) BatchCreate(ctx context.Context, days []model.DutySchedule) error {
	if len(days) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&days).Error
}

// preloaded 预加载分配及其人员、岗位；分配顺序由调用方按岗位 sort_order 整理
func (r *dutyScheduleRepo) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Assignments").
		Preload("Assignments.Person").
		Preload("Assignments.Slot")
}

func (r *dutyScheduleRepo) GetByDate(ctx context.Context, date time.Time) (*model.DutySchedule, error) {
	var day model.DutySchedule
	err := r.preloaded(ctx).
		Where("duty_date = ?", date).
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *dutyScheduleRepo) ListByMonth(ctx context.Context, monthID string) ([]model.DutySchedule, error) {
	var days []model.DutySchedule
	err := r.preloaded(ctx).
		Where("month_id = ?", monthID).
		Order("duty_date ASC").
		Find(&days).Error
	return days, err
}

// ListRange 查询 [from, to] 闭区间内的每日排班；status 为空时不过滤
func (r *dutyScheduleRepo) ListRange(ctx context.Context, from, to time.Time, status string) ([]model.DutySchedule, error) {
	var days []model.DutySchedule
	q := r.preloaded(ctx).Where("duty_date BETWEEN ? AND ?", from, to)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("duty_date ASC").Find(&days).Error
	return days, err
}

func (r *dutyScheduleRepo) ListPublishedByPerson(ctx context.Context, personID string) ([]model.DutySchedule, error) {
	var days []model.DutySchedule
	sub := r.db.Model(&model.DutyAssignment{}).
		Select("schedule_id").
		Where("person_id = ?", personID)
	err := r.preloaded(ctx).
		Where("status = ? AND schedule_id IN (?)", "published", sub).
		Order("duty_date ASC").
		Find(&days).Error
	return days, err
}

func (r *dutyScheduleRepo) UpdateStatusByMonth(ctx context.Context, monthID, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.DutySchedule{}).
		Where("month_id = ?", monthID).
		Update("status", status).Error
}

// ── DutyAssignment Repository 实现 ──

type dutyAssignmentRepo struct {
	db *gorm.DB
}

// NewDutyAssignmentRepo 创建 DutyAssignmentRepository 实例
func NewDutyAssignmentRepo(db *gorm.DB) DutyAssignmentRepository {
	return &dutyAssignmentRepo{db: db}
}

func (r *dutyAssignmentRepo) Update(ctx context.Context, a *model.DutyAssignment) error {
	oldVersion := a.Version
	result := r.db.WithContext(ctx).
		Model(a).
		Where("assignment_id = ? AND version = ?", a.AssignmentID, oldVersion).
		Updates(map[string]interface{}{
			"person_id":  a.PersonID,
			"updated_by": a.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	a.Version = oldVersion + 1
	return nil
}

// ── DutyChangeLog Repository 实现 ──

type dutyChangeLogRepo struct {
	db *gorm.DB
}

// NewDutyChangeLogRepo 创建 DutyChangeLogRepository 实例
func NewDutyChangeLogRepo(db *gorm.DB) DutyChangeLogRepository {
	return &dutyChangeLogRepo{db: db}
}

func (r *dutyChangeLogRepo) Create(ctx context.Context, log *model.DutyChangeLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *dutyChangeLogRepo) List(ctx context.Context, filter ChangeLogFilter, offset, limit int) ([]model.DutyChangeLog, int64, error) {
	var logs []model.DutyChangeLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.DutyChangeLog{})
	if filter.From != nil {
		db = db.Where("duty_date >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("duty_date <= ?", *filter.To)
	}
	if filter.PersonID != "" {
		db = db.Where("original_person_id = ? OR new_person_id = ?", filter.PersonID, filter.PersonID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, total, err
}

// ── RotationPointer Repository 实现 ──

type rotationPointerRepo struct {
	db *gorm.DB
}

// NewRotationPointerRepo 创建 RotationPointerRepository 实例
func NewRotationPointerRepo(db *gorm.DB) RotationPointerRepository {
	return &rotationPointerRepo{db: db}
}

func (r *rotationPointerRepo) List(ctx context.Context) ([]model.RotationPointer, error) {
	var pointers []model.RotationPointer
	err := r.db.WithContext(ctx).
		Order("track_key ASC").
		Find(&pointers).Error
	return pointers, err
}

// ReplaceAll 以新快照整体替换指针表；应在事务中调用
func (r *rotationPointerRepo) ReplaceAll(ctx context.Context, pointers []model.RotationPointer) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("1 = 1").Delete(&model.RotationPointer{}).Error; err != nil {
		return err
	}
	if len(pointers) == 0 {
		return nil
	}
	return db.Create(&pointers).Error
}
