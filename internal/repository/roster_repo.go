package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"office-duty/internal/model"
	pkgerrors "office-duty/pkg/errors"
)

// PersonRepository 人员数据访问接口
type PersonRepository interface {
	Create(ctx context.Context, person *model.Person) error
	GetByID(ctx context.Context, id string) (*model.Person, error)
	GetByEmployeeNo(ctx context.Context, employeeNo string) (*model.Person, error)
	ListActive(ctx context.Context) ([]model.Person, error)
	Update(ctx context.Context, person *model.Person) error
}

// CategoryRepository 值班类别数据访问接口
type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*model.DutyCategory, error)
	GetByName(ctx context.Context, name string) (*model.DutyCategory, error)
	List(ctx context.Context) ([]model.DutyCategory, error)
}

// DutyRuleRepository 参与规则数据访问接口
type DutyRuleRepository interface {
	List(ctx context.Context) ([]model.DutyRule, error)
}

// RosterRepository 花名册数据访问接口
type RosterRepository interface {
	List(ctx context.Context) ([]model.RosterEntry, error)
	ListByCategory(ctx context.Context, categoryID string) ([]model.RosterEntry, error)
	Upsert(ctx context.Context, entry *model.RosterEntry) error
}

// SlotConfigRepository 岗位配置数据访问接口
type SlotConfigRepository interface {
	ListActive(ctx context.Context) ([]model.SlotConfig, error)
}

// ── Person Repository 实现 ──

type personRepo struct {
	db *gorm.DB
}

// NewPersonRepo 创建 PersonRepository 实例
func NewPersonRepo(db *gorm.DB) PersonRepository {
	return &personRepo{db: db}
}

func (r *personRepo) Create(ctx context.Context, person *model.Person) error {
	return r.db.WithContext(ctx).Create(person).Error
}

func (r *personRepo) GetByID(ctx context.Context, id string) (*model.Person, error) {
	var person model.Person
	err := r.db.WithContext(ctx).
		Where("person_id = ?", id).
		First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *personRepo) GetByEmployeeNo(ctx context.Context, employeeNo string) (*model.Person, error) {
	var person model.Person
	err := r.db.WithContext(ctx).
		Where("employee_no = ?", employeeNo).
		First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *personRepo) ListActive(ctx context.Context) ([]model.Person, error) {
	var persons []model.Person
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("employee_no ASC").
		Find(&persons).Error
	return persons, err
}

func (r *personRepo) Update(ctx context.Context, person *model.Person) error {
	oldVersion := person.Version
	result := r.db.WithContext(ctx).
		Model(person).
		Where("person_id = ? AND version = ?", person.PersonID, oldVersion).
		Updates(map[string]interface{}{
			"name":       person.Name,
			"is_active":  person.IsActive,
			"updated_by": person.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	person.Version = oldVersion + 1
	return nil
}

// ── Category Repository 实现 ──

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo 创建 CategoryRepository 实例
func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*model.DutyCategory, error) {
	var cat model.DutyCategory
	err := r.db.WithContext(ctx).
		Where("category_id = ?", id).
		First(&cat).Error
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*model.DutyCategory, error) {
	var cat model.DutyCategory
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&cat).Error
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]model.DutyCategory, error) {
	var cats []model.DutyCategory
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&cats).Error
	return cats, err
}

// ── DutyRule Repository 实现 ──

type dutyRuleRepo struct {
	db *gorm.DB
}

// NewDutyRuleRepo 创建 DutyRuleRepository 实例
func NewDutyRuleRepo(db *gorm.DB) DutyRuleRepository {
	return &dutyRuleRepo{db: db}
}

func (r *dutyRuleRepo) List(ctx context.Context) ([]model.DutyRule, error) {
	var rules []model.DutyRule
	err := r.db.WithContext(ctx).
		Order("category_id ASC").
		Find(&rules).Error
	return rules, err
}

// ── Roster Repository 实现 ──

type rosterRepo struct {
	db *gorm.DB
}

// NewRosterRepo 创建 RosterRepository 实例
func NewRosterRepo(db *gorm.DB) RosterRepository {
	return &rosterRepo{db: db}
}

// List 按 sort_order、entry_id 排序，保证池构建输入顺序稳定
func (r *rosterRepo) List(ctx context.Context) ([]model.RosterEntry, error) {
	var entries []model.RosterEntry
	err := r.db.WithContext(ctx).
		Order("category_id ASC, sort_order ASC, entry_id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *rosterRepo) ListByCategory(ctx context.Context, categoryID string) ([]model.RosterEntry, error) {
	var entries []model.RosterEntry
	err := r.db.WithContext(ctx).
		Preload("Person").
		Where("category_id = ?", categoryID).
		Order("sort_order ASC, entry_id ASC").
		Find(&entries).Error
	return entries, err
}

// Upsert 以 (person_id, category_id) 为冲突键写入条目
func (r *rosterRepo) Upsert(ctx context.Context, entry *model.RosterEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "person_id"}, {Name: "category_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "deleted_at IS NULL"}}},
			DoUpdates:   clause.AssignmentColumns([]string{"is_exempt", "sort_order", "updated_by", "updated_at"}),
		}).
		Create(entry).Error
}

// ── SlotConfig Repository 实现 ──

type slotConfigRepo struct {
	db *gorm.DB
}

// NewSlotConfigRepo 创建 SlotConfigRepository 实例
func NewSlotConfigRepo(db *gorm.DB) SlotConfigRepository {
	return &slotConfigRepo{db: db}
}

func (r *slotConfigRepo) ListActive(ctx context.Context) ([]model.SlotConfig, error) {
	var slots []model.SlotConfig
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, slot_id ASC").
		Find(&slots).Error
	return slots, err
}
