//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"office-duty/internal/model"
	"office-duty/internal/repository"
	"office-duty/pkg/database"
	pkgerrors "office-duty/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=postgres password=postgres dbname=office_duty_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// resetTables 清空排班相关表
func resetTables(t *testing.T) {
	t.Helper()
	err := testDB.Exec(`TRUNCATE duty_change_logs, rotation_pointers, duty_assignments, duty_schedules,
		duty_months, calendar_overrides, roster_entries, duty_rules, slot_configs, duty_categories, persons CASCADE`).Error
	if err != nil {
		t.Fatalf("清空表失败: %v", err)
	}
}

type fixture struct {
	category *model.DutyCategory
	slot     *model.SlotConfig
	personA  *model.Person
	personB  *model.Person
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	resetTables(t)
	ctx := context.Background()

	f := &fixture{
		category: &model.DutyCategory{Name: "工程师", Strategy: "unified_loop"},
		personA:  &model.Person{Name: "工程师A", EmployeeNo: "E001", IsActive: true},
		personB:  &model.Person{Name: "工程师B", EmployeeNo: "E002", IsActive: true},
	}
	for _, v := range []interface{}{f.category, f.personA, f.personB} {
		if err := testDB.WithContext(ctx).Create(v).Error; err != nil {
			t.Fatalf("创建基础数据失败: %v", err)
		}
	}
	f.slot = &model.SlotConfig{Name: "值班", SortOrder: 1, AllowedCategoryIDs: model.StringArray{f.category.CategoryID}, IsActive: true}
	if err := testDB.WithContext(ctx).Create(f.slot).Error; err != nil {
		t.Fatalf("创建岗位失败: %v", err)
	}
	return f
}

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

// createMonth 创建月份及其每日排班（每天一个 personA 分配）
func createMonth(t *testing.T, repo *repository.Repository, f *fixture, m time.Month, days int) *model.DutyMonth {
	t.Helper()
	ctx := context.Background()

	month := &model.DutyMonth{Year: 2025, Month: int(m), Status: "draft", PendingState: "{}", Fingerprint: "abcd"}
	if err := repo.Month.Create(ctx, month); err != nil {
		t.Fatalf("创建月份失败: %v", err)
	}

	schedules := make([]model.DutySchedule, 0, days)
	for d := 1; d <= days; d++ {
		schedules = append(schedules, model.DutySchedule{
			MonthID:  month.MonthID,
			DutyDate: day(m, d),
			Status:   "draft",
			Assignments: []model.DutyAssignment{{
				SlotID:     f.slot.SlotID,
				PersonID:   f.personA.PersonID,
				CategoryID: f.category.CategoryID,
			}},
		})
	}
	if err := repo.Schedule.BatchCreate(ctx, schedules); err != nil {
		t.Fatalf("批量创建排班失败: %v", err)
	}
	return month
}

// ═══════════════════════════════════════════════════════════
// Test: DutyMonth 乐观锁
// ═══════════════════════════════════════════════════════════

func TestDutyMonth_UpdateOptimisticLock(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	month := createMonth(t, repo, f, time.February, 3)

	stale := *month
	month.Status = "published"
	if err := repo.Month.Update(ctx, month); err != nil {
		t.Fatalf("首次更新失败: %v", err)
	}
	if month.Version != 2 {
		t.Errorf("期望 version=2，实际 %d", month.Version)
	}

	if err := repo.Month.Update(ctx, &stale); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("旧版本更新应返回 ErrOptimisticLock，实际 %v", err)
	}
}

func TestDutyMonth_DeleteDraftCascades(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	month := createMonth(t, repo, f, time.February, 5)

	if err := repo.Month.DeleteDraft(ctx, month.MonthID, month.Version+1); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("版本不匹配应返回 ErrOptimisticLock，实际 %v", err)
	}
	if err := repo.Month.DeleteDraft(ctx, month.MonthID, month.Version); err != nil {
		t.Fatalf("删除草稿失败: %v", err)
	}

	days, err := repo.Schedule.ListByMonth(ctx, month.MonthID)
	if err != nil {
		t.Fatalf("ListByMonth 失败: %v", err)
	}
	if len(days) != 0 {
		t.Errorf("每日排班应级联删除，剩余 %d", len(days))
	}
}

func TestDutyMonth_GetLatestPublished(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	if _, err := repo.Month.GetLatestPublished(ctx); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("无已发布月份时应返回 ErrRecordNotFound，实际 %v", err)
	}

	jan := createMonth(t, repo, f, time.January, 1)
	feb := createMonth(t, repo, f, time.February, 1)
	for _, m := range []*model.DutyMonth{jan, feb} {
		m.Status = "published"
		if err := repo.Month.Update(ctx, m); err != nil {
			t.Fatalf("发布失败: %v", err)
		}
	}

	latest, err := repo.Month.GetLatestPublished(ctx)
	if err != nil {
		t.Fatalf("GetLatestPublished 失败: %v", err)
	}
	if latest.Month != 2 {
		t.Errorf("期望最近发布为 2 月，实际 %d", latest.Month)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction Rollback
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	month := createMonth(t, repo, f, time.February, 2)
	boom := errors.New("boom")

	err := repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Schedule.UpdateStatusByMonth(ctx, month.MonthID, "published"); err != nil {
			return err
		}
		if err := tx.Pointer.ReplaceAll(ctx, []model.RotationPointer{{TrackKey: "k", PersonID: f.personA.PersonID}}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("期望返回 boom，实际 %v", err)
	}

	days, _ := repo.Schedule.ListByMonth(ctx, month.MonthID)
	for _, d := range days {
		if d.Status != "draft" {
			t.Errorf("事务回滚后状态应为 draft，实际 %s", d.Status)
		}
	}
	pointers, _ := repo.Pointer.List(ctx)
	if len(pointers) != 0 {
		t.Errorf("事务回滚后不应有指针，实际 %d", len(pointers))
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Schedule / Assignment
// ═══════════════════════════════════════════════════════════

func TestSchedule_DuplicateDateRejected(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	month := createMonth(t, repo, f, time.February, 1)
	err := repo.Schedule.BatchCreate(ctx, []model.DutySchedule{{MonthID: month.MonthID, DutyDate: day(time.February, 1), Status: "draft"}})
	if err == nil {
		t.Error("同一日期重复排班应被唯一索引拒绝")
	}
}

func TestAssignment_UpdateOptimisticLock(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	createMonth(t, repo, f, time.February, 1)
	sched, err := repo.Schedule.GetByDate(ctx, day(time.February, 1))
	if err != nil {
		t.Fatalf("GetByDate 失败: %v", err)
	}
	a := sched.Assignments[0]
	stale := a

	a.PersonID = f.personB.PersonID
	if err := repo.Assignment.Update(ctx, &a); err != nil {
		t.Fatalf("更新分配失败: %v", err)
	}
	stale.PersonID = f.personA.PersonID
	if err := repo.Assignment.Update(ctx, &stale); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("旧版本更新应返回 ErrOptimisticLock，实际 %v", err)
	}

	got, _ := repo.Schedule.GetByDate(ctx, day(time.February, 1))
	if got.Assignments[0].PersonID != f.personB.PersonID {
		t.Errorf("分配人员应为 B")
	}
}

func TestSchedule_ListPublishedByPerson(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	month := createMonth(t, repo, f, time.February, 4)
	if got, _ := repo.Schedule.ListPublishedByPerson(ctx, f.personA.PersonID); len(got) != 0 {
		t.Errorf("草稿不应计入，实际 %d", len(got))
	}

	if err := repo.Schedule.UpdateStatusByMonth(ctx, month.MonthID, "published"); err != nil {
		t.Fatalf("UpdateStatusByMonth 失败: %v", err)
	}
	if got, _ := repo.Schedule.ListPublishedByPerson(ctx, f.personA.PersonID); len(got) != 4 {
		t.Errorf("期望 4 天，实际 %d", len(got))
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Calendar / ChangeLog / Roster
// ═══════════════════════════════════════════════════════════

func TestCalendar_UpsertIdempotent(t *testing.T) {
	resetTables(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	overrides := []model.CalendarOverride{
		{Date: day(time.October, 1), Type: "holiday", Name: "国庆节", Source: "ics"},
		{Date: day(time.September, 28), Type: "workday_override", Name: "国庆补班", Source: "ics"},
	}
	for i := 0; i < 2; i++ {
		batch := append([]model.CalendarOverride(nil), overrides...)
		if err := repo.Calendar.Upsert(ctx, batch); err != nil {
			t.Fatalf("第 %d 次 Upsert 失败: %v", i+1, err)
		}
	}

	got, err := repo.Calendar.ListRange(ctx, day(time.September, 1), day(time.October, 31))
	if err != nil {
		t.Fatalf("ListRange 失败: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("重复导入不应产生重复日期，实际 %d", len(got))
	}
}

func TestChangeLog_ListFilter(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	for d := 1; d <= 3; d++ {
		entry := &model.DutyChangeLog{
			DutyDate:         day(time.February, d),
			SlotID:           f.slot.SlotID,
			OriginalPersonID: f.personA.PersonID,
			NewPersonID:      f.personB.PersonID,
			ChangeType:       "swap",
			Reason:           "出差",
			OperatorID:       f.personA.PersonID,
		}
		if err := repo.ChangeLog.Create(ctx, entry); err != nil {
			t.Fatalf("创建变更日志失败: %v", err)
		}
	}

	from := day(time.February, 2)
	list, total, err := repo.ChangeLog.List(ctx, repository.ChangeLogFilter{From: &from, PersonID: f.personB.PersonID}, 0, 1)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 2 || len(list) != 1 {
		t.Errorf("期望 total=2 且本页 1 条，实际 total=%d len=%d", total, len(list))
	}
}

func TestRoster_UpsertByPersonAndCategory(t *testing.T) {
	f := setupFixture(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	entry := &model.RosterEntry{PersonID: f.personA.PersonID, CategoryID: f.category.CategoryID, SortOrder: 1}
	if err := repo.Roster.Upsert(ctx, entry); err != nil {
		t.Fatalf("首次 Upsert 失败: %v", err)
	}
	entry2 := &model.RosterEntry{PersonID: f.personA.PersonID, CategoryID: f.category.CategoryID, SortOrder: 5, IsExempt: true}
	if err := repo.Roster.Upsert(ctx, entry2); err != nil {
		t.Fatalf("二次 Upsert 失败: %v", err)
	}

	list, err := repo.Roster.ListByCategory(ctx, f.category.CategoryID)
	if err != nil {
		t.Fatalf("ListByCategory 失败: %v", err)
	}
	if len(list) != 1 || list[0].SortOrder != 5 || !list[0].IsExempt {
		t.Errorf("Upsert 应更新已有条目: %+v", list)
	}
}
