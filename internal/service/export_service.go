package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"office-duty/internal/model"
	"office-duty/internal/repository"
	"office-duty/internal/rotation"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSchedule   = errors.New("该月暂无排班")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportMonth 导出月度排班为 Excel
	ExportMonth(ctx context.Context, year, month int) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var dateTypeNames = map[rotation.DateType]string{
	rotation.DateWorkday: "工作日",
	rotation.DateWeekend: "周末",
	rotation.DateHoliday: "节假日",
}

var weekdayNames = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// ═══════════════════════════════════════════════════════════
// ExportMonth — 导出月度排班为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 标题行：YYYY-MM 值班表（状态）
//   - 表头：日期 | 星期 | 类型 | 岗位1 | 岗位2 ...
//   - 单元格：人员姓名，未排为 "-"
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportMonth(ctx context.Context, year, month int) (*bytes.Buffer, string, error) {
	// 1. 查询月份
	m, err := s.repo.Month.GetByYearMonth(ctx, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrExportNoSchedule
		}
		s.logger.Error("查询月度排班失败", zap.Error(err))
		return nil, "", err
	}
	mm := monthOfModel(m)

	// 2. 每日排班与日历
	days, err := s.repo.Schedule.ListByMonth(ctx, m.MonthID)
	if err != nil {
		s.logger.Error("查询每日排班失败", zap.Error(err))
		return nil, "", err
	}
	overrides, err := s.repo.Calendar.ListRange(ctx, mm.Date(1), mm.Date(mm.Days()))
	if err != nil {
		s.logger.Error("查询日历覆盖失败", zap.Error(err))
		return nil, "", err
	}
	cal := rotation.NewCalendar(toEngineOverrides(overrides))

	// 3. 列：出现过的岗位，按 sort_order 排
	slots := collectSlots(days)
	slotCol := make(map[string]int, len(slots))
	for i, sl := range slots {
		slotCol[sl.SlotID] = 3 + i
	}

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "值班表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "C", 8)
	for i := range slots {
		col := colName(3 + i)
		f.SetColWidth(sheetName, col, col, 16)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	offStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FCE4D6"}, Pattern: 1},
	})

	// 标题行
	status := "草稿"
	if m.Status == string(rotation.StatusPublished) {
		status = "已发布"
	}
	lastCol := colName(2 + len(slots))
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s 值班表（%s）", mm.String(), status))
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", cell(lastCol, 1), headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "日期")
	f.SetCellValue(sheetName, cell("B", row), "星期")
	f.SetCellValue(sheetName, cell("C", row), "类型")
	for i, sl := range slots {
		f.SetCellValue(sheetName, cell(colName(3+i), row), sl.Name)
	}
	f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), headerStyle)

	// 数据行
	row = 3
	for _, d := range days {
		dt := cal.Classify(d.DutyDate)
		f.SetCellValue(sheetName, cell("A", row), rotation.DateKey(d.DutyDate))
		f.SetCellValue(sheetName, cell("B", row), weekdayNames[d.DutyDate.Weekday()])
		f.SetCellValue(sheetName, cell("C", row), dateTypeNames[dt])
		for i := range slots {
			f.SetCellValue(sheetName, cell(colName(3+i), row), "-")
		}
		for _, a := range d.Assignments {
			text := a.PersonID
			if a.Person != nil {
				text = a.Person.Name
			}
			f.SetCellValue(sheetName, cell(colName(slotCol[a.SlotID]), row), text)
		}
		if dt != rotation.DateWorkday {
			f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), offStyle)
		}
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("值班表_%s.xlsx", mm.String())
	return buf, filename, nil
}

// collectSlots 收集当月出现过的岗位，按 sort_order、slot_id 排序
func collectSlots(days []model.DutySchedule) []model.SlotConfig {
	seen := make(map[string]bool)
	var slots []model.SlotConfig
	for _, d := range days {
		for _, a := range d.Assignments {
			if seen[a.SlotID] {
				continue
			}
			seen[a.SlotID] = true
			sl := model.SlotConfig{SlotID: a.SlotID, Name: a.SlotID}
			if a.Slot != nil {
				sl = *a.Slot
			}
			slots = append(slots, sl)
		}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].SortOrder != slots[j].SortOrder {
			return slots[i].SortOrder < slots[j].SortOrder
		}
		return slots[i].SlotID < slots[j].SlotID
	})
	return slots
}

// ── 辅助函数 ──

// colName 0 基列号转列名
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
