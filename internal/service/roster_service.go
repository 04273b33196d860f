package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"office-duty/internal/dto"
	"office-duty/internal/model"
	"office-duty/internal/repository"
)

// ── 花名册模块业务错误 ──

var (
	ErrRosterFileInvalid = errors.New("花名册文件无法读取，请上传 .xlsx 文件")
	ErrRosterEmpty       = errors.New("花名册中无数据行")
)

// RosterService 花名册业务接口
type RosterService interface {
	// ImportRoster 导入花名册表格
	//
	// 表头占第 1 行，列依次为：姓名 | 工号 | 值班类别 | 排序 | 豁免（是/否）
	ImportRoster(ctx context.Context, reader io.Reader, operatorID string) (*dto.ImportRosterResponse, error)
}

type rosterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRosterService 创建 RosterService 实例
func NewRosterService(repo *repository.Repository, logger *zap.Logger) RosterService {
	return &rosterService{repo: repo, logger: logger}
}

// rosterRow 表格中的一行
type rosterRow struct {
	line       int
	name       string
	employeeNo string
	category   string
	sortOrder  int
	exempt     bool
}

func (s *rosterService) ImportRoster(ctx context.Context, reader io.Reader, operatorID string) (*dto.ImportRosterResponse, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		s.logger.Warn("读取花名册失败", zap.Error(err))
		return nil, ErrRosterFileInvalid
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		s.logger.Warn("读取花名册工作表失败", zap.Error(err))
		return nil, ErrRosterFileInvalid
	}
	if len(rows) <= 1 {
		return nil, ErrRosterEmpty
	}

	resp := &dto.ImportRosterResponse{}
	var parsed []rosterRow
	for i, cols := range rows[1:] {
		line := i + 2
		if isBlankRow(cols) {
			continue
		}
		resp.Rows++
		row, msg := parseRosterRow(line, cols)
		if msg != "" {
			resp.Errors = append(resp.Errors, dto.ImportRowError{Row: line, Message: msg})
			continue
		}
		parsed = append(parsed, row)
	}

	var op *string
	if operatorID != "" {
		op = &operatorID
	}

	err = s.repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
		categories := make(map[string]*model.DutyCategory)
		for _, row := range parsed {
			cat, ok := categories[row.category]
			if !ok {
				c, err := tx.Category.GetByName(ctx, row.category)
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				cat = c
				categories[row.category] = c
			}
			if cat == nil {
				resp.Errors = append(resp.Errors, dto.ImportRowError{
					Row:     row.line,
					Message: fmt.Sprintf("值班类别 %q 不存在", row.category),
				})
				continue
			}

			person, err := tx.Person.GetByEmployeeNo(ctx, row.employeeNo)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				person = &model.Person{Name: row.name, EmployeeNo: row.employeeNo, IsActive: true}
				person.CreatedBy = op
				if err := tx.Person.Create(ctx, person); err != nil {
					return err
				}
				resp.PersonsCreated++
			} else if err != nil {
				return err
			}

			entry := &model.RosterEntry{
				PersonID:   person.PersonID,
				CategoryID: cat.CategoryID,
				IsExempt:   row.exempt,
				SortOrder:  row.sortOrder,
			}
			entry.CreatedBy = op
			entry.UpdatedBy = op
			if err := tx.Roster.Upsert(ctx, entry); err != nil {
				return err
			}
			resp.EntriesUpserted++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("导入花名册失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("花名册导入完成",
		zap.Int("rows", resp.Rows),
		zap.Int("persons_created", resp.PersonsCreated),
		zap.Int("entries", resp.EntriesUpserted),
		zap.Int("errors", len(resp.Errors)),
	)
	return resp, nil
}

// parseRosterRow 解析单行；返回非空 msg 表示该行无效
func parseRosterRow(line int, cols []string) (rosterRow, string) {
	get := func(i int) string {
		if i < len(cols) {
			return strings.TrimSpace(cols[i])
		}
		return ""
	}

	row := rosterRow{
		line:       line,
		name:       get(0),
		employeeNo: get(1),
		category:   get(2),
		exempt:     parseBool(get(4)),
	}
	if row.name == "" || row.employeeNo == "" || row.category == "" {
		return row, "姓名、工号、值班类别均不能为空"
	}
	if v := get(3); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return row, fmt.Sprintf("排序 %q 不是整数", v)
		}
		row.sortOrder = n
	} else {
		// 未填排序时按行号排
		row.sortOrder = line
	}
	return row, ""
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "是", "y", "yes", "true", "1":
		return true
	}
	return false
}

func isBlankRow(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
