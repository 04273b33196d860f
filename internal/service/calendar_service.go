package service

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"office-duty/internal/dto"
	"office-duty/internal/model"
	"office-duty/internal/repository"
	"office-duty/internal/rotation"
)

// ── 日历模块业务错误 ──

var (
	ErrICSParseFailed = errors.New("ICS 文件解析失败")
	ErrICSEmpty       = errors.New("ICS 文件中无可导入的全天事件")
)

// CalendarService 日历覆盖业务接口
type CalendarService interface {
	// 从 ICS 导入节假日与调休
	ImportHolidays(ctx context.Context, reader io.Reader, operatorID string) (*dto.ImportHolidaysResponse, error)
	// 从订阅 URL 导入
	ImportHolidaysFromURL(ctx context.Context, url, operatorID string) (*dto.ImportHolidaysResponse, error)
	// 查询日历覆盖（year 为 0 时返回全部）
	ListOverrides(ctx context.Context, year int) ([]dto.OverrideResponse, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

func (s *calendarService) ImportHolidays(ctx context.Context, reader io.Reader, operatorID string) (*dto.ImportHolidaysResponse, error) {
	overrides, skipped, err := ParseHolidayICS(reader)
	if err != nil {
		s.logger.Warn("解析节假日 ICS 失败", zap.Error(err))
		return nil, ErrICSParseFailed
	}
	if len(overrides) == 0 {
		return nil, ErrICSEmpty
	}

	resp := &dto.ImportHolidaysResponse{Total: len(overrides), Skipped: skipped}
	for i := range overrides {
		if operatorID != "" {
			op := operatorID
			overrides[i].CreatedBy = &op
			overrides[i].UpdatedBy = &op
		}
		if overrides[i].Type == string(rotation.OverrideWorkday) {
			resp.Workdays++
		} else {
			resp.Holidays++
		}
	}

	if err := s.repo.Calendar.Upsert(ctx, overrides); err != nil {
		s.logger.Error("写入日历覆盖失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("节假日导入完成",
		zap.Int("holidays", resp.Holidays),
		zap.Int("workdays", resp.Workdays),
		zap.Int("skipped", resp.Skipped),
	)
	return resp, nil
}

func (s *calendarService) ImportHolidaysFromURL(ctx context.Context, url, operatorID string) (*dto.ImportHolidaysResponse, error) {
	body, err := FetchICSContent(url)
	if err != nil {
		s.logger.Warn("获取节假日订阅失败", zap.String("url", url), zap.Error(err))
		return nil, ErrICSParseFailed
	}
	defer body.Close()
	return s.ImportHolidays(ctx, body, operatorID)
}

func (s *calendarService) ListOverrides(ctx context.Context, year int) ([]dto.OverrideResponse, error) {
	var (
		overrides []model.CalendarOverride
		err       error
	)
	if year > 0 {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
		overrides, err = s.repo.Calendar.ListRange(ctx, from, to)
	} else {
		overrides, err = s.repo.Calendar.List(ctx)
	}
	if err != nil {
		s.logger.Error("查询日历覆盖失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.OverrideResponse, 0, len(overrides))
	for _, o := range overrides {
		result = append(result, dto.OverrideResponse{
			ID:     o.OverrideID,
			Date:   rotation.DateKey(o.Date),
			Type:   o.Type,
			Name:   o.Name,
			Source: o.Source,
		})
	}
	return result, nil
}
