package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"office-duty/config"
	"office-duty/internal/dto"
	"office-duty/internal/rotation"
	pkgerrors "office-duty/pkg/errors"
)

// AutoGenerateJob 定时为下个月生成草稿排班
//
// 下个月已有草稿或已发布时跳过；本月尚未发布导致无法按序生成时只记录告警。
type AutoGenerateJob struct {
	cron     *cron.Cron
	cronExpr string
	rotation RotationService
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewAutoGenerateJob 创建定时任务（未启动）
func NewAutoGenerateJob(cfg *config.RotationConfig, rot RotationService, logger *zap.Logger) *AutoGenerateJob {
	loc := cfg.Location()
	return &AutoGenerateJob{
		cron:     cron.New(cron.WithLocation(loc)),
		cronExpr: cfg.AutoGenerateCron,
		rotation: rot,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// Start 注册并启动任务
func (j *AutoGenerateJob) Start() error {
	_, err := j.cron.AddFunc(j.cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.Error("自动生成排班失败", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("注册自动排班任务失败 (%q): %w", j.cronExpr, err)
	}
	j.cron.Start()
	j.logger.Info("自动排班任务已启动", zap.String("cron", j.cronExpr), zap.String("timezone", j.loc.String()))
	return nil
}

// Stop 停止调度并等待运行中的任务结束
func (j *AutoGenerateJob) Stop() {
	<-j.cron.Stop().Done()
}

// RunOnce 执行一次：为下个月生成草稿，返回是否实际生成
func (j *AutoGenerateJob) RunOnce(ctx context.Context) (bool, error) {
	target := rotation.MonthOf(j.now().In(j.loc)).Next()

	_, err := j.rotation.GetMonth(ctx, target.Year, int(target.Month))
	if err == nil {
		j.logger.Info("下月排班已存在，跳过自动生成", zap.String("month", target.String()))
		return false, nil
	}
	if !errors.Is(err, ErrMonthNotFound) {
		return false, err
	}

	resp, err := j.rotation.GenerateMonth(ctx, &dto.GenerateMonthRequest{
		Year:  target.Year,
		Month: int(target.Month),
	}, "")
	switch {
	case err == nil:
		j.logger.Info("自动生成下月草稿",
			zap.String("month", target.String()),
			zap.Int("days", len(resp.Days)),
		)
		return true, nil
	case errors.Is(err, ErrMonthOutOfSequence), errors.Is(err, pkgerrors.ErrLockNotAcquired):
		j.logger.Warn("暂不满足自动生成条件", zap.String("month", target.String()), zap.Error(err))
		return false, nil
	default:
		return false, err
	}
}
