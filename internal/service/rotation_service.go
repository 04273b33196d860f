package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"office-duty/config"
	"office-duty/internal/dto"
	"office-duty/internal/model"
	"office-duty/internal/repository"
	"office-duty/internal/rotation"
	pkgerrors "office-duty/pkg/errors"
	"office-duty/pkg/metrics"
	"office-duty/pkg/redis"
)

// ── 值班轮换模块业务错误 ──

var (
	ErrMonthNotFound         = errors.New("月度排班不存在")
	ErrMonthAlreadyPublished = errors.New("该月排班已发布，不可重新生成或重复发布")
	ErrMonthOutOfSequence    = errors.New("只能生成最近已发布月份的下一个月")
	ErrMonthStale            = errors.New("草稿生成后已有其他月份发布，请重新生成")
	ErrNoActiveSlots         = errors.New("无可用值班岗位")
	ErrDayNotScheduled       = errors.New("该日期无排班")
	ErrDayNotPublished       = errors.New("该日期排班尚未发布")
	ErrPersonNotFound        = errors.New("人员不存在")
	ErrPersonInactive        = errors.New("人员已停用")
	ErrCategoryNotFound      = errors.New("值班类别不存在")
	ErrInvalidDate           = errors.New("日期格式错误，应为 YYYY-MM-DD")
	ErrChangeReasonRequired  = errors.New("变更原因不能为空")
	ErrSamePerson            = errors.New("新值班人与原值班人相同")
)

// MonthLocker 月份级互斥锁（Redis 实现；未配置 Redis 时为 nil）
type MonthLocker interface {
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (*redis.Lock, error)
	ReleaseLock(ctx context.Context, lock *redis.Lock) error
}

// RotationService 值班轮换业务接口
type RotationService interface {
	// 生成月度草稿排班
	GenerateMonth(ctx context.Context, req *dto.GenerateMonthRequest, operatorID string) (*dto.MonthResponse, error)
	// 发布月度排班并提交轮换状态
	PublishMonth(ctx context.Context, monthID string, req *dto.PublishMonthRequest, operatorID string) (*dto.MonthResponse, error)
	// 获取月度排班
	GetMonth(ctx context.Context, year, month int) (*dto.MonthResponse, error)
	// 预测某人接下来的值班日期
	Predict(ctx context.Context, q *dto.PredictQuery) (*dto.PredictResponse, error)
	// 替补推荐
	RecommendStandby(ctx context.Context, q *dto.StandbyQuery) (*dto.StandbyResponse, error)
	// 换班
	Swap(ctx context.Context, req *dto.ChangeDutyRequest, operatorID string) (*dto.ChangeLogResponse, error)
	// 替班
	Standby(ctx context.Context, req *dto.ChangeDutyRequest, operatorID string) (*dto.ChangeLogResponse, error)
	// 变更日志
	ListChangeLogs(ctx context.Context, req *dto.ChangeLogListRequest) ([]dto.ChangeLogResponse, int64, error)
	// 个人统计
	PersonStats(ctx context.Context, personID string) (*dto.PersonStatsResponse, error)
	// 当前轮换状态
	GetRotationState(ctx context.Context) (*dto.RotationStateResponse, error)
}

type rotationService struct {
	cfg     config.RotationConfig
	repo    *repository.Repository
	locker  MonthLocker
	metrics metrics.Recorder
	logger  *zap.Logger
	now     func() time.Time
}

// NewRotationService 创建 RotationService 实例；locker 可为 nil
func NewRotationService(
	cfg *config.RotationConfig,
	repo *repository.Repository,
	locker MonthLocker,
	rec metrics.Recorder,
	logger *zap.Logger,
) RotationService {
	if rec == nil {
		rec = metrics.NewNop()
	}
	return &rotationService{
		cfg:     *cfg,
		repo:    repo,
		locker:  locker,
		metrics: rec,
		logger:  logger,
		now:     time.Now,
	}
}

// ════════════════════════════════════════════════════════════
// GenerateMonth — 生成月度草稿
// ════════════════════════════════════════════════════════════

func (s *rotationService) GenerateMonth(ctx context.Context, req *dto.GenerateMonthRequest, operatorID string) (*dto.MonthResponse, error) {
	start := time.Now()
	target := rotation.Month{Year: req.Year, Month: time.Month(req.Month)}

	resp, err := s.generateMonth(ctx, target, operatorID)
	switch {
	case err == nil:
		s.metrics.ObserveGenerate("ok", time.Since(start), len(resp.Days))
	case errors.Is(err, pkgerrors.ErrOptimisticLock), errors.Is(err, pkgerrors.ErrLockNotAcquired):
		s.metrics.ObserveGenerate("conflict", 0, 0)
	default:
		s.metrics.ObserveGenerate("error", 0, 0)
	}
	return resp, err
}

func (s *rotationService) generateMonth(ctx context.Context, target rotation.Month, operatorID string) (*dto.MonthResponse, error) {
	unlock, err := s.lock(ctx, "month:"+target.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	// 1. 生成顺序校验：只允许最近已发布月份的下一个月
	latest, err := s.latestPublished(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	basedOn := ""
	if latest != nil {
		lm := monthOfModel(latest)
		if lm == target {
			return nil, ErrMonthAlreadyPublished
		}
		if target != lm.Next() {
			return nil, ErrMonthOutOfSequence
		}
		basedOn = lm.String()
	}

	existing, err := s.repo.Month.GetByYearMonth(ctx, target.Year, int(target.Month))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询已有月度排班失败", zap.Error(err))
		return nil, err
	}
	if existing != nil && existing.Status == string(rotation.StatusPublished) {
		return nil, ErrMonthAlreadyPublished
	}

	// 2. 读取快照与当前指针
	snap, err := loadSnapshot(ctx, s.repo)
	if err != nil {
		s.logger.Error("加载排班配置失败", zap.Error(err))
		return nil, err
	}
	if len(snap.config.Slots) == 0 {
		return nil, ErrNoActiveSlots
	}
	pointers, err := s.repo.Pointer.List(ctx)
	if err != nil {
		s.logger.Error("查询轮换指针失败", zap.Error(err))
		return nil, err
	}

	// 3. 纯计算
	result := rotation.Generate(rotation.GenerateInput{
		Month:  target,
		Active: snap.active,
		Config: snap.config,
		State:  stateFromPointers(pointers),
	})
	pending, err := encodeState(result.State)
	if err != nil {
		return nil, err
	}

	month := &model.DutyMonth{
		Year:         target.Year,
		Month:        int(target.Month),
		Status:       string(rotation.StatusDraft),
		PendingState: pending,
		Fingerprint:  fmt.Sprintf("%016x", result.Fingerprint),
		BasedOn:      basedOn,
	}
	if operatorID != "" {
		month.CreatedBy = &operatorID
		month.UpdatedBy = &operatorID
	}

	// 4. 落库：替换旧草稿
	err = s.repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
		if existing != nil {
			if err := tx.Month.DeleteDraft(ctx, existing.MonthID, existing.Version); err != nil {
				return err
			}
		}
		if err := tx.Month.Create(ctx, month); err != nil {
			return err
		}
		return tx.Schedule.BatchCreate(ctx, toScheduleModels(month.MonthID, result.Days, operatorID))
	})
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("保存月度排班失败", zap.String("month", target.String()), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("月度排班已生成",
		zap.String("month", target.String()),
		zap.Int("days", len(result.Days)),
		zap.String("fingerprint", month.Fingerprint),
		zap.String("based_on", basedOn),
	)

	return s.buildMonthResponse(ctx, month)
}

// ════════════════════════════════════════════════════════════
// PublishMonth — 发布并提交轮换状态
// ════════════════════════════════════════════════════════════

func (s *rotationService) PublishMonth(ctx context.Context, monthID string, req *dto.PublishMonthRequest, operatorID string) (*dto.MonthResponse, error) {
	resp, err := s.publishMonth(ctx, monthID, req.Version, operatorID)
	switch {
	case err == nil:
		s.metrics.IncPublish("ok")
	case errors.Is(err, pkgerrors.ErrOptimisticLock), errors.Is(err, pkgerrors.ErrLockNotAcquired), errors.Is(err, ErrMonthStale):
		s.metrics.IncPublish("conflict")
	default:
		s.metrics.IncPublish("error")
	}
	return resp, err
}

func (s *rotationService) publishMonth(ctx context.Context, monthID string, version int, operatorID string) (*dto.MonthResponse, error) {
	// 发布会整体替换指针表，全局串行
	unlock, err := s.lock(ctx, "publish")
	if err != nil {
		return nil, err
	}
	defer unlock()

	month, err := s.repo.Month.GetByID(ctx, monthID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMonthNotFound
		}
		s.logger.Error("查询月度排班失败", zap.Error(err))
		return nil, err
	}
	if month.Status == string(rotation.StatusPublished) {
		return nil, ErrMonthAlreadyPublished
	}
	if month.Version != version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	state, err := decodeState(month.PendingState)
	if err != nil {
		s.logger.Error("待发布轮换状态损坏", zap.String("month_id", monthID), zap.Error(err))
		return nil, err
	}

	now := s.now()
	err = s.repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
		// 草稿的起始状态必须仍是当前指针
		latest, err := s.latestPublished(ctx, tx)
		if err != nil {
			return err
		}
		expected := ""
		if latest != nil {
			expected = monthOfModel(latest).String()
		}
		if month.BasedOn != expected {
			return ErrMonthStale
		}

		month.Status = string(rotation.StatusPublished)
		month.PublishedAt = &now
		if operatorID != "" {
			month.UpdatedBy = &operatorID
		}
		if err := tx.Month.Update(ctx, month); err != nil {
			return err
		}
		if err := tx.Schedule.UpdateStatusByMonth(ctx, month.MonthID, string(rotation.StatusPublished)); err != nil {
			return err
		}
		return tx.Pointer.ReplaceAll(ctx, pointersFromState(state, month.MonthID, now))
	})
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) && !errors.Is(err, ErrMonthStale) {
			s.logger.Error("发布月度排班失败", zap.String("month_id", monthID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("月度排班已发布",
		zap.String("month", monthOfModel(month).String()),
		zap.Int("pointers", len(state)),
		zap.String("operator", operatorID),
	)

	return s.buildMonthResponse(ctx, month)
}

// ════════════════════════════════════════════════════════════
// GetMonth
// ════════════════════════════════════════════════════════════

func (s *rotationService) GetMonth(ctx context.Context, year, month int) (*dto.MonthResponse, error) {
	m, err := s.repo.Month.GetByYearMonth(ctx, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMonthNotFound
		}
		s.logger.Error("查询月度排班失败", zap.Error(err))
		return nil, err
	}
	return s.buildMonthResponse(ctx, m)
}

// buildMonthResponse 读取当月每日排班与日历覆盖，构建完整响应
func (s *rotationService) buildMonthResponse(ctx context.Context, m *model.DutyMonth) (*dto.MonthResponse, error) {
	days, err := s.repo.Schedule.ListByMonth(ctx, m.MonthID)
	if err != nil {
		s.logger.Error("查询每日排班失败", zap.Error(err))
		return nil, err
	}
	mm := monthOfModel(m)
	overrides, err := s.repo.Calendar.ListRange(ctx, mm.Date(1), mm.Date(mm.Days()))
	if err != nil {
		s.logger.Error("查询日历覆盖失败", zap.Error(err))
		return nil, err
	}
	return toMonthResponse(m, days, rotation.NewCalendar(toEngineOverrides(overrides))), nil
}

// ════════════════════════════════════════════════════════════
// Predict — 向后模拟
// ════════════════════════════════════════════════════════════

func (s *rotationService) Predict(ctx context.Context, q *dto.PredictQuery) (*dto.PredictResponse, error) {
	if _, err := s.getPerson(ctx, q.PersonID); err != nil {
		return nil, err
	}

	snap, err := loadSnapshot(ctx, s.repo)
	if err != nil {
		s.logger.Error("加载排班配置失败", zap.Error(err))
		return nil, err
	}
	pointers, err := s.repo.Pointer.List(ctx)
	if err != nil {
		s.logger.Error("查询轮换指针失败", zap.Error(err))
		return nil, err
	}
	latest, err := s.latestPublished(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	start := rotation.MonthOf(s.now().In(s.cfg.Location()))
	if latest != nil {
		start = monthOfModel(latest).Next()
	}

	res := rotation.Predict(rotation.PredictInput{
		PersonID:  q.PersonID,
		Count:     q.GetCount(),
		Start:     start,
		State:     stateFromPointers(pointers),
		Active:    snap.active,
		Config:    snap.config,
		MaxMonths: s.cfg.PredictMaxMonths,
	})
	s.metrics.ObservePredict(res.MonthsSimulated, res.Complete)

	resp := &dto.PredictResponse{
		PersonID:        q.PersonID,
		StartMonth:      start.String(),
		Dates:           make([]string, 0, len(res.Dates)),
		MonthsSimulated: res.MonthsSimulated,
		Complete:        res.Complete,
	}
	for _, d := range res.Dates {
		resp.Dates = append(resp.Dates, rotation.DateKey(d))
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// RecommendStandby — 替补推荐
// ════════════════════════════════════════════════════════════

func (s *rotationService) RecommendStandby(ctx context.Context, q *dto.StandbyQuery) (*dto.StandbyResponse, error) {
	date, err := parseDate(q.Date)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Category.GetByID(ctx, q.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		s.logger.Error("查询值班类别失败", zap.Error(err))
		return nil, err
	}

	snap, err := loadSnapshot(ctx, s.repo)
	if err != nil {
		s.logger.Error("加载排班配置失败", zap.Error(err))
		return nil, err
	}
	pool := rotation.BuildPools(snap.config.Roster, snap.active)[q.CategoryID]

	m := rotation.MonthOf(date)
	days, err := s.repo.Schedule.ListRange(ctx, m.Date(1), m.Date(m.Days()), string(rotation.StatusPublished))
	if err != nil {
		s.logger.Error("查询当月已发布排班失败", zap.Error(err))
		return nil, err
	}

	ids := rotation.RecommendStandby(pool, toEngineDays(days), s.cfg.StandbyLimit)
	resp := &dto.StandbyResponse{
		Date:       rotation.DateKey(date),
		CategoryID: q.CategoryID,
		Candidates: make([]dto.PersonBrief, 0, len(ids)),
	}
	for _, id := range ids {
		resp.Candidates = append(resp.Candidates, *toPersonBrief(snap.persons[id]))
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// Swap / Standby — 发布后变更
// ════════════════════════════════════════════════════════════

func (s *rotationService) Swap(ctx context.Context, req *dto.ChangeDutyRequest, operatorID string) (*dto.ChangeLogResponse, error) {
	return s.change(ctx, req, rotation.ChangeSwap, operatorID)
}

func (s *rotationService) Standby(ctx context.Context, req *dto.ChangeDutyRequest, operatorID string) (*dto.ChangeLogResponse, error) {
	return s.change(ctx, req, rotation.ChangeStandby, operatorID)
}

func (s *rotationService) change(ctx context.Context, req *dto.ChangeDutyRequest, typ rotation.ChangeType, operatorID string) (*dto.ChangeLogResponse, error) {
	resp, err := s.applyChange(ctx, req, typ, operatorID)
	result := "ok"
	if err != nil {
		result = "rejected"
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			result = "conflict"
		}
	}
	s.metrics.IncChange(string(typ), result)
	return resp, err
}

func (s *rotationService) applyChange(ctx context.Context, req *dto.ChangeDutyRequest, typ rotation.ChangeType, operatorID string) (*dto.ChangeLogResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, ErrChangeReasonRequired
	}
	if req.NewPersonID == req.OriginalPersonID {
		return nil, ErrSamePerson
	}
	person, err := s.getPerson(ctx, req.NewPersonID)
	if err != nil {
		return nil, err
	}
	if !person.IsActive {
		return nil, ErrPersonInactive
	}

	var changeLog model.DutyChangeLog
	err = s.repo.Tx.Transaction(ctx, func(tx *repository.Repository) error {
		day, err := tx.Schedule.GetByDate(ctx, date)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDayNotScheduled
			}
			return err
		}
		if day.Status != string(rotation.StatusPublished) {
			return ErrDayNotPublished
		}

		_, entry, err := rotation.ApplyChange(toEngineDay(*day), rotation.ChangeRequest{
			Date:             date,
			SlotID:           req.SlotID,
			OriginalPersonID: req.OriginalPersonID,
			NewPersonID:      req.NewPersonID,
			Reason:           req.Reason,
			OperatorID:       operatorID,
			Type:             typ,
		}, s.now())
		if err != nil {
			return err
		}

		for i := range day.Assignments {
			a := &day.Assignments[i]
			if a.SlotID != req.SlotID {
				continue
			}
			a.PersonID = req.NewPersonID
			a.UpdatedBy = &operatorID
			if err := tx.Assignment.Update(ctx, a); err != nil {
				return err
			}
			break
		}

		changeLog = model.DutyChangeLog{
			DutyDate:         entry.Date,
			SlotID:           entry.SlotID,
			OriginalPersonID: entry.OriginalPersonID,
			NewPersonID:      entry.NewPersonID,
			ChangeType:       string(entry.Type),
			Reason:           entry.Reason,
			OperatorID:       entry.OperatorID,
			CreatedAt:        entry.CreatedAt,
		}
		return tx.ChangeLog.Create(ctx, &changeLog)
	})
	if err != nil {
		if isInfraError(err) {
			s.logger.Error("值班变更失败", zap.String("date", req.Date), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("值班变更",
		zap.String("type", string(typ)),
		zap.String("date", req.Date),
		zap.String("slot_id", req.SlotID),
		zap.String("from", req.OriginalPersonID),
		zap.String("to", req.NewPersonID),
		zap.String("operator", operatorID),
	)

	resp := toChangeLogResponse(changeLog)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// 只读查询
// ════════════════════════════════════════════════════════════

func (s *rotationService) ListChangeLogs(ctx context.Context, req *dto.ChangeLogListRequest) ([]dto.ChangeLogResponse, int64, error) {
	filter := repository.ChangeLogFilter{PersonID: req.PersonID}
	if req.From != "" {
		from, err := parseDate(req.From)
		if err != nil {
			return nil, 0, err
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := parseDate(req.To)
		if err != nil {
			return nil, 0, err
		}
		filter.To = &to
	}

	logs, total, err := s.repo.ChangeLog.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询变更日志失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ChangeLogResponse, 0, len(logs))
	for _, l := range logs {
		result = append(result, toChangeLogResponse(l))
	}
	return result, total, nil
}

func (s *rotationService) PersonStats(ctx context.Context, personID string) (*dto.PersonStatsResponse, error) {
	person, err := s.getPerson(ctx, personID)
	if err != nil {
		return nil, err
	}

	days, err := s.repo.Schedule.ListPublishedByPerson(ctx, personID)
	if err != nil {
		s.logger.Error("查询个人已发布排班失败", zap.Error(err))
		return nil, err
	}
	overrides, err := s.repo.Calendar.List(ctx)
	if err != nil {
		s.logger.Error("查询日历覆盖失败", zap.Error(err))
		return nil, err
	}

	st := rotation.Stats(personID, toEngineDays(days), rotation.NewCalendar(toEngineOverrides(overrides)))
	resp := &dto.PersonStatsResponse{
		PersonID: personID,
		Name:     person.Name,
		Total:    st.Total,
		Workday:  st.Workday,
		Weekend:  st.Weekend,
		Holiday:  st.Holiday,
		Recent:   make([]string, 0, len(st.Recent)),
	}
	for _, d := range st.Recent {
		resp.Recent = append(resp.Recent, rotation.DateKey(d))
	}
	return resp, nil
}

func (s *rotationService) GetRotationState(ctx context.Context) (*dto.RotationStateResponse, error) {
	pointers, err := s.repo.Pointer.List(ctx)
	if err != nil {
		s.logger.Error("查询轮换指针失败", zap.Error(err))
		return nil, err
	}
	latest, err := s.latestPublished(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	resp := &dto.RotationStateResponse{Pointers: make([]dto.PointerResponse, 0, len(pointers))}
	if latest != nil {
		resp.LatestPublished = monthOfModel(latest).String()
	}
	for _, p := range pointers {
		resp.Pointers = append(resp.Pointers, dto.PointerResponse{
			TrackKey:  p.TrackKey,
			PersonID:  p.PersonID,
			MonthID:   p.MonthID,
			UpdatedAt: p.UpdatedAt.Format(timeLayout),
		})
	}
	return resp, nil
}

// ── 内部辅助 ──

// lock 获取命名锁；未配置 Redis 或 Redis 故障时降级为无锁，数据库乐观锁兜底
func (s *rotationService) lock(ctx context.Context, name string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	l, err := s.locker.AcquireLock(ctx, name, s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrLockNotAcquired) {
			return nil, err
		}
		s.logger.Warn("获取 Redis 锁失败，降级为无锁执行", zap.String("name", name), zap.Error(err))
		return func() {}, nil
	}
	return func() {
		_ = s.locker.ReleaseLock(context.WithoutCancel(ctx), l)
	}, nil
}

func (s *rotationService) latestPublished(ctx context.Context, repo *repository.Repository) (*model.DutyMonth, error) {
	m, err := repo.Month.GetLatestPublished(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("查询最近已发布月份失败", zap.Error(err))
		return nil, err
	}
	return m, nil
}

func (s *rotationService) getPerson(ctx context.Context, id string) (*model.Person, error) {
	p, err := s.repo.Person.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		s.logger.Error("查询人员失败", zap.Error(err))
		return nil, err
	}
	return p, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return rotation.DateOf(t), nil
}

// isInfraError 是否为需要记录日志的基础设施错误（业务拒绝不记 Error）
func isInfraError(err error) bool {
	for _, e := range []error{
		ErrDayNotScheduled, ErrDayNotPublished, pkgerrors.ErrOptimisticLock,
		rotation.ErrInvalidChange, rotation.ErrSlotNotScheduled, rotation.ErrOriginalMismatch,
		rotation.ErrAlreadyOnDuty, rotation.ErrUnknownChangeType,
	} {
		if errors.Is(err, e) {
			return false
		}
	}
	return true
}

// [自证通过] internal/service/rotation_service.go
