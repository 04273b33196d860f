package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"office-duty/internal/dto"
	"office-duty/internal/rotation"
	"office-duty/internal/service"
	pkgerrors "office-duty/pkg/errors"
	"office-duty/pkg/response"
)

// RotationHandler 值班轮换模块 HTTP 处理器
type RotationHandler struct {
	rotationSvc service.RotationService
}

// NewRotationHandler 创建 RotationHandler
func NewRotationHandler(rotationSvc service.RotationService) *RotationHandler {
	return &RotationHandler{rotationSvc: rotationSvc}
}

// GenerateMonth 生成月度草稿
// POST /api/v1/rotation/months/generate
func (h *RotationHandler) GenerateMonth(c *gin.Context) {
	var req dto.GenerateMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, 14001, "参数校验失败", err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	month, err := h.rotationSvc.GenerateMonth(c.Request.Context(), &req, userID)
	if err != nil {
		handleRotationError(c, err)
		return
	}

	response.Created(c, month)
}

// PublishMonth 发布月度排班
// POST /api/v1/rotation/months/:id/publish
func (h *RotationHandler) PublishMonth(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "月份ID不能为空")
		return
	}

	var req dto.PublishMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, 14001, "参数校验失败", err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	month, err := h.rotationSvc.PublishMonth(c.Request.Context(), id, &req, userID)
	if err != nil {
		handleRotationError(c, err)
		return
	}

	response.OK(c, month)
}

// GetMonth 查询月度排班
// GET /api/v1/rotation/months?year=&month=
func (h *RotationHandler) GetMonth(c *gin.Context) {
	var q dto.MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, 14001, "参数校验失败", err)
		return
	}

	month, err := h.rotationSvc.GetMonth(c.Request.Context(), q.Year, q.Month)
	if err != nil {
		handleRotationError(c, err)
		return
	}

	response.OK(c, month)
}

// Predict 预测值班日期
// GET /api/v1/rotation/predict?person_id=&count=
func (h *RotationHandler) Predict(c *gin.Context) {
	var q dto.PredictQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, 14001, "参数校验失败", err)
		return
	}

	result, err := h.rotationSvc.Predict(c.Request.Context(), &q)
	if err != nil {
		handleRotationError(c, err)
		return
	}

	response.OK(c, result)
}

// RecommendStandby 替补推荐
// GET /api/v1/rotation/standby?date=&category_id=
func (h *RotationHandler) RecommendStandby(c *gin.Context) {
	var q dto.StandbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, 14001, "参数校验失败", err)
		return
	}

	result, err := h.rotationSvc.RecommendStandby(c.Request.Context(), &q)
	if err != nil {
		handleRotationError(c, err)
		return
	}

	response.OK(c, result)
}

// Swap 换班
// POST /api/v1/rotation/changes/swap
func (h *RotationHandler) Swap(c *gin.Context) {
	h.change(c, h.rotationSvc.Swap)
}

// Standby 替班
// POST /api/v1/rotation/changes/standby
func (h *RotationHandler) Standby(c *gin.Context) {
	h.change(c, h.rotationSvc.Standby)
}

type changeFunc func(ctx context.Context, req *dto.ChangeDutyRequest, operatorID string) (*dto.ChangeLogResponse, error)

func (h *RotationHandler) change(c *gin.Context, fn changeFunc) {
	var req dto.ChangeDutyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, 14001, "参数校验失败", err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := fn(c.Request.Context(), &req, userID)
	if err != nil {
		handleRotationError(c, err)
		return
	}

	response.Created(c, entry)
}

// ListChangeLogs 变更日志
// GET /api/v1/rotation/changes
func (h *RotationHandler) ListChangeLogs(c *gin.Context) {
	var req dto.ChangeLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, 14001, "参数校验失败", err)
		return
	}

	logs, total, err := h.rotationSvc.ListChangeLogs(c.Request.Context(), &req)
	if err != nil {
		handleRotationError(c, err)
		return
	}

	response.OKPage(c, logs, total, req.GetPage(), req.GetPageSize())
}

// PersonStats 个人值班统计
// GET /api/v1/rotation/stats/:person_id
func (h *RotationHandler) PersonStats(c *gin.Context) {
	personID := c.Param("person_id")
	if personID == "" {
		response.BadRequest(c, 14001, "人员ID不能为空")
		return
	}

	stats, err := h.rotationSvc.PersonStats(c.Request.Context(), personID)
	if err != nil {
		handleRotationError(c, err)
		return
	}

	response.OK(c, stats)
}

// GetRotationState 当前轮换指针
// GET /api/v1/rotation/state
func (h *RotationHandler) GetRotationState(c *gin.Context) {
	state, err := h.rotationSvc.GetRotationState(c.Request.Context())
	if err != nil {
		handleRotationError(c, err)
		return
	}

	response.OK(c, state)
}

// handleRotationError 统一处理值班轮换模块业务错误
func handleRotationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMonthNotFound):
		response.NotFound(c, 14101, "月度排班不存在")
	case errors.Is(err, service.ErrMonthAlreadyPublished):
		response.BadRequest(c, 14102, "该月排班已发布")
	case errors.Is(err, service.ErrMonthOutOfSequence):
		response.BadRequest(c, 14103, "只能生成最近已发布月份的下一个月")
	case errors.Is(err, service.ErrMonthStale):
		response.Conflict(c, 14104, "草稿已过期，请重新生成")
	case errors.Is(err, service.ErrNoActiveSlots):
		response.BadRequest(c, 14105, "无可用值班岗位")
	case errors.Is(err, service.ErrDayNotScheduled):
		response.NotFound(c, 14106, "该日期无排班")
	case errors.Is(err, service.ErrDayNotPublished):
		response.BadRequest(c, 14107, "该日期排班尚未发布")
	case errors.Is(err, service.ErrPersonNotFound):
		response.NotFound(c, 14108, "人员不存在")
	case errors.Is(err, service.ErrPersonInactive):
		response.BadRequest(c, 14109, "人员已停用")
	case errors.Is(err, service.ErrCategoryNotFound):
		response.NotFound(c, 14110, "值班类别不存在")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 14111, "日期格式错误")
	case errors.Is(err, service.ErrChangeReasonRequired), errors.Is(err, rotation.ErrInvalidChange):
		response.BadRequest(c, 14112, "变更原因与新值班人不能为空")
	case errors.Is(err, service.ErrSamePerson):
		response.BadRequest(c, 14113, "新值班人与原值班人相同")
	case errors.Is(err, rotation.ErrSlotNotScheduled):
		response.BadRequest(c, 14114, "该岗位当日无排班")
	case errors.Is(err, rotation.ErrOriginalMismatch):
		response.Conflict(c, 14115, "原值班人与当前排班不符")
	case errors.Is(err, rotation.ErrAlreadyOnDuty):
		response.BadRequest(c, 14116, "新值班人当日已有值班")
	case errors.Is(err, rotation.ErrUnknownChangeType):
		response.BadRequest(c, 14117, "未知的变更类型")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 14120, "数据已被修改，请刷新后重试")
	case errors.Is(err, pkgerrors.ErrLockNotAcquired):
		response.Conflict(c, 14121, "该月份正在处理中，请稍后重试")
	default:
		response.InternalError(c)
	}
}
