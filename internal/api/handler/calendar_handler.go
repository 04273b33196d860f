package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"office-duty/internal/dto"
	"office-duty/internal/service"
	"office-duty/pkg/response"
)

// CalendarHandler 日历覆盖模块 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// ImportHolidays 上传 ICS 导入节假日
// POST /api/v1/calendar/holidays/import (multipart/form-data, field="file")
func (h *CalendarHandler) ImportHolidays(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 14200, "请上传 ICS 文件")
		return
	}
	defer file.Close()

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.calendarSvc.ImportHolidays(c.Request.Context(), file, userID)
	if err != nil {
		handleCalendarError(c, err)
		return
	}

	response.Created(c, resp)
}

// ImportHolidaysFromURL 从订阅地址导入节假日
// POST /api/v1/calendar/holidays/import-url {"url": "..."}
func (h *CalendarHandler) ImportHolidaysFromURL(c *gin.Context) {
	var req dto.ImportHolidaysURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, 14200, "请提供有效的 ICS 订阅地址", err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.calendarSvc.ImportHolidaysFromURL(c.Request.Context(), req.URL, userID)
	if err != nil {
		handleCalendarError(c, err)
		return
	}

	response.Created(c, resp)
}

// ListOverrides 查询日历覆盖
// GET /api/v1/calendar/overrides?year=
func (h *CalendarHandler) ListOverrides(c *gin.Context) {
	var req dto.OverrideListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, 14200, "参数校验失败", err)
		return
	}

	list, err := h.calendarSvc.ListOverrides(c.Request.Context(), req.Year)
	if err != nil {
		handleCalendarError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

func handleCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrICSParseFailed):
		response.BadRequest(c, 14201, "ICS 文件解析失败")
	case errors.Is(err, service.ErrICSEmpty):
		response.BadRequest(c, 14202, "ICS 文件中无可导入的全天事件")
	default:
		response.InternalError(c)
	}
}
