package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"office-duty/internal/service"
	"office-duty/pkg/response"
)

// RosterHandler 花名册模块 HTTP 处理器
type RosterHandler struct {
	rosterSvc service.RosterService
}

// NewRosterHandler 创建 RosterHandler
func NewRosterHandler(rosterSvc service.RosterService) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc}
}

// ImportRoster 导入花名册
// POST /api/v1/roster/import (multipart/form-data, field="file")
func (h *RosterHandler) ImportRoster(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 14300, "请上传 .xlsx 花名册文件")
		return
	}
	defer file.Close()

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.rosterSvc.ImportRoster(c.Request.Context(), file, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRosterFileInvalid):
			response.BadRequest(c, 14301, "花名册文件无法读取")
		case errors.Is(err, service.ErrRosterEmpty):
			response.BadRequest(c, 14302, "花名册中无数据行")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, resp)
}
