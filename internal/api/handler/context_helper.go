package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"office-duty/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, "user_id")
}

// bindFailed 参数绑定失败：400 + 校验详情
func bindFailed(c *gin.Context, code int, message string, err error) {
	response.ErrorWithDetails(c, http.StatusBadRequest, code, message, err.Error())
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}
