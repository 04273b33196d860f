package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"office-duty/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// maxBytes 为 0 时不限制；上传 ICS / 花名册同样受此约束
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
