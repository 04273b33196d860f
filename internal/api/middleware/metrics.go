package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"office-duty/pkg/metrics"
)

// Metrics HTTP 指标中间件，按路由模板统计（未匹配路由记为 unmatched）
func Metrics(rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
