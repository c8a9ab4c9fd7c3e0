package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/shopdesk/pkg/metrics"
)

// Metrics HTTP请求指标
// path标签使用路由模板(/orders/:id),避免按ID产生大量时间序列
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := metrics.TrackInProgress()
		defer done()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
