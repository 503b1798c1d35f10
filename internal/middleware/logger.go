package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger 请求日志中间件
func Logger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// 处理请求
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"component": "http",
			"method":    c.Request.Method,
			"path":      path,
			"ip":        c.ClientIP(),
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
		})
		if c.GetHeader("HX-Request") == "true" {
			entry = entry.WithField("htmx", true)
		}

		switch {
		case len(c.Errors) > 0:
			entry.Error(c.Errors.String())
		case c.Writer.Status() >= 500:
			entry.Warn("request failed")
		default:
			entry.Info("request")
		}
	}
}
