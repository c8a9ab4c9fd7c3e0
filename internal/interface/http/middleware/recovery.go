package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
	"github.com/xiebiao/shopdesk/pkg/response"
)

// Recovery 捕获panic,记录堆栈并返回500
// 必须注册在Logger之后,才能拿到带request_id的logger
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				zctx.From(c.Request.Context()).Error("Panic recovered",
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)
				c.Header("Connection", "close")
				response.Error(c, apperrors.ErrInternal)
				c.Abort()
			}
		}()
		c.Next()
	}
}
