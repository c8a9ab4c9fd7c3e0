package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

// ErrorBody 错误响应结构
// 设计说明：
// 1. Code是业务错误码，客户端可以据此区分错误类型
// 2. Message是用户可读的提示信息
// 3. Errors只在参数校验失败时出现，逐字段列出原因
type ErrorBody struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
}

// Success 成功响应（200，直接返回业务数据）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 创建成功（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 带提示信息的成功响应
// 用法：
//
//	response.Message(c, "Order created", gin.H{"order": o})
//	// → {"message":"Order created","order":{...}}
func Message(c *gin.Context, message string, fields gin.H) {
	body := gin.H{"message": message}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Error 错误响应（HTTP状态码由错误码推导）
// 用法：
//
//	o, err := uc.Execute(ctx, req)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	write(c, appErr.HTTPStatus(), appErr)
}

// ErrorWithStatus 客户端错误统一使用指定状态码，服务端错误仍然是500
// 说明：订单写接口约定所有业务失败都返回400（包括"Order not found"）
func ErrorWithStatus(c *gin.Context, status int, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.IsInternal() {
		status = http.StatusInternalServerError
	}
	write(c, status, appErr)
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, status, code int, message string) {
	write(c, status, apperrors.New(code, message))
}

func write(c *gin.Context, status int, appErr *apperrors.AppError) {
	lg := zctx.From(c.Request.Context())

	// 内部错误只记录日志，对外统一返回通用提示
	message := appErr.Message
	if appErr.IsInternal() {
		lg.Error("Request failed",
			zap.Int("code", appErr.Code),
			zap.String("message", appErr.Message),
			zap.Error(appErr.Err),
		)
		message = apperrors.ErrInternal.Message
	} else {
		lg.Debug("Request rejected",
			zap.Int("code", appErr.Code),
			zap.String("message", appErr.Message),
		)
	}

	c.JSON(status, ErrorBody{
		Code:    appErr.Code,
		Message: message,
		Errors:  appErr.Fields,
	})
}
