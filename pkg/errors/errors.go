package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 应用错误
// 设计说明：
// 1. Code是业务错误码，HTTP状态码由Code的区间推导（见HTTPStatus）
// 2. Message是返回给客户端的提示信息
// 3. Err是内部错误，只写日志，不返回给客户端
// 4. Fields是字段级校验错误，只有参数校验失败时才有值
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus 根据错误码区间推导HTTP状态码
//
//	401xx → 401（40104除外，对应403）
//	404xx → 404
//	5xxxx → 500
//	其余4xxxx → 400
func (e *AppError) HTTPStatus() int {
	switch {
	case e.Code >= 50000:
		return http.StatusInternalServerError
	case e.Code == ErrCodeForbidden:
		return http.StatusForbidden
	case e.Code/100 == 401:
		return http.StatusUnauthorized
	case e.Code/100 == 404:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// IsInternal 是否为服务端错误
func (e *AppError) IsInternal() bool {
	return e.Code >= 50000
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf 格式化创建AppError（用于带参数的业务错误，如"Item 3 not found"）
func Newf(code int, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WithCode 用指定错误码包装底层错误
func WithCode(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidation 创建参数校验错误
func NewValidation(fields []FieldError) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidParams,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeMQError       = 50003 // 消息队列错误

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误
	ErrCodeForbidden       = 40104 // 无权限
	ErrCodeTokenRevoked    = 40105 // Token已注销
	ErrCodeInvalidUser     = 40106 // 用户名不存在

	// 资源错误（40400-40499）
	ErrCodeNotFound         = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound     = 40401 // 用户不存在
	ErrCodeItemNotFound     = 40402 // 商品不存在
	ErrCodeOrderNotFound    = 40403 // 订单不存在
	ErrCodeCategoryNotFound = 40404 // 分类不存在
	ErrCodePrintJobNotFound = 40405 // 打印任务不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError       = 40000 // 业务错误(通用)
	ErrCodeInsufficientStock   = 40001 // 库存不足
	ErrCodeItemInUse           = 40002 // 商品已被订单引用
	ErrCodeCategoryInUse       = 40003 // 分类已被商品引用
	ErrCodeCategoryDuplicate   = 40004 // 分类已存在
	ErrCodeWeakPassword        = 40005 // 密码强度不足
	ErrCodeIncorrectPassword   = 40006 // 当前密码错误
	ErrCodeDuplicateEntry      = 40009 // 重复记录(通用)
	ErrCodeTransactionConflict = 40010 // 事务冲突（死锁、写冲突）
	ErrCodeTransactionTimeout  = 40011 // 事务超时

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "Internal server error")
	ErrDatabaseError = New(ErrCodeDatabaseError, "Database error")
	ErrRedisError    = New(ErrCodeRedisError, "Cache service error")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "Authentication required")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "Invalid token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token expired")
	ErrTokenRevoked    = New(ErrCodeTokenRevoked, "Token has been revoked, please log in again")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "Invalid Password.")
	ErrForbidden       = New(ErrCodeForbidden, "Forbidden")

	// 资源不存在
	ErrNotFound = New(ErrCodeNotFound, "Resource not found")

	// 事务
	ErrTransactionConflict = New(ErrCodeTransactionConflict, "Transaction conflict, please retry")
	ErrTransactionTimeout  = New(ErrCodeTransactionTimeout, "Transaction timed out, please retry")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "Invalid parameters")
	ErrBindError     = New(ErrCodeBindError, "Malformed request body")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrInternal.Message)
}

// HasCode 判断错误链中是否存在指定错误码的AppError
func HasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
