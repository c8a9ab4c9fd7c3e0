package order

import (
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "Order not found")

	// ErrEmptyLines 订单明细不能为空
	ErrEmptyLines = apperrors.New(apperrors.ErrCodeInvalidParams, "Order must contain at least one item")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "quantity must be at least 1")

	// ErrNegativePaid 已付金额不能为负
	ErrNegativePaid = apperrors.New(apperrors.ErrCodeInvalidParams, "Paid amount cannot be negative")
)
