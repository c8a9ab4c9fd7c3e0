package item

import (
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

// 商品领域错误定义
var (
	// ErrItemNotFound 商品不存在（按ID查询商品详情时使用）
	ErrItemNotFound = apperrors.New(apperrors.ErrCodeItemNotFound, "Item not found")

	// ErrItemInUse 商品已被订单引用，不能删除
	ErrItemInUse = apperrors.New(apperrors.ErrCodeItemInUse,
		"This item is linked to existing orders and cannot be deleted. Set it to 'Inactive' instead.")

	// ErrInvalidQuantity 入库/出库数量必须大于0
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "Quantity must be > 0")

	// ErrNegativeQuantity 库存不能为负数
	ErrNegativeQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "Quantity cannot be negative")

	// ErrQuantityTooLarge 入库后库存超出整数范围
	ErrQuantityTooLarge = apperrors.New(apperrors.ErrCodeInvalidParams, "quantity too large")

	ErrNegativePrice = apperrors.New(apperrors.ErrCodeInvalidParams, "Price cannot be negative")

	// ErrUnknownCategory 创建/修改商品时引用了不存在的分类
	ErrUnknownCategory = apperrors.New(apperrors.ErrCodeInvalidParams, "Category not found")
)

// NotFoundError 下单时引用了不存在的商品
func NotFoundError(id uint) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeItemNotFound, "Item %d not found", id)
}

// InsufficientStockError 库存不足
func InsufficientStockError(name string) *apperrors.AppError {
	return apperrors.Newf(apperrors.ErrCodeInsufficientStock, "Insufficient stock for %s", name)
}
