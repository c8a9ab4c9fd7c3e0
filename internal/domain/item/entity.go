package item

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item 商品实体（聚合根）
// 设计说明：
// 1. 价格使用decimal.Decimal，避免浮点误差
// 2. Quantity是当前库存，任何时候都不能为负数
// 3. CategoryID可为空（分类被删除前必须先解除引用）
// 4. 商品被订单引用后不能删除，只能下架（IsActive=false）
type Item struct {
	ID           uint
	Name         string
	Brand        string
	CategoryID   *uint
	CategoryName string // 查询时关联加载，只读
	CostPrice    decimal.Decimal
	SalePrice    decimal.Decimal
	Quantity     int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewItem 创建新商品（工厂方法）
func NewItem(name, brand string, categoryID *uint, costPrice, salePrice decimal.Decimal, quantity int, isActive bool) (*Item, error) {
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	now := time.Now()
	return &Item{
		Name:       name,
		Brand:      brand,
		CategoryID: categoryID,
		CostPrice:  costPrice,
		SalePrice:  salePrice,
		Quantity:   quantity,
		IsActive:   isActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// HasStock 库存是否足够
func (i *Item) HasStock(qty int) bool {
	return i.Quantity >= qty
}

// LineTotal 按当前售价计算小计
func (i *Item) LineTotal(qty int) decimal.Decimal {
	return i.SalePrice.Mul(decimal.NewFromInt(int64(qty)))
}

// StockValue 库存成本（成本价 × 数量）
func (i *Item) StockValue() decimal.Decimal {
	return i.CostPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsLowStock 库存是否低于阈值（含阈值）
func (i *Item) IsLowStock(threshold int) bool {
	return i.Quantity <= threshold
}
