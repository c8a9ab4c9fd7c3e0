package item

import (
	"context"
	"math"
	"time"
)

// StockService 库存领域服务
// 设计说明：
// 1. 所有库存变化都走Apply：读后写 + 生成流水
// 2. 调用方必须已经在事务内通过LockByID拿到最新的商品
// 3. 变化后的库存小于0时返回InsufficientStockError，超出int范围时返回ErrQuantityTooLarge，都不写入任何数据
type StockService struct {
	items     Repository
	movements MovementRepository
}

// NewStockService 创建库存服务
func NewStockService(items Repository, movements MovementRepository) *StockService {
	return &StockService{items: items, movements: movements}
}

// Apply 把库存改为 it.Quantity+delta，返回尚未持久化的流水
func (s *StockService) Apply(ctx context.Context, it *Item, delta int, typ MovementType) (*Movement, error) {
	before := it.Quantity
	if delta > 0 && before > math.MaxInt-delta {
		return nil, ErrQuantityTooLarge
	}
	after := before + delta
	if after < 0 {
		return nil, InsufficientStockError(it.Name)
	}

	if err := s.items.SetQuantity(ctx, it.ID, after); err != nil {
		return nil, err
	}
	it.Quantity = after

	return &Movement{
		ItemID:    it.ID,
		Type:      typ,
		Delta:     delta,
		Before:    before,
		After:     after,
		CreatedAt: time.Now(),
	}, nil
}

// Record 持久化流水，orderID不为空时关联到订单
func (s *StockService) Record(ctx context.Context, orderID *uint, movements ...*Movement) error {
	if len(movements) == 0 {
		return nil
	}
	for _, m := range movements {
		m.OrderID = orderID
	}
	return s.movements.Record(ctx, movements...)
}
