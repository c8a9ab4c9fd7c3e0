package item

import (
	"context"

	"github.com/xiebiao/shopdesk/internal/domain/item"
	"github.com/xiebiao/shopdesk/internal/infrastructure/config"
)

// defaultMovementLimit 流水查询默认条数
const defaultMovementLimit = 100

// QueryItemUseCase 商品查询(只读)
// 库存数量每次都从数据库读取,不经过任何缓存
type QueryItemUseCase struct {
	items     item.Repository
	movements item.MovementRepository
	threshold int
}

func NewQueryItemUseCase(items item.Repository, movements item.MovementRepository, cfg *config.Config) *QueryItemUseCase {
	return &QueryItemUseCase{
		items:     items,
		movements: movements,
		threshold: cfg.Inventory.LowStockThreshold,
	}
}

func (uc *QueryItemUseCase) List(ctx context.Context, filter item.ListFilter) ([]*item.Item, error) {
	return uc.items.List(ctx, filter)
}

func (uc *QueryItemUseCase) Get(ctx context.Context, id uint) (*item.Item, error) {
	return uc.items.FindByID(ctx, id)
}

// LowStock 库存小于等于阈值的商品,threshold为nil时使用配置的默认阈值
func (uc *QueryItemUseCase) LowStock(ctx context.Context, threshold *int) ([]*item.Item, error) {
	t := uc.threshold
	if threshold != nil {
		t = *threshold
	}
	return uc.items.ListLowStock(ctx, t)
}

// Movements 商品的库存流水,最新的在前
func (uc *QueryItemUseCase) Movements(ctx context.Context, id uint, limit int) ([]*item.Movement, error) {
	if _, err := uc.items.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMovementLimit
	}
	return uc.movements.ListByItem(ctx, id, limit)
}
