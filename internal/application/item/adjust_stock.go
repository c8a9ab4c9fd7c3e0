package item

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xiebiao/shopdesk/internal/domain/item"
	"github.com/xiebiao/shopdesk/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/shopdesk/pkg/metrics"
)

// AdjustStockUseCase 手工入库/出库
// 和订单使用同一把行锁,不会和并发下单互相覆盖
type AdjustStockUseCase struct {
	items     item.Repository
	stock     *item.StockService
	txManager *gormdb.TxManager
}

func NewAdjustStockUseCase(items item.Repository, stock *item.StockService, txManager *gormdb.TxManager) *AdjustStockUseCase {
	return &AdjustStockUseCase{items: items, stock: stock, txManager: txManager}
}

// Restock 入库,quantity必须大于0
func (uc *AdjustStockUseCase) Restock(ctx context.Context, id uint, quantity int) (*item.Item, error) {
	if quantity <= 0 {
		return nil, item.ErrInvalidQuantity
	}
	return uc.adjust(ctx, id, quantity, item.MovementRestock)
}

// Decrement 出库,库存不足返回InsufficientStockError
func (uc *AdjustStockUseCase) Decrement(ctx context.Context, id uint, quantity int) (*item.Item, error) {
	if quantity <= 0 {
		return nil, item.ErrInvalidQuantity
	}
	return uc.adjust(ctx, id, -quantity, item.MovementDecrement)
}

func (uc *AdjustStockUseCase) adjust(ctx context.Context, id uint, delta int, typ item.MovementType) (*item.Item, error) {
	var (
		it *item.Item
		m  *item.Movement
	)
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		locked, err := uc.items.LockByID(ctx, id)
		if err != nil {
			return err
		}
		m, err = uc.stock.Apply(ctx, locked, delta, typ)
		if err != nil {
			return err
		}
		it = locked
		return uc.stock.Record(ctx, nil, m)
	})
	if err != nil {
		return nil, err
	}
	metrics.AddStockMovements(string(typ), 1)

	zctx.From(ctx).Info("Stock adjusted",
		zap.Uint("item_id", id),
		zap.String("type", string(typ)),
		zap.Int("before", m.Before),
		zap.Int("after", m.After),
	)
	return it, nil
}
