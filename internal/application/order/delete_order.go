package order

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xiebiao/shopdesk/internal/domain/item"
	"github.com/xiebiao/shopdesk/internal/domain/order"
	"github.com/xiebiao/shopdesk/internal/infrastructure/persistence/gormdb"
)

// DeleteOrderUseCase 删除订单并归还库存
type DeleteOrderUseCase struct {
	orders    order.Repository
	lines     *lineProcessor
	stock     *item.StockService
	txManager *gormdb.TxManager
	events    order.EventPublisher
}

func NewDeleteOrderUseCase(
	orders order.Repository,
	items item.Repository,
	stock *item.StockService,
	txManager *gormdb.TxManager,
	events order.EventPublisher,
) *DeleteOrderUseCase {
	return &DeleteOrderUseCase{
		orders:    orders,
		lines:     newLineProcessor(items, stock),
		stock:     stock,
		txManager: txManager,
		events:    events,
	}
}

// Execute 删除订单
// 归还每一行的库存后删除订单头和明细
// 流水的order_id保留已删除订单的ID(流水表不建外键),便于追溯
func (uc *DeleteOrderUseCase) Execute(ctx context.Context, orderID uint) error {
	ctx, op := startOperation(ctx, opDelete)

	var (
		deleted   *order.Order
		movements []*item.Movement
	)
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		o, err := uc.orders.LockByID(ctx, orderID)
		if err != nil {
			return err
		}

		released, err := uc.lines.release(ctx, o.Lines)
		if err != nil {
			return err
		}

		if err := uc.orders.DeleteWithLines(ctx, o.ID); err != nil {
			return err
		}

		if err := uc.stock.Record(ctx, &o.ID, released...); err != nil {
			return err
		}

		deleted, movements = o, released
		return nil
	})

	op.finish(ctx, orderID, err)
	if err != nil {
		return err
	}
	countMovements(movements)

	zctx.From(ctx).Info("Order deleted",
		zap.Uint("order_id", orderID),
		zap.Int("released_lines", len(movements)),
	)

	publishEvent(ctx, uc.events, order.EventDeleted, deleted)
	return nil
}
