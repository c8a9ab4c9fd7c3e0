package order

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/shopdesk/internal/domain/item"
	"github.com/xiebiao/shopdesk/internal/domain/order"
	"github.com/xiebiao/shopdesk/internal/infrastructure/persistence/gormdb"
)

// UpdateOrderUseCase 修改订单明细
type UpdateOrderUseCase struct {
	orders    order.Repository
	lines     *lineProcessor
	stock     *item.StockService
	txManager *gormdb.TxManager
	events    order.EventPublisher
}

func NewUpdateOrderUseCase(
	orders order.Repository,
	items item.Repository,
	stock *item.StockService,
	txManager *gormdb.TxManager,
	events order.EventPublisher,
) *UpdateOrderUseCase {
	return &UpdateOrderUseCase{
		orders:    orders,
		lines:     newLineProcessor(items, stock),
		stock:     stock,
		txManager: txManager,
		events:    events,
	}
}

// UpdateOrderRequest 修改订单请求
// PaidAmount为nil时保留原已付金额
type UpdateOrderRequest struct {
	OrderID    uint
	Lines      []LineInput
	PaidAmount *decimal.Decimal
}

// Execute 整体替换订单明细
//
// 事务内步骤:
//  1. 锁定订单(先订单后商品,锁顺序固定)
//  2. 归还旧明细的库存
//  3. 按新明细重新扣减库存,价格按当前售价重新快照
//  4. 重算总价和状态,写回订单
//
// 新明细任何一行失败(商品不存在/库存不足),旧明细和库存都保持原样
func (uc *UpdateOrderUseCase) Execute(ctx context.Context, req UpdateOrderRequest) (*order.Order, error) {
	ctx, op := startOperation(ctx, opUpdate)

	var (
		updated   *order.Order
		movements []*item.Movement
	)
	err := validateLines(req.Lines)
	if err == nil && req.PaidAmount != nil && req.PaidAmount.IsNegative() {
		err = order.ErrNegativePaid
	}
	if err == nil {
		err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
			o, err := uc.orders.LockByID(ctx, req.OrderID)
			if err != nil {
				return err
			}

			released, err := uc.lines.release(ctx, o.Lines)
			if err != nil {
				return err
			}

			lines, deducted, err := uc.lines.apply(ctx, req.Lines)
			if err != nil {
				return err
			}

			o.ReplaceLines(lines, req.PaidAmount)
			if err := uc.orders.ReplaceLines(ctx, o); err != nil {
				return err
			}

			all := append(released, deducted...)
			if err := uc.stock.Record(ctx, &o.ID, all...); err != nil {
				return err
			}

			updated, movements = o, all
			return nil
		})
	}

	if err != nil {
		op.finish(ctx, req.OrderID, err)
		return nil, err
	}
	op.finish(ctx, updated.ID, nil)
	countMovements(movements)

	zctx.From(ctx).Info("Order updated",
		zap.Uint("order_id", updated.ID),
		zap.String("total", updated.Total.StringFixed(2)),
		zap.String("status", string(updated.Status)),
	)

	publishEvent(ctx, uc.events, order.EventUpdated, updated)
	return updated, nil
}
