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

// CreateOrderUseCase 创建订单用例
// 教学要点:这是整个项目最核心的用例
// 涉及:事务处理、并发控制(行锁)、价格快照、状态推导
type CreateOrderUseCase struct {
	orders    order.Repository
	lines     *lineProcessor
	stock     *item.StockService
	txManager *gormdb.TxManager
	events    order.EventPublisher
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orders order.Repository,
	items item.Repository,
	stock *item.StockService,
	txManager *gormdb.TxManager,
	events order.EventPublisher,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orders:    orders,
		lines:     newLineProcessor(items, stock),
		stock:     stock,
		txManager: txManager,
		events:    events,
	}
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	Lines      []LineInput
	PaidAmount *decimal.Decimal // 不传按0处理
}

// Execute 执行下单
//
// 核心问题:库存超卖
// 场景:商品库存5个,两个请求同时各买3个
// 错误实现:两个请求都读到5,都判断够,各自写回2 → 卖出6个
//
// 正确实现(单个事务内):
//  1. 按商品ID升序 SELECT ... FOR UPDATE 锁定商品行
//  2. 检查库存,写回扣减后的数量
//  3. 用锁定时读到的售价生成明细快照,累加总价
//  4. 根据总价和已付金额推导状态,写入订单头和明细
//  5. 写库存流水,COMMIT释放锁
//
// 任何一行失败,整个事务回滚,已扣减的库存全部恢复
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*order.Order, error) {
	ctx, op := startOperation(ctx, opCreate)

	paid := decimal.Zero
	if req.PaidAmount != nil {
		paid = *req.PaidAmount
	}

	var (
		created   *order.Order
		movements []*item.Movement
	)
	err := validateLines(req.Lines)
	if err == nil && paid.IsNegative() {
		err = order.ErrNegativePaid
	}
	if err == nil {
		err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
			lines, deducted, err := uc.lines.apply(ctx, req.Lines)
			if err != nil {
				return err
			}

			o := order.NewOrder(lines, paid)
			if err := uc.orders.Create(ctx, o); err != nil {
				return err
			}

			// 流水需要订单ID,放在订单写入之后
			if err := uc.stock.Record(ctx, &o.ID, deducted...); err != nil {
				return err
			}

			created, movements = o, deducted
			return nil
		})
	}

	if err != nil {
		op.finish(ctx, 0, err)
		return nil, err
	}
	op.finish(ctx, created.ID, nil)
	countMovements(movements)

	zctx.From(ctx).Info("Order created",
		zap.Uint("order_id", created.ID),
		zap.String("total", created.Total.StringFixed(2)),
		zap.String("status", string(created.Status)),
		zap.Int("lines", len(created.Lines)),
	)

	publishEvent(ctx, uc.events, order.EventCreated, created)
	return created, nil
}
