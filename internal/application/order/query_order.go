package order

import (
	"context"

	"github.com/xiebiao/shopdesk/internal/domain/order"
)

// QueryOrderUseCase 订单查询(只读,不开事务)
type QueryOrderUseCase struct {
	orders order.Repository
}

func NewQueryOrderUseCase(orders order.Repository) *QueryOrderUseCase {
	return &QueryOrderUseCase{orders: orders}
}

// Get 查询单个订单(包含明细)
func (uc *QueryOrderUseCase) Get(ctx context.Context, id uint) (*order.Order, error) {
	return uc.orders.FindByID(ctx, id)
}

// List 按状态和创建时间过滤订单,最新的在前
func (uc *QueryOrderUseCase) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	return uc.orders.List(ctx, filter)
}
