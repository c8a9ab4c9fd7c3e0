package order

import (
	"context"
	"time"
)

// Repository 订单仓储接口(依赖倒置原则)
// 教学要点:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
// 3. 订单头和明细总是一起读写
type Repository interface {
	// Create 创建订单(包含订单明细),回填ID
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(包含明细和商品名称)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// LockByID 在当前事务内锁定订单头并加载明细
	// 修改/删除订单前必须先锁定,否则并发修改同一订单会重复归还库存
	LockByID(ctx context.Context, id uint) (*Order, error)

	// ReplaceLines 删除旧明细、写入order.Lines,并更新订单头(total/paid/status)
	ReplaceLines(ctx context.Context, order *Order) error

	// DeleteWithLines 删除订单及其明细
	DeleteWithLines(ctx context.Context, id uint) error

	// List 查询订单列表(包含明细),按创建时间倒序
	List(ctx context.Context, filter ListFilter) ([]*Order, error)

	// CountLinesByItem 统计引用某商品的订单明细数
	CountLinesByItem(ctx context.Context, itemID uint) (int64, error)
}

// ListFilter 订单过滤条件(零值表示不过滤)
type ListFilter struct {
	Status Status
	From   *time.Time
	To     *time.Time
}
