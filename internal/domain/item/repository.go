package item

import (
	"context"
)

// Repository 商品仓储接口
// 教学要点:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 所有方法都从context获取事务DB,库存读写必须在事务内完成
// 3. 库存数量不做任何缓存,每次都从数据库读取
type Repository interface {
	// Create 创建商品
	Create(ctx context.Context, item *Item) error

	// FindByID 根据ID查找商品,不存在返回ErrItemNotFound
	FindByID(ctx context.Context, id uint) (*Item, error)

	// LockByID 在当前事务内读取并锁定商品行(SELECT ... FOR UPDATE)
	// SQLite不支持行锁,依赖数据库级写锁保证串行
	LockByID(ctx context.Context, id uint) (*Item, error)

	// FindByIDs 批量查询商品
	FindByIDs(ctx context.Context, ids []uint) ([]*Item, error)

	// SetQuantity 写回库存数量(读后写,调用方负责计算新值)
	SetQuantity(ctx context.Context, id uint, quantity int) error

	// Update 更新商品信息(库存变化的流水由调用方记录)
	Update(ctx context.Context, item *Item) error

	// Delete 删除商品
	Delete(ctx context.Context, id uint) error

	// List 按条件查询商品,按创建时间倒序
	List(ctx context.Context, filter ListFilter) ([]*Item, error)

	// ListLowStock 查询库存小于等于阈值的商品
	ListLowStock(ctx context.Context, threshold int) ([]*Item, error)
}

// ListFilter 商品列表过滤条件(零值表示不过滤)
type ListFilter struct {
	Brand      string
	IsActive   *bool
	CategoryID *uint
}

// MovementRepository 库存流水仓储
type MovementRepository interface {
	// Record 追加流水(与库存变更在同一事务)
	Record(ctx context.Context, movements ...*Movement) error

	// ListByItem 查询商品的流水,最新的在前
	ListByItem(ctx context.Context, itemID uint, limit int) ([]*Movement, error)
}
