package item

import (
	"time"
)

// MovementType 库存变动类型
type MovementType string

const (
	MovementOrderDeduct  MovementType = "ORDER_DEDUCT"  // 下单扣减
	MovementOrderRelease MovementType = "ORDER_RELEASE" // 订单修改/删除时归还
	MovementRestock      MovementType = "RESTOCK"       // 手工入库
	MovementDecrement    MovementType = "DECREMENT"     // 手工出库
	MovementAdjust       MovementType = "ADJUST"        // 编辑商品时直接修改库存
)

// Movement 库存流水（只追加，不修改）
// 每一次库存变化都记录变化前后的数量，便于对账：
//
//	After = Before + Delta
type Movement struct {
	ID        uint
	ItemID    uint
	Type      MovementType
	Delta     int
	Before    int
	After     int
	OrderID   *uint
	CreatedAt time.Time
}
