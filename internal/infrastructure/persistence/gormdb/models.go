package gormdb

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryModel GORM分类模型
// 名称已在领域层转为大写，唯一索引保证不重复
type CategoryModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:100;not null"`
	CreatedAt time.Time
}

func (CategoryModel) TableName() string {
	return "categories"
}

// ItemModel GORM商品模型
// 设计说明:
// 1. 金额使用decimal(12,2)存储
// 2. quantity有CHECK约束,数据库层面也不允许负库存
// 3. IsActive不能加default:true,否则GORM创建时会把false当作零值替换成默认值
type ItemModel struct {
	ID         uint            `gorm:"primaryKey"`
	Name       string          `gorm:"size:200;not null"`
	Brand      string          `gorm:"index;size:100;not null"`
	CategoryID *uint           `gorm:"index"`
	Category   *CategoryModel  `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	CostPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SalePrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity   int             `gorm:"not null;check:chk_items_quantity,quantity >= 0"`
	IsActive   bool            `gorm:"index;not null"`
	CreatedAt  time.Time       `gorm:"index"`
	UpdatedAt  time.Time
}

func (ItemModel) TableName() string {
	return "items"
}

// OrderModel GORM订单模型
// 教学要点:
// 1. 与OrderLineModel是一对多关系
// 2. Status冗余存储,便于按状态过滤
type OrderModel struct {
	ID         uint             `gorm:"primaryKey"`
	Total      decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	PaidAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Status     string           `gorm:"index;size:10;not null"`
	Lines      []OrderLineModel `gorm:"foreignKey:OrderID"`
	CreatedAt  time.Time        `gorm:"index"`
	UpdatedAt  time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel GORM订单明细模型
// 教学要点:
// 1. Price是下单时的售价快照
// 2. item_id外键限制删除,被引用的商品不能删除
type OrderLineModel struct {
	ID       uint            `gorm:"primaryKey"`
	OrderID  uint            `gorm:"index;not null"`
	ItemID   uint            `gorm:"index;not null"`
	Item     *ItemModel      `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT"`
	Quantity int             `gorm:"not null;check:chk_order_lines_quantity,quantity > 0"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (OrderLineModel) TableName() string {
	return "order_lines"
}

// StockMovementModel 库存流水
// 不对items/orders建外键:订单删除后流水仍需保留
type StockMovementModel struct {
	ID        uint      `gorm:"primaryKey"`
	ItemID    uint      `gorm:"index;not null"`
	Type      string    `gorm:"size:20;not null"`
	Delta     int       `gorm:"not null"`
	Before    int       `gorm:"column:qty_before;not null"`
	After     int       `gorm:"column:qty_after;not null"`
	OrderID   *uint     `gorm:"index"`
	CreatedAt time.Time `gorm:"index"`
}

func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// PrintJobModel 打印任务
type PrintJobModel struct {
	ID            uint            `gorm:"primaryKey"`
	CustomerName  string          `gorm:"size:100"`
	Pages         int             `gorm:"not null"`
	Rate          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentStatus string          `gorm:"index;size:10;not null"`
	CreatedAt     time.Time       `gorm:"index"`
	UpdatedAt     time.Time
}

func (PrintJobModel) TableName() string {
	return "print_jobs"
}

// UserModel GORM用户模型
type UserModel struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:50;not null"`
	Password  string `gorm:"size:255;not null"`
	Name      string `gorm:"size:100"`
	Role      string `gorm:"size:10;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return "users"
}
