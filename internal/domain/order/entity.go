package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status 订单支付状态
// 教学要点:
// 1. 状态不是手工流转的,而是由 total 和 paidAmount 推导出来的
// 2. 每次总价或已付金额变化后都必须重新调用DeriveStatus
type Status string

const (
	StatusUnpaid  Status = "UNPAID"  // 未付款
	StatusPartial Status = "PARTIAL" // 部分付款
	StatusPaid    Status = "PAID"    // 已付清
)

// Valid 是否为合法状态
func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPartial, StatusPaid:
		return true
	}
	return false
}

// DeriveStatus 根据总价和已付金额推导状态
//
//	paid <= 0      → UNPAID
//	paid < total   → PARTIAL
//	其他(含多付)   → PAID
func DeriveStatus(total, paid decimal.Decimal) Status {
	switch {
	case paid.Sign() <= 0:
		return StatusUnpaid
	case paid.LessThan(total):
		return StatusPartial
	default:
		return StatusPaid
	}
}

// MoneyScale 金额保留的小数位,与金额列 decimal(12,2) 一致
const MoneyScale = 2

// RoundMoney 金额四舍五入到MoneyScale位
// 订单里的金额在推导状态前先取整,保证写入数据库后状态和金额仍然对得上
func RoundMoney(v decimal.Decimal) decimal.Decimal {
	return v.Round(MoneyScale)
}

// Order 订单实体(聚合根)
// 教学要点:
// 1. Order是聚合根,Line是子实体,明细只能随订单一起保存和删除
// 2. Total冗余存储,等于各明细 price×quantity 之和
// 3. PaidAmount默认为0,修改订单时不传则保留原值
type Order struct {
	ID         uint
	Total      decimal.Decimal
	PaidAmount decimal.Decimal
	Status     Status
	Lines      []Line
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Line 订单明细
// 教学要点:
// 1. Price是明细创建时商品售价的快照,之后商品改价不影响历史订单
// 2. ItemName/ItemBrand查询时关联加载,只读
type Line struct {
	ID        uint
	OrderID   uint
	ItemID    uint
	Quantity  int
	Price     decimal.Decimal
	ItemName  string
	ItemBrand string
}

// Subtotal 明细小计
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// NewOrder 创建新订单(工厂方法)
// 总价由明细计算,状态由总价和已付金额推导
func NewOrder(lines []Line, paid decimal.Decimal) *Order {
	now := time.Now()
	o := &Order{
		PaidAmount: RoundMoney(paid),
		Lines:      lines,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	o.recalculate()
	return o
}

// ReplaceLines 替换订单明细
// paid为nil时保留原已付金额
func (o *Order) ReplaceLines(lines []Line, paid *decimal.Decimal) {
	o.Lines = lines
	if paid != nil {
		o.PaidAmount = RoundMoney(*paid)
	}
	for i := range o.Lines {
		o.Lines[i].OrderID = o.ID
	}
	o.UpdatedAt = time.Now()
	o.recalculate()
}

// CalculateTotal 根据明细实时计算总价
func (o *Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Outstanding 未付金额(多付时为0)
func (o *Order) Outstanding() decimal.Decimal {
	rest := o.Total.Sub(o.PaidAmount)
	if rest.Sign() < 0 {
		return decimal.Zero
	}
	return rest
}

func (o *Order) recalculate() {
	for i := range o.Lines {
		o.Lines[i].Price = RoundMoney(o.Lines[i].Price)
	}
	o.Total = RoundMoney(o.CalculateTotal())
	o.Status = DeriveStatus(o.Total, o.PaidAmount)
}
