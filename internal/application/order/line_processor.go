package order

import (
	"context"
	"slices"

	"github.com/xiebiao/shopdesk/internal/domain/item"
	"github.com/xiebiao/shopdesk/internal/domain/order"
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

// LineInput 客户端提交的订单明细
type LineInput struct {
	ItemID   uint
	Quantity int
}

// lineProcessor 明细处理:扣减/归还库存并生成价格快照
// 教学要点:
//  1. 必须在事务内调用,商品行按ID升序通过LockByID加锁后再读库存
//  2. 读后写(SetQuantity写回计算好的新值),不用 quantity = quantity - ? 这种相对更新
//  3. 任何一行失败都直接返回错误,由事务整体回滚,不做局部恢复
type lineProcessor struct {
	items item.Repository
	stock *item.StockService
}

func newLineProcessor(items item.Repository, stock *item.StockService) *lineProcessor {
	return &lineProcessor{items: items, stock: stock}
}

// apply 先按商品ID升序锁定所有商品,再按输入顺序处理每一行
//  1. 商品不存在 → "Item <id> not found"
//  2. 库存不足 → "Insufficient stock for <name>"
//  3. 扣减库存,记录售价快照
//
// 错误按输入顺序报告:前面的行库存不足时,不会因为后面的商品不存在而改变错误信息。
// 同一商品出现在多行时共用同一个锁定对象,后一行能看到前一行扣减后的库存
func (p *lineProcessor) apply(ctx context.Context, inputs []LineInput) ([]order.Line, []*item.Movement, error) {
	ids := make([]uint, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.ItemID)
	}
	locked, missing, err := p.lockAll(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	lines := make([]order.Line, 0, len(inputs))
	movements := make([]*item.Movement, 0, len(inputs))

	for _, in := range inputs {
		it, ok := locked[in.ItemID]
		if !ok {
			return nil, nil, missing[in.ItemID]
		}

		m, err := p.stock.Apply(ctx, it, -in.Quantity, item.MovementOrderDeduct)
		if err != nil {
			return nil, nil, err
		}

		lines = append(lines, order.Line{
			ItemID:    it.ID,
			Quantity:  in.Quantity,
			Price:     it.SalePrice,
			ItemName:  it.Name,
			ItemBrand: it.Brand,
		})
		movements = append(movements, m)
	}

	return lines, movements, nil
}

// release 归还已有明细占用的库存(修改/删除订单时调用)
func (p *lineProcessor) release(ctx context.Context, lines []order.Line) ([]*item.Movement, error) {
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	locked, missing, err := p.lockAll(ctx, ids)
	if err != nil {
		return nil, err
	}

	movements := make([]*item.Movement, 0, len(lines))
	for _, l := range lines {
		it, ok := locked[l.ItemID]
		if !ok {
			// 被订单引用的商品受外键保护,不应该不存在
			return nil, apperrors.Wrapf(missing[l.ItemID], "release stock of item %d failed", l.ItemID)
		}

		m, err := p.stock.Apply(ctx, it, l.Quantity, item.MovementOrderRelease)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}

	return movements, nil
}

// lockAll 按ID升序锁定商品,每个ID只锁一次
// 所有事务都按同一顺序加锁,[A,B] 和 [B,A] 两个并发订单不会互相死锁。
// 不存在的商品记录在missing里,由调用方按输入顺序决定报哪个错误
func (p *lineProcessor) lockAll(ctx context.Context, ids []uint) (map[uint]*item.Item, map[uint]error, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	locked := make(map[uint]*item.Item, len(sorted))
	missing := make(map[uint]error)
	for _, id := range sorted {
		it, err := p.items.LockByID(ctx, id)
		switch {
		case err == nil:
			locked[id] = it
		case apperrors.HasCode(err, apperrors.ErrCodeItemNotFound):
			missing[id] = err
		default:
			return nil, nil, err
		}
	}
	return locked, missing, nil
}

// validateLines 进入事务前的参数校验
func validateLines(inputs []LineInput) error {
	if len(inputs) == 0 {
		return order.ErrEmptyLines
	}
	for _, in := range inputs {
		if in.ItemID == 0 {
			return ErrInvalidItemID
		}
		if in.Quantity <= 0 {
			return order.ErrInvalidQuantity
		}
	}
	return nil
}

// ErrInvalidItemID itemId必须是正整数
var ErrInvalidItemID = apperrors.New(apperrors.ErrCodeInvalidParams, "itemId must be a positive integer")
