package item

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/shopdesk/internal/domain/category"
	"github.com/xiebiao/shopdesk/internal/domain/item"
	"github.com/xiebiao/shopdesk/internal/domain/order"
	"github.com/xiebiao/shopdesk/internal/infrastructure/persistence/gormdb"
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
	"github.com/xiebiao/shopdesk/pkg/metrics"
)

// ManageItemUseCase 商品的创建、修改、删除
// 教学要点:
// 1. 修改库存数量和下单走同一套规则:事务内锁定 → 读后写 → 记录流水
// 2. 被订单引用的商品不能删除,只能下架
type ManageItemUseCase struct {
	items      item.Repository
	categories category.Repository
	orders     order.Repository
	stock      *item.StockService
	txManager  *gormdb.TxManager
}

func NewManageItemUseCase(
	items item.Repository,
	categories category.Repository,
	orders order.Repository,
	stock *item.StockService,
	txManager *gormdb.TxManager,
) *ManageItemUseCase {
	return &ManageItemUseCase{
		items:      items,
		categories: categories,
		orders:     orders,
		stock:      stock,
		txManager:  txManager,
	}
}

// CreateItemRequest 创建商品请求
type CreateItemRequest struct {
	Name       string
	Brand      string
	CategoryID uint
	CostPrice  decimal.Decimal
	SalePrice  decimal.Decimal
	Quantity   int
	IsActive   *bool // 不传默认上架
}

// Create 创建商品
// 初始库存大于0时记录一条ADJUST流水(0 → quantity)
func (uc *ManageItemUseCase) Create(ctx context.Context, req CreateItemRequest) (*item.Item, error) {
	if req.CostPrice.IsNegative() || req.SalePrice.IsNegative() {
		return nil, item.ErrNegativePrice
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	categoryID := req.CategoryID
	it, err := item.NewItem(req.Name, req.Brand, &categoryID, req.CostPrice, req.SalePrice, req.Quantity, active)
	if err != nil {
		return nil, err
	}

	var movement *item.Movement
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		if err := uc.requireCategory(ctx, categoryID); err != nil {
			return err
		}
		if err := uc.items.Create(ctx, it); err != nil {
			return err
		}
		if it.Quantity == 0 {
			return nil
		}

		movement = &item.Movement{
			ItemID:    it.ID,
			Type:      item.MovementAdjust,
			Delta:     it.Quantity,
			Before:    0,
			After:     it.Quantity,
			CreatedAt: it.CreatedAt,
		}
		return uc.stock.Record(ctx, nil, movement)
	})
	if err != nil {
		return nil, err
	}
	if movement != nil {
		metrics.AddStockMovements(string(item.MovementAdjust), 1)
	}

	zctx.From(ctx).Info("Item created",
		zap.Uint("item_id", it.ID),
		zap.String("name", it.Name),
		zap.Int("quantity", it.Quantity),
	)
	return uc.items.FindByID(ctx, it.ID)
}

// ItemPatch 商品部分更新,nil表示不修改
type ItemPatch struct {
	Name       *string
	Brand      *string
	CategoryID *uint
	CostPrice  *decimal.Decimal
	SalePrice  *decimal.Decimal
	Quantity   *int
	IsActive   *bool
}

// Update 部分更新商品
// 库存变化通过StockService写回并记录ADJUST流水,与下单互斥
func (uc *ManageItemUseCase) Update(ctx context.Context, id uint, p ItemPatch) (*item.Item, error) {
	if (p.CostPrice != nil && p.CostPrice.IsNegative()) || (p.SalePrice != nil && p.SalePrice.IsNegative()) {
		return nil, item.ErrNegativePrice
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return nil, item.ErrNegativeQuantity
	}

	var movement *item.Movement
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		it, err := uc.items.LockByID(ctx, id)
		if err != nil {
			if apperrors.HasCode(err, apperrors.ErrCodeItemNotFound) {
				return item.ErrItemNotFound
			}
			return err
		}

		if p.CategoryID != nil {
			if err := uc.requireCategory(ctx, *p.CategoryID); err != nil {
				return err
			}
			it.CategoryID = p.CategoryID
		}
		if p.Name != nil {
			it.Name = *p.Name
		}
		if p.Brand != nil {
			it.Brand = *p.Brand
		}
		if p.CostPrice != nil {
			it.CostPrice = *p.CostPrice
		}
		if p.SalePrice != nil {
			it.SalePrice = *p.SalePrice
		}
		if p.IsActive != nil {
			it.IsActive = *p.IsActive
		}

		if p.Quantity != nil && *p.Quantity != it.Quantity {
			movement, err = uc.stock.Apply(ctx, it, *p.Quantity-it.Quantity, item.MovementAdjust)
			if err != nil {
				return err
			}
			if err := uc.stock.Record(ctx, nil, movement); err != nil {
				return err
			}
		}

		return uc.items.Update(ctx, it)
	})
	if err != nil {
		return nil, err
	}
	if movement != nil {
		metrics.AddStockMovements(string(item.MovementAdjust), 1)
		zctx.From(ctx).Info("Item quantity adjusted",
			zap.Uint("item_id", id),
			zap.Int("before", movement.Before),
			zap.Int("after", movement.After),
		)
	}

	return uc.items.FindByID(ctx, id)
}

// Delete 删除商品
// 有订单明细引用时返回ErrItemInUse,提示改为下架
func (uc *ManageItemUseCase) Delete(ctx context.Context, id uint) error {
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		if _, err := uc.items.FindByID(ctx, id); err != nil {
			return err
		}
		n, err := uc.orders.CountLinesByItem(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return item.ErrItemInUse
		}
		return uc.items.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	zctx.From(ctx).Info("Item deleted", zap.Uint("item_id", id))
	return nil
}

func (uc *ManageItemUseCase) requireCategory(ctx context.Context, id uint) error {
	if _, err := uc.categories.FindByID(ctx, id); err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeCategoryNotFound) {
			return item.ErrUnknownCategory
		}
		return err
	}
	return nil
}
