package gormdb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/shopdesk/internal/domain/order"
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

// orderRepository 订单仓储实现
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

func (r *orderRepository) getDB(ctx context.Context) *gorm.DB {
	return getDB(ctx, r.db)
}

// Create 创建订单(包含订单明细)
// 教学要点:
// 1. GORM会自动插入关联的Lines
// 2. 插入后回填订单ID和明细ID
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "create order failed")
	}

	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	for i := range o.Lines {
		o.Lines[i].ID = model.Lines[i].ID
		o.Lines[i].OrderID = model.ID
	}
	return nil
}

// FindByID 根据ID查找订单
// 教学要点:使用Preload预加载明细和商品,避免N+1查询
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := r.withLines(r.getDB(ctx)).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "query order failed")
	}
	return toOrderEntity(&model), nil
}

// LockByID 锁定订单头(SELECT ... FOR UPDATE)并加载明细
// 锁的顺序固定为:先订单,后商品
func (r *orderRepository) LockByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := r.withLines(forUpdate(r.getDB(ctx))).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "lock order failed")
	}
	return toOrderEntity(&model), nil
}

// ReplaceLines 整体替换订单明细并更新订单头
func (r *orderRepository) ReplaceLines(ctx context.Context, o *order.Order) error {
	db := r.getDB(ctx)

	if err := db.Where("order_id = ?", o.ID).Delete(&OrderLineModel{}).Error; err != nil {
		return apperrors.Wrap(err, "delete order lines failed")
	}

	if len(o.Lines) > 0 {
		lines := toLineModels(o.ID, o.Lines)
		if err := db.Create(&lines).Error; err != nil {
			return apperrors.Wrap(err, "create order lines failed")
		}
		for i := range o.Lines {
			o.Lines[i].ID = lines[i].ID
		}
	}

	now := time.Now().UTC()
	result := db.Model(&OrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]interface{}{
			"total":       o.Total,
			"paid_amount": o.PaidAmount,
			"status":      string(o.Status),
			"updated_at":  now,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "update order failed")
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}
	o.UpdatedAt = now
	return nil
}

// DeleteWithLines 删除订单及其明细
func (r *orderRepository) DeleteWithLines(ctx context.Context, id uint) error {
	db := r.getDB(ctx)

	if err := db.Where("order_id = ?", id).Delete(&OrderLineModel{}).Error; err != nil {
		return apperrors.Wrap(err, "delete order lines failed")
	}

	result := db.Delete(&OrderModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "delete order failed")
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

// List 查询订单列表
func (r *orderRepository) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	query := r.withLines(r.getDB(ctx).Model(&OrderModel{}))

	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", filter.To.UTC())
	}

	var models []OrderModel
	if err := query.Order("created_at DESC").Order("id DESC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "list orders failed")
	}

	orders := make([]*order.Order, 0, len(models))
	for i := range models {
		orders = append(orders, toOrderEntity(&models[i]))
	}
	return orders, nil
}

// CountLinesByItem 统计引用某商品的订单明细数
func (r *orderRepository) CountLinesByItem(ctx context.Context, itemID uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&OrderLineModel{}).Where("item_id = ?", itemID).Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "count order lines failed")
	}
	return count, nil
}

func (r *orderRepository) withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Lines.Item")
}

func toOrderModel(o *order.Order) *OrderModel {
	return &OrderModel{
		ID:         o.ID,
		Total:      o.Total,
		PaidAmount: o.PaidAmount,
		Status:     string(o.Status),
		Lines:      toLineModels(o.ID, o.Lines),
	}
}

func toLineModels(orderID uint, lines []order.Line) []OrderLineModel {
	models := make([]OrderLineModel, 0, len(lines))
	for _, l := range lines {
		models = append(models, OrderLineModel{
			OrderID:  orderID,
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
			Price:    l.Price,
		})
	}
	return models
}

func toOrderEntity(m *OrderModel) *order.Order {
	o := &order.Order{
		ID:         m.ID,
		Total:      m.Total,
		PaidAmount: m.PaidAmount,
		Status:     order.Status(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		Lines:      make([]order.Line, 0, len(m.Lines)),
	}
	for _, l := range m.Lines {
		line := order.Line{
			ID:       l.ID,
			OrderID:  l.OrderID,
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
			Price:    l.Price,
		}
		if l.Item != nil {
			line.ItemName = l.Item.Name
			line.ItemBrand = l.Item.Brand
		}
		o.Lines = append(o.Lines, line)
	}
	return o
}
