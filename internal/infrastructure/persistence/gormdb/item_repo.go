package gormdb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/shopdesk/internal/domain/item"
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

// itemRepository 商品仓储实现
// 设计说明:
// 1. 实现domain/item/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 库存只通过SetQuantity写回,调用方在事务内先LockByID再计算新值
type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository 创建商品仓储
func NewItemRepository(db *gorm.DB) item.Repository {
	return &itemRepository{db: db}
}

func (r *itemRepository) getDB(ctx context.Context) *gorm.DB {
	return getDB(ctx, r.db)
}

// Create 创建商品
func (r *itemRepository) Create(ctx context.Context, it *item.Item) error {
	model := &ItemModel{
		Name:       it.Name,
		Brand:      it.Brand,
		CategoryID: it.CategoryID,
		CostPrice:  it.CostPrice,
		SalePrice:  it.SalePrice,
		Quantity:   it.Quantity,
		IsActive:   it.IsActive,
	}

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperrors.New(apperrors.ErrCodeCategoryNotFound, "Category not found")
		}
		return apperrors.Wrap(err, "create item failed")
	}

	it.ID = model.ID
	it.CreatedAt = model.CreatedAt
	it.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找商品(关联分类名称)
func (r *itemRepository) FindByID(ctx context.Context, id uint) (*item.Item, error) {
	var model ItemModel
	err := r.getDB(ctx).Preload("Category").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, item.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "query item failed")
	}
	return toItemEntity(&model), nil
}

// LockByID 锁定商品行(SELECT ... FOR UPDATE)
// 教学要点:
// 1. 必须在事务中调用,锁在事务提交/回滚时释放
// 2. 其他事务锁定同一行时会阻塞,直到锁释放或超时
// 3. 锁定期间其他事务的读写都会等待,保证"读库存 → 写库存"不会被插队
func (r *itemRepository) LockByID(ctx context.Context, id uint) (*item.Item, error) {
	var model ItemModel
	err := forUpdate(r.getDB(ctx)).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, item.NotFoundError(id)
		}
		return nil, apperrors.Wrap(err, "lock item failed")
	}
	return toItemEntity(&model), nil
}

// FindByIDs 批量查询商品
func (r *itemRepository) FindByIDs(ctx context.Context, ids []uint) ([]*item.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []ItemModel
	if err := r.getDB(ctx).Preload("Category").Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "query items failed")
	}
	return toItemEntities(models), nil
}

// SetQuantity 写回库存
// 连同updated_at一起更新:MySQL在值未变化时RowsAffected为0,不能据此判断记录不存在
func (r *itemRepository) SetQuantity(ctx context.Context, id uint, quantity int) error {
	result := r.getDB(ctx).Model(&ItemModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "update stock failed")
	}
	if result.RowsAffected == 0 {
		return item.NotFoundError(id)
	}
	return nil
}

// Update 更新商品信息(含库存,库存流水由调用方记录)
func (r *itemRepository) Update(ctx context.Context, it *item.Item) error {
	now := time.Now().UTC()
	result := r.getDB(ctx).Model(&ItemModel{}).
		Where("id = ?", it.ID).
		Updates(map[string]interface{}{
			"name":        it.Name,
			"brand":       it.Brand,
			"category_id": it.CategoryID,
			"cost_price":  it.CostPrice,
			"sale_price":  it.SalePrice,
			"quantity":    it.Quantity,
			"is_active":   it.IsActive,
			"updated_at":  now,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return apperrors.New(apperrors.ErrCodeCategoryNotFound, "Category not found")
		}
		return apperrors.Wrap(result.Error, "update item failed")
	}
	if result.RowsAffected == 0 {
		return item.ErrItemNotFound
	}
	it.UpdatedAt = now
	return nil
}

// Delete 删除商品
// 被订单明细引用时外键会拒绝删除,调用方应先检查引用
func (r *itemRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&ItemModel{}, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return item.ErrItemInUse
		}
		return apperrors.Wrap(result.Error, "delete item failed")
	}
	if result.RowsAffected == 0 {
		return item.ErrItemNotFound
	}
	return nil
}

// List 按条件查询商品
func (r *itemRepository) List(ctx context.Context, filter item.ListFilter) ([]*item.Item, error) {
	query := r.getDB(ctx).Model(&ItemModel{}).Preload("Category")

	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	var models []ItemModel
	if err := query.Order("created_at DESC").Order("id DESC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "list items failed")
	}
	return toItemEntities(models), nil
}

// ListLowStock 查询低库存商品,库存少的在前
func (r *itemRepository) ListLowStock(ctx context.Context, threshold int) ([]*item.Item, error) {
	var models []ItemModel
	err := r.getDB(ctx).Preload("Category").
		Where("quantity <= ?", threshold).
		Order("quantity ASC").Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "list low stock items failed")
	}
	return toItemEntities(models), nil
}

func toItemEntity(m *ItemModel) *item.Item {
	it := &item.Item{
		ID:         m.ID,
		Name:       m.Name,
		Brand:      m.Brand,
		CategoryID: m.CategoryID,
		CostPrice:  m.CostPrice,
		SalePrice:  m.SalePrice,
		Quantity:   m.Quantity,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Category != nil {
		it.CategoryName = m.Category.Name
	}
	return it
}

func toItemEntities(models []ItemModel) []*item.Item {
	items := make([]*item.Item, 0, len(models))
	for i := range models {
		items = append(items, toItemEntity(&models[i]))
	}
	return items
}
