package gormdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/shopdesk/internal/domain/item"
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

type movementRepository struct {
	db *gorm.DB
}

// NewMovementRepository 创建库存流水仓储
func NewMovementRepository(db *gorm.DB) item.MovementRepository {
	return &movementRepository{db: db}
}

// Record 批量追加流水
func (r *movementRepository) Record(ctx context.Context, movements ...*item.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	models := make([]StockMovementModel, 0, len(movements))
	for _, m := range movements {
		models = append(models, StockMovementModel{
			ItemID:  m.ItemID,
			Type:    string(m.Type),
			Delta:   m.Delta,
			Before:  m.Before,
			After:   m.After,
			OrderID: m.OrderID,
		})
	}

	if err := getDB(ctx, r.db).Create(&models).Error; err != nil {
		return apperrors.Wrap(err, "record stock movements failed")
	}

	for i := range models {
		movements[i].ID = models[i].ID
		movements[i].CreatedAt = models[i].CreatedAt
	}
	return nil
}

// ListByItem 查询商品流水,limit<=0表示不限制
func (r *movementRepository) ListByItem(ctx context.Context, itemID uint, limit int) ([]*item.Movement, error) {
	query := getDB(ctx, r.db).Where("item_id = ?", itemID).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []StockMovementModel
	if err := query.Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "list stock movements failed")
	}

	movements := make([]*item.Movement, 0, len(models))
	for _, m := range models {
		movements = append(movements, &item.Movement{
			ID:        m.ID,
			ItemID:    m.ItemID,
			Type:      item.MovementType(m.Type),
			Delta:     m.Delta,
			Before:    m.Before,
			After:     m.After,
			OrderID:   m.OrderID,
			CreatedAt: m.CreatedAt,
		})
	}
	return movements, nil
}
