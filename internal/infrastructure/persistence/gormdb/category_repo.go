package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/shopdesk/internal/domain/category"
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	model := &CategoryModel{Name: c.Name}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return category.ErrCategoryExists
		}
		return apperrors.Wrap(err, "create category failed")
	}
	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	var model CategoryModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "query category failed")
	}
	return &category.Category{ID: model.ID, Name: model.Name, CreatedAt: model.CreatedAt}, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	if err := getDB(ctx, r.db).Order("name ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "list categories failed")
	}
	list := make([]*category.Category, 0, len(models))
	for _, m := range models {
		list = append(list, &category.Category{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt})
	}
	return list, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&CategoryModel{}, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return category.ErrCategoryInUse
		}
		return apperrors.Wrap(result.Error, "delete category failed")
	}
	if result.RowsAffected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) CountItems(ctx context.Context, id uint) (int64, error) {
	var count int64
	if err := getDB(ctx, r.db).Model(&ItemModel{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(err, "count category items failed")
	}
	return count, nil
}
