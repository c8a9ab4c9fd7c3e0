package category

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xiebiao/shopdesk/internal/domain/category"
	"github.com/xiebiao/shopdesk/internal/infrastructure/persistence/gormdb"
)

// CategoryUseCase 分类管理
type CategoryUseCase struct {
	repo      category.Repository
	txManager *gormdb.TxManager
}

func NewCategoryUseCase(repo category.Repository, txManager *gormdb.TxManager) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, txManager: txManager}
}

// List 按名称升序
func (uc *CategoryUseCase) List(ctx context.Context) ([]*category.Category, error) {
	return uc.repo.List(ctx)
}

// Create 名称转为大写后保存,重名返回ErrCategoryExists
func (uc *CategoryUseCase) Create(ctx context.Context, name string) (*category.Category, error) {
	c, err := category.New(name)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	zctx.From(ctx).Info("Category created", zap.Uint("category_id", c.ID), zap.String("name", c.Name))
	return c, nil
}

// Delete 删除分类,仍有商品引用时返回ErrCategoryInUse
// 检查和删除在同一事务内,避免检查后又有商品挂到该分类
func (uc *CategoryUseCase) Delete(ctx context.Context, id uint) error {
	return uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		if _, err := uc.repo.FindByID(ctx, id); err != nil {
			return err
		}
		n, err := uc.repo.CountItems(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return category.ErrCategoryInUse
		}
		return uc.repo.Delete(ctx, id)
	})
}
