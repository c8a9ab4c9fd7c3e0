package category

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

// Category 商品分类
// 名称统一存储为大写，唯一性由数据库唯一索引保证
type Category struct {
	ID        uint
	Name      string
	CreatedAt time.Time
}

// NormalizeName 去掉首尾空白并转为大写
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// New 创建分类，名称为空时返回ErrNameRequired
func New(name string) (*Category, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return &Category{Name: name, CreatedAt: time.Now()}, nil
}

var (
	ErrNameRequired     = apperrors.New(apperrors.ErrCodeInvalidParams, "Category name is required")
	ErrCategoryExists   = apperrors.New(apperrors.ErrCodeCategoryDuplicate, "Category already exists")
	ErrCategoryInUse    = apperrors.New(apperrors.ErrCodeCategoryInUse, "Cannot delete category linked to items")
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "Category not found")
)

// Repository 分类仓储接口
type Repository interface {
	// Create 重名时返回ErrCategoryExists
	Create(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id uint) (*Category, error)
	// List 按名称升序
	List(ctx context.Context) ([]*Category, error)
	Delete(ctx context.Context, id uint) error
	// CountItems 统计引用该分类的商品数
	CountItems(ctx context.Context, id uint) (int64, error)
}
