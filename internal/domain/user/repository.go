package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/gormdb
type Repository interface {
	// Create 创建用户
	// 用户名已存在时返回ErrUsernameTaken
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户，不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByUsername 根据用户名查找用户，不存在返回ErrUserNotFound
	FindByUsername(ctx context.Context, username string) (*User, error)

	// UpdatePassword 更新密码哈希
	UpdatePassword(ctx context.Context, id uint, hashedPassword string) error
}
