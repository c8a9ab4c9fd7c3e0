package user

import (
	"time"
)

// Role 用户角色
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 登录名是Username（唯一），不是邮箱
// 2. 密码已加密存储（bcrypt），不提供读取明文的方法
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
type User struct {
	ID        uint
	Username  string
	Password  string // bcrypt哈希值
	Name      string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, hashedPassword, name string, role Role) *User {
	now := time.Now()
	if role == "" {
		role = RoleStaff
	}
	return &User{
		Username:  username,
		Password:  hashedPassword,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
