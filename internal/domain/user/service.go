package user

import (
	"context"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

// 用户领域错误
var (
	ErrUserNotFound             = apperrors.New(apperrors.ErrCodeUserNotFound, "User not found")
	ErrInvalidUser              = apperrors.New(apperrors.ErrCodeInvalidUser, "Invalid User.")
	ErrUsernameTaken            = apperrors.New(apperrors.ErrCodeDuplicateEntry, "Username already exists")
	ErrWeakPassword             = apperrors.New(apperrors.ErrCodeWeakPassword, "Password must be at least 6 characters and contain a letter")
	ErrIncorrectCurrentPassword = apperrors.New(apperrors.ErrCodeIncorrectPassword, "Current password is incorrect.")
)

// Service 用户领域服务
// 设计说明：
// 1. Service包含不属于单个实体的业务逻辑（如密码加密、验证）
// 2. Service依赖Repository接口，不依赖具体实现（依赖倒置）
type Service interface {
	// Create 创建用户（管理员初始化、后台添加员工）
	Create(ctx context.Context, username, password, name string, role Role) (*User, error)

	// Login 用户登录
	Login(ctx context.Context, username, password string) (*User, error)

	// ChangePassword 修改密码，需要校验当前密码
	ChangePassword(ctx context.Context, userID uint, current, next string) error

	// Profile 查询用户信息
	Profile(ctx context.Context, userID uint) (*User, error)
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo, cost: bcrypt.DefaultCost}
}

func (s *service) Create(ctx context.Context, username, password, name string, role Role) (*User, error) {
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "hash password failed")
	}

	u := NewUser(username, string(hashed), name, role)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login 用户登录
// 业务规则：
// 1. 用户名不存在 → "Invalid User."
// 2. 密码错误 → "Invalid Password."
func (s *service) Login(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeUserNotFound) {
			return nil, ErrInvalidUser
		}
		return nil, err
	}

	if err := comparePassword(u.Password, password); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := comparePassword(u.Password, current); err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeInvalidPassword) {
			return ErrIncorrectCurrentPassword
		}
		return err
	}

	if err := validatePasswordStrength(next); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return apperrors.Wrap(err, "hash password failed")
	}
	return s.repo.UpdatePassword(ctx, userID, string(hashed))
}

func (s *service) Profile(ctx context.Context, userID uint) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func comparePassword(hashed, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "verify password failed")
	}
	return nil
}

// validatePasswordStrength 密码强度校验
// 规则：至少6位，至少包含一个字母
func validatePasswordStrength(password string) error {
	if len(password) < 6 {
		return ErrWeakPassword
	}
	for _, r := range password {
		if unicode.IsLetter(r) {
			return nil
		}
	}
	return ErrWeakPassword
}
