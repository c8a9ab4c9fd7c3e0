package user

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xiebiao/shopdesk/internal/domain/user"
	"github.com/xiebiao/shopdesk/internal/infrastructure/config"
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

// AccountUseCase 当前用户的资料和密码
type AccountUseCase struct {
	userService user.Service
}

func NewAccountUseCase(userService user.Service) *AccountUseCase {
	return &AccountUseCase{userService: userService}
}

func (uc *AccountUseCase) Profile(ctx context.Context, userID uint) (*user.User, error) {
	return uc.userService.Profile(ctx, userID)
}

// ChangePassword 修改密码,当前密码错误返回"Current password is incorrect."
func (uc *AccountUseCase) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if err := uc.userService.ChangePassword(ctx, userID, current, next); err != nil {
		return err
	}
	zctx.From(ctx).Info("Password changed", zap.Uint("user_id", userID))
	return nil
}

// BootstrapAdmin 启动时创建管理员账号
// admin.username为空或用户已存在时什么都不做
func BootstrapAdmin(ctx context.Context, cfg *config.Config, users user.Repository, svc user.Service) error {
	admin := cfg.Admin
	if admin.Username == "" {
		return nil
	}

	_, err := users.FindByUsername(ctx, admin.Username)
	if err == nil {
		return nil
	}
	if !apperrors.HasCode(err, apperrors.ErrCodeUserNotFound) {
		return err
	}

	name := admin.Name
	if name == "" {
		name = admin.Username
	}
	u, err := svc.Create(ctx, admin.Username, admin.Password, name, user.RoleAdmin)
	if err != nil {
		return err
	}

	zctx.From(ctx).Info("Admin user created", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
	return nil
}
