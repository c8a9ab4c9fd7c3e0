package user

import (
	"context"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xiebiao/shopdesk/internal/domain/user"
	"github.com/xiebiao/shopdesk/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/shopdesk/pkg/jwt"
)

// LoginUseCase 用户登录用例
// 设计说明:
// 1. 校验用户名密码(领域服务)
// 2. 签发Access Token
// 3. Redis启用时保存会话,失败只记日志,不影响登录
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(userService user.Service, jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string
	Password string
	ClientIP string
}

// LoginResponse 登录结果
type LoginResponse struct {
	User  *user.User
	Token *jwt.Token
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := uc.jwtManager.GenerateToken(u.ID, u.Username, string(u.Role))
	if err != nil {
		return nil, err
	}

	lg := zctx.From(ctx)
	if uc.sessionStore.Enabled() {
		session := map[string]interface{}{
			"user_id":  u.ID,
			"username": u.Username,
			"role":     string(u.Role),
			"login_at": time.Now().Unix(),
			"ip":       req.ClientIP,
		}
		if err := uc.sessionStore.SaveSession(ctx, u.ID, session, time.Until(token.ExpiresAt)); err != nil {
			lg.Warn("Save session failed", zap.Uint("user_id", u.ID), zap.Error(err))
		}
	}

	lg.Info("User logged in", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
	return &LoginResponse{User: u, Token: token}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore *redis.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore}
}

// Execute 执行登出
// Token加入黑名单直到它本来的过期时间;Redis未启用时Token在过期前仍然有效
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, accessToken string, ttl time.Duration) error {
	if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
		return err
	}
	if err := uc.sessionStore.AddToBlacklist(ctx, accessToken, ttl); err != nil {
		return err
	}

	zctx.From(ctx).Info("User logged out", zap.Uint("user_id", userID))
	return nil
}
