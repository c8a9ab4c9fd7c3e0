package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

// SessionStore 会话存储
// 设计说明：
// 1. 记录用户登录会话（session:{user_id}）
// 2. 维护JWT黑名单（blacklist:{token}），用于登出后让Token立即失效
// 3. client为nil时所有方法都是空操作：黑名单永远为空，登出只依赖Token过期
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Enabled 是否连接了Redis
func (s *SessionStore) Enabled() bool {
	return s != nil && s.client != nil
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("shopdesk:session:%d", userID)
}

func blacklistKey(token string) string {
	return "shopdesk:blacklist:" + token
}

// SaveSession 保存用户会话（登录时间、客户端IP等）
// 过期时间与Access Token一致
func (s *SessionStore) SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}

	key := sessionKey(userID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, data)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, "save session failed", err)
	}
	return nil
}

// GetSession 获取用户会话，不存在时返回ErrUnauthorized
func (s *SessionStore) GetSession(ctx context.Context, userID uint) (map[string]string, error) {
	if !s.Enabled() {
		return nil, apperrors.ErrUnauthorized
	}

	result, err := s.client.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, apperrors.WithCode(apperrors.ErrCodeRedisError, "get session failed", err)
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	return result, nil
}

// DeleteSession 删除用户会话（用于登出）
func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, "delete session failed", err)
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单，ttl取Token剩余有效期
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if !s.Enabled() || ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, "revoke token failed", err)
	}
	return nil
}

// IsInBlacklist 检查Token是否已注销
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	exists, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.WithCode(apperrors.ErrCodeRedisError, "check token blacklist failed", err)
	}
	return exists > 0, nil
}

// Ping 健康检查使用
func (s *SessionStore) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Ping(ctx).Err()
}
