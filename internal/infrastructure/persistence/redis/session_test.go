package redis

import (
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

func TestSessionStore_Disabled(t *testing.T) {
	store := NewSessionStore(nil)
	ctx := t.Context()

	assert.False(t, store.Enabled())
	assert.NoError(t, store.SaveSession(ctx, 1, map[string]interface{}{"ip": "127.0.0.1"}, time.Minute))
	assert.NoError(t, store.AddToBlacklist(ctx, "token", time.Minute))
	assert.NoError(t, store.Ping(ctx))

	revoked, err := store.IsInBlacklist(ctx, "token")
	require.NoError(t, err)
	assert.False(t, revoked, "没有Redis时黑名单永远为空")

	_, err = store.GetSession(ctx, 1)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnauthorized))
}

// 需要真实Redis：SHOPDESK_TEST_REDIS_ADDR=localhost:6379 go test ./...
func TestSessionStore_Redis(t *testing.T) {
	addr := os.Getenv("SHOPDESK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SHOPDESK_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	store := NewSessionStore(client)
	ctx := t.Context()

	require.NoError(t, store.SaveSession(ctx, 42, map[string]interface{}{"username": "alice"}, time.Minute))
	session, err := store.GetSession(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "alice", session["username"])

	require.NoError(t, store.AddToBlacklist(ctx, "abc", time.Minute))
	revoked, err := store.IsInBlacklist(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, store.DeleteSession(ctx, 42))
	_, err = store.GetSession(ctx, 42)
	assert.Error(t, err)
}
