package gormdb

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/shopdesk/internal/domain/item"
	"github.com/xiebiao/shopdesk/internal/infrastructure/config"
)

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) (*gorm.DB, *config.Config) {
	t.Helper()

	cfg := config.Default()
	cfg.Database.Path = ":memory:"

	db, err := NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db, cfg
}

func seedItem(t *testing.T, repo item.Repository, name string, price int64, qty int) *item.Item {
	t.Helper()

	it, err := item.NewItem(name, "Acme", nil, decimal.NewFromInt(price/2), decimal.NewFromInt(price), qty, true)
	require.NoError(t, err)
	require.NoError(t, repo.Create(t.Context(), it))
	return it
}
