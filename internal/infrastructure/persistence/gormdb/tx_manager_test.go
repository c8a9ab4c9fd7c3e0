package gormdb

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/shopdesk/internal/domain/item"
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

func TestTxManager_RollbackOnError(t *testing.T) {
	db, cfg := newTestDB(t)
	tm := NewTxManager(db, cfg)
	items := NewItemRepository(db)
	ctx := t.Context()

	it := seedItem(t, items, "Pen", 10, 5)

	err := tm.Transaction(ctx, func(ctx context.Context) error {
		if err := items.SetQuantity(ctx, it.ID, 1); err != nil {
			return err
		}
		return item.InsufficientStockError("Pen")
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInsufficientStock), "业务错误原样返回")

	found, err := items.FindByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)
}

func TestTxManager_Commit(t *testing.T) {
	db, cfg := newTestDB(t)
	tm := NewTxManager(db, cfg)
	items := NewItemRepository(db)
	ctx := t.Context()

	it := seedItem(t, items, "Pen", 10, 5)

	require.NoError(t, tm.Transaction(ctx, func(ctx context.Context) error {
		locked, err := items.LockByID(ctx, it.ID)
		if err != nil {
			return err
		}
		return items.SetQuantity(ctx, it.ID, locked.Quantity-2)
	}))

	found, err := items.FindByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, found.Quantity)
}

func TestTxManager_Timeout(t *testing.T) {
	db, cfg := newTestDB(t)
	cfg.Database.TxTimeout = 20 * time.Millisecond
	tm := NewTxManager(db, cfg)

	err := tm.Transaction(t.Context(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTransactionTimeout))
}

func TestTranslateTxError(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"MySQL死锁", &mysqldriver.MySQLError{Number: 1213}, apperrors.ErrCodeTransactionConflict},
		{"MySQL锁等待超时", &mysqldriver.MySQLError{Number: 1205}, apperrors.ErrCodeTransactionTimeout},
		{"PostgreSQL序列化失败", &pgconn.PgError{Code: "40001"}, apperrors.ErrCodeTransactionConflict},
		{"PostgreSQL锁不可用", &pgconn.PgError{Code: "55P03"}, apperrors.ErrCodeTransactionTimeout},
		{"SQLite忙", stderrors.New("database is locked (5) (SQLITE_BUSY)"), apperrors.ErrCodeTransactionConflict},
		{"仓储包装的死锁", apperrors.Wrap(&mysqldriver.MySQLError{Number: 1213}, "update stock failed"), apperrors.ErrCodeTransactionConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateTxError(ctx, tt.err)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}

	t.Run("其他错误原样返回", func(t *testing.T) {
		plain := stderrors.New("boom")
		assert.Same(t, plain, translateTxError(ctx, plain))
		assert.Nil(t, translateTxError(ctx, nil))
	})
}
