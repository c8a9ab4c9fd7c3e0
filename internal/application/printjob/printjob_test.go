package printjob

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/shopdesk/internal/domain/printjob"
	"github.com/xiebiao/shopdesk/internal/infrastructure/config"
	"github.com/xiebiao/shopdesk/internal/infrastructure/persistence/gormdb"
)

func TestPrintJobUseCase(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = ":memory:"
	db, err := gormdb.NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = gormdb.Close(db) })

	ctx := t.Context()
	uc := NewPrintJobUseCase(gormdb.NewPrintJobRepository(db))

	j, err := uc.Create(ctx, CreateRequest{CustomerName: "Ann", Pages: 10, Rate: decimal.RequireFromString("0.25")})
	require.NoError(t, err)
	assert.Equal(t, printjob.PaymentUnpaid, j.PaymentStatus)
	assert.Equal(t, "2.50", j.TotalAmount.StringFixed(2))

	t.Run("修改页数重算总价", func(t *testing.T) {
		pages := 20
		paid := printjob.PaymentPaid
		got, err := uc.Update(ctx, j.ID, printjob.Patch{Pages: &pages, PaymentStatus: &paid})
		require.NoError(t, err)
		assert.Equal(t, "5.00", got.TotalAmount.StringFixed(2))

		found, err := uc.Get(ctx, j.ID)
		require.NoError(t, err)
		assert.Equal(t, printjob.PaymentPaid, found.PaymentStatus)
		assert.True(t, decimal.NewFromInt(5).Equal(found.TotalAmount))
	})

	t.Run("页数必须大于0", func(t *testing.T) {
		_, err := uc.Create(ctx, CreateRequest{Pages: 0, Rate: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, printjob.ErrInvalidPages)
	})

	t.Run("删除", func(t *testing.T) {
		require.NoError(t, uc.Delete(ctx, j.ID))
		_, err := uc.Get(ctx, j.ID)
		assert.ErrorIs(t, err, printjob.ErrPrintJobNotFound)
		assert.ErrorIs(t, uc.Delete(ctx, j.ID), printjob.ErrPrintJobNotFound)
	})
}
