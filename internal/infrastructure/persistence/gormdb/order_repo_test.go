package gormdb

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/shopdesk/internal/domain/item"
	"github.com/xiebiao/shopdesk/internal/domain/order"
)

func newOrder(it *item.Item, qty int, paid int64) *order.Order {
	return order.NewOrder([]order.Line{
		{ItemID: it.ID, Quantity: qty, Price: it.SalePrice},
	}, decimal.NewFromInt(paid))
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	db, _ := newTestDB(t)
	items := NewItemRepository(db)
	repo := NewOrderRepository(db)
	ctx := t.Context()

	pen := seedItem(t, items, "Pen", 10, 100)
	book := seedItem(t, items, "Notebook", 25, 100)

	o := order.NewOrder([]order.Line{
		{ItemID: pen.ID, Quantity: 3, Price: pen.SalePrice},
		{ItemID: book.ID, Quantity: 1, Price: book.SalePrice},
	}, decimal.NewFromInt(20))
	require.NoError(t, repo.Create(ctx, o))
	require.NotZero(t, o.ID)
	assert.NotZero(t, o.Lines[0].ID)

	found, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(55).Equal(found.Total))
	assert.True(t, decimal.NewFromInt(20).Equal(found.PaidAmount))
	assert.Equal(t, order.StatusPartial, found.Status)
	require.Len(t, found.Lines, 2)
	assert.Equal(t, "Pen", found.Lines[0].ItemName)
	assert.Equal(t, "Acme", found.Lines[0].ItemBrand)
	assert.Equal(t, 3, found.Lines[0].Quantity)

	_, err = repo.FindByID(ctx, 999)
	assert.Equal(t, order.ErrOrderNotFound, err)
}

func TestOrderRepository_ReplaceLines(t *testing.T) {
	db, _ := newTestDB(t)
	items := NewItemRepository(db)
	repo := NewOrderRepository(db)
	ctx := t.Context()

	pen := seedItem(t, items, "Pen", 10, 100)
	book := seedItem(t, items, "Notebook", 25, 100)

	o := newOrder(pen, 2, 0)
	require.NoError(t, repo.Create(ctx, o))

	paid := decimal.NewFromInt(25)
	o.ReplaceLines([]order.Line{{ItemID: book.ID, Quantity: 1, Price: book.SalePrice}}, &paid)
	require.NoError(t, repo.ReplaceLines(ctx, o))

	found, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, book.ID, found.Lines[0].ItemID)
	assert.Equal(t, order.StatusPaid, found.Status)
	assert.True(t, decimal.NewFromInt(25).Equal(found.Total))

	count, err := repo.CountLinesByItem(ctx, pen.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	missing := &order.Order{ID: 999}
	assert.Equal(t, order.ErrOrderNotFound, repo.ReplaceLines(ctx, missing))
}

func TestOrderRepository_DeleteAndList(t *testing.T) {
	db, _ := newTestDB(t)
	items := NewItemRepository(db)
	repo := NewOrderRepository(db)
	ctx := t.Context()

	pen := seedItem(t, items, "Pen", 10, 100)

	unpaid := newOrder(pen, 1, 0)
	paid := newOrder(pen, 1, 10)
	require.NoError(t, repo.Create(ctx, unpaid))
	require.NoError(t, repo.Create(ctx, paid))

	t.Run("按状态过滤", func(t *testing.T) {
		list, err := repo.List(ctx, order.ListFilter{Status: order.StatusPaid})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, paid.ID, list[0].ID)
		assert.Equal(t, "Pen", list[0].Lines[0].ItemName)
	})

	t.Run("按日期过滤", func(t *testing.T) {
		from := time.Now().Add(-time.Hour)
		to := time.Now().Add(time.Hour)
		list, err := repo.List(ctx, order.ListFilter{From: &from, To: &to})
		require.NoError(t, err)
		assert.Len(t, list, 2)
		assert.Equal(t, paid.ID, list[0].ID)

		list, err = repo.List(ctx, order.ListFilter{From: &to})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("删除订单和明细", func(t *testing.T) {
		require.NoError(t, repo.DeleteWithLines(ctx, unpaid.ID))
		assert.Equal(t, order.ErrOrderNotFound, repo.DeleteWithLines(ctx, unpaid.ID))

		count, err := repo.CountLinesByItem(ctx, pen.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
