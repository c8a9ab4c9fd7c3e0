package item

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/shopdesk/internal/domain/category"
	"github.com/xiebiao/shopdesk/internal/domain/item"
	"github.com/xiebiao/shopdesk/internal/domain/order"
	"github.com/xiebiao/shopdesk/internal/infrastructure/config"
	"github.com/xiebiao/shopdesk/internal/infrastructure/persistence/gormdb"
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

type fixture struct {
	items      item.Repository
	movements  item.MovementRepository
	categories category.Repository
	orders     order.Repository

	query  *QueryItemUseCase
	manage *ManageItemUseCase
	adjust *AdjustStockUseCase
	cat    *category.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := config.Default()
	cfg.Database.Path = ":memory:"
	db, err := gormdb.NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = gormdb.Close(db) })

	f := &fixture{
		items:      gormdb.NewItemRepository(db),
		movements:  gormdb.NewMovementRepository(db),
		categories: gormdb.NewCategoryRepository(db),
		orders:     gormdb.NewOrderRepository(db),
	}
	stock := item.NewStockService(f.items, f.movements)
	tm := gormdb.NewTxManager(db, cfg)

	f.query = NewQueryItemUseCase(f.items, f.movements, cfg)
	f.manage = NewManageItemUseCase(f.items, f.categories, f.orders, stock, tm)
	f.adjust = NewAdjustStockUseCase(f.items, stock, tm)

	f.cat, err = category.New("pens")
	require.NoError(t, err)
	require.NoError(t, f.categories.Create(t.Context(), f.cat))
	return f
}

func (f *fixture) create(t *testing.T, name string, qty int) *item.Item {
	t.Helper()
	it, err := f.manage.Create(t.Context(), CreateItemRequest{
		Name:       name,
		Brand:      "Bic",
		CategoryID: f.cat.ID,
		CostPrice:  decimal.NewFromInt(2),
		SalePrice:  decimal.RequireFromString("3.50"),
		Quantity:   qty,
	})
	require.NoError(t, err)
	return it
}

func TestManageItem_Create(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	t.Run("默认上架并记录初始流水", func(t *testing.T) {
		it := f.create(t, "Blue pen", 10)
		assert.True(t, it.IsActive)
		assert.Equal(t, "PENS", it.CategoryName)

		ms, err := f.query.Movements(ctx, it.ID, 0)
		require.NoError(t, err)
		require.Len(t, ms, 1)
		assert.Equal(t, item.MovementAdjust, ms[0].Type)
		assert.Equal(t, 10, ms[0].After)
	})

	t.Run("分类不存在", func(t *testing.T) {
		_, err := f.manage.Create(ctx, CreateItemRequest{Name: "X", Brand: "Y", CategoryID: 99})
		assert.ErrorIs(t, err, item.ErrUnknownCategory)
	})

	t.Run("价格为负", func(t *testing.T) {
		_, err := f.manage.Create(ctx, CreateItemRequest{
			Name: "X", Brand: "Y", CategoryID: f.cat.ID, SalePrice: decimal.NewFromInt(-1),
		})
		assert.ErrorIs(t, err, item.ErrNegativePrice)
	})

	t.Run("库存为负", func(t *testing.T) {
		_, err := f.manage.Create(ctx, CreateItemRequest{Name: "X", Brand: "Y", CategoryID: f.cat.ID, Quantity: -1})
		assert.ErrorIs(t, err, item.ErrNegativeQuantity)
	})
}

func TestManageItem_Update(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	it := f.create(t, "Blue pen", 10)

	inactive := false
	qty := 4
	price := decimal.NewFromInt(5)
	updated, err := f.manage.Update(ctx, it.ID, ItemPatch{IsActive: &inactive, Quantity: &qty, SalePrice: &price})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 4, updated.Quantity)
	assert.True(t, price.Equal(updated.SalePrice))
	assert.Equal(t, "Blue pen", updated.Name)

	ms, err := f.query.Movements(ctx, it.ID, 0)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, -6, ms[0].Delta)

	t.Run("商品不存在", func(t *testing.T) {
		_, err := f.manage.Update(ctx, 404, ItemPatch{IsActive: &inactive})
		assert.ErrorIs(t, err, item.ErrItemNotFound)
	})

	t.Run("库存不能改为负数", func(t *testing.T) {
		neg := -1
		_, err := f.manage.Update(ctx, it.ID, ItemPatch{Quantity: &neg})
		assert.ErrorIs(t, err, item.ErrNegativeQuantity)
	})
}

func TestManageItem_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	free := f.create(t, "Free", 1)
	used := f.create(t, "Used", 5)

	o := order.NewOrder([]order.Line{{ItemID: used.ID, Quantity: 1, Price: used.SalePrice}}, decimal.Zero)
	require.NoError(t, f.orders.Create(ctx, o))

	err := f.manage.Delete(ctx, used.ID)
	assert.ErrorIs(t, err, item.ErrItemInUse)
	assert.Equal(t, http.StatusBadRequest, apperrors.GetAppError(err).HTTPStatus())

	require.NoError(t, f.manage.Delete(ctx, free.ID))
	_, err = f.query.Get(ctx, free.ID)
	assert.ErrorIs(t, err, item.ErrItemNotFound)

	assert.ErrorIs(t, f.manage.Delete(ctx, free.ID), item.ErrItemNotFound)
}

func TestAdjustStock(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	it := f.create(t, "Blue pen", 2)

	t.Run("入库", func(t *testing.T) {
		got, err := f.adjust.Restock(ctx, it.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Quantity)
	})

	t.Run("出库", func(t *testing.T) {
		got, err := f.adjust.Decrement(ctx, it.ID, 4)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Quantity)
	})

	t.Run("出库数量超过库存", func(t *testing.T) {
		_, err := f.adjust.Decrement(ctx, it.ID, 2)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInsufficientStock))

		found, err := f.query.Get(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.Quantity)
	})

	t.Run("数量必须大于0", func(t *testing.T) {
		_, err := f.adjust.Restock(ctx, it.ID, 0)
		assert.ErrorIs(t, err, item.ErrInvalidQuantity)
		_, err = f.adjust.Decrement(ctx, it.ID, -1)
		assert.ErrorIs(t, err, item.ErrInvalidQuantity)
	})

	t.Run("商品不存在", func(t *testing.T) {
		_, err := f.adjust.Restock(ctx, 999, 1)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeItemNotFound))
	})

	ms, err := f.query.Movements(ctx, it.ID, 0)
	require.NoError(t, err)
	require.Len(t, ms, 3)
	assert.Equal(t, item.MovementDecrement, ms[0].Type)
	assert.Equal(t, item.MovementRestock, ms[1].Type)
}

func TestQueryItem_LowStock(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	f.create(t, "A", 5)
	f.create(t, "B", 6)
	f.create(t, "C", 0)

	low, err := f.query.LowStock(ctx, nil)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "C", low[0].Name)

	threshold := 0
	low, err = f.query.LowStock(ctx, &threshold)
	require.NoError(t, err)
	assert.Len(t, low, 1)

	watcher := NewLowStockWatcher(f.items, 5)
	flagged, err := watcher.Check(ctx, []uint{low[0].ID, 999})
	require.NoError(t, err)
	require.Len(t, flagged, 1)
	assert.Equal(t, "C", flagged[0].Name)
}
