package item

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xiebiao/shopdesk/internal/domain/item"
	"github.com/xiebiao/shopdesk/pkg/metrics"
)

// LowStockWatcher 订单事件触发的低库存检查
// 每次都从数据库读取当前库存,事件里的数量只用来确定要看哪些商品
type LowStockWatcher struct {
	items     item.Repository
	threshold int
}

func NewLowStockWatcher(items item.Repository, threshold int) *LowStockWatcher {
	return &LowStockWatcher{items: items, threshold: threshold}
}

// Check 检查给定商品,返回库存小于等于阈值的商品
// 同时刷新低库存商品数量指标
func (w *LowStockWatcher) Check(ctx context.Context, itemIDs []uint) ([]*item.Item, error) {
	lg := zctx.From(ctx)

	var low []*item.Item
	if len(itemIDs) > 0 {
		items, err := w.items.FindByIDs(ctx, itemIDs)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if !it.IsLowStock(w.threshold) {
				continue
			}
			low = append(low, it)
			lg.Warn("Low stock",
				zap.Uint("item_id", it.ID),
				zap.String("name", it.Name),
				zap.Int("quantity", it.Quantity),
				zap.Int("threshold", w.threshold),
			)
		}
	}

	all, err := w.items.ListLowStock(ctx, w.threshold)
	if err != nil {
		return nil, err
	}
	metrics.SetLowStockItems(len(all))

	return low, nil
}
