package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xiebiao/shopdesk/internal/domain/item"
	"github.com/xiebiao/shopdesk/internal/domain/order"
	"github.com/xiebiao/shopdesk/internal/infrastructure/config"
	"github.com/xiebiao/shopdesk/pkg/metrics"
	"github.com/xiebiao/shopdesk/pkg/mq"
)

// OrderEventRoutingKey 消费者绑定的路由键
const OrderEventRoutingKey = "order.*"

// LowStockChecker 收到订单事件后检查库存
type LowStockChecker interface {
	Check(ctx context.Context, itemIDs []uint) ([]*item.Item, error)
}

// DecodeOrderEvent 解析消息体
func DecodeOrderEvent(body []byte) (order.Event, error) {
	var evt order.Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return evt, errors.Wrap(err, "decode order event")
	}
	if evt.Type == "" || evt.OrderID == 0 {
		return evt, errors.New("order event missing type or orderId")
	}
	return evt, nil
}

// NewOrderEventHandler 订单事件处理函数
// 格式错误的消息直接确认丢弃(重投也不会成功),检查失败返回error让消息重投一次
func NewOrderEventHandler(queue string, checker LowStockChecker, lg *zap.Logger) mq.Handler {
	return func(ctx context.Context, msg mq.Message) error {
		start := time.Now()

		evt, err := DecodeOrderEvent(msg.Body)
		if err != nil {
			lg.Warn("Drop malformed message",
				zap.String("message_id", msg.ID),
				zap.String("routing_key", msg.RoutingKey),
				zap.Error(err),
			)
			metrics.ObserveMessageConsumed(queue, "dropped", time.Since(start))
			return nil
		}

		low, err := checker.Check(ctx, evt.ItemIDs())
		if err != nil {
			metrics.ObserveMessageConsumed(queue, "failed", time.Since(start))
			return err
		}

		lg.Debug("Order event handled",
			zap.String("type", string(evt.Type)),
			zap.Uint("order_id", evt.OrderID),
			zap.Int("low_stock_items", len(low)),
		)
		metrics.ObserveMessageConsumed(queue, "success", time.Since(start))
		return nil
	}
}

// NewConsumer 按配置创建订单事件消费者
func NewConsumer(cfg *config.Config, lg *zap.Logger) (*mq.Consumer, error) {
	return mq.NewConsumer(mqConfig(cfg), cfg.MQ.Queue, []string{OrderEventRoutingKey}, lg)
}
