// Package messaging 订单事件的发布和消费
package messaging

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/shopdesk/internal/domain/order"
	"github.com/xiebiao/shopdesk/internal/infrastructure/config"
	"github.com/xiebiao/shopdesk/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
	"github.com/xiebiao/shopdesk/pkg/metrics"
	"github.com/xiebiao/shopdesk/pkg/mq"
	"github.com/xiebiao/shopdesk/pkg/tracing"
)

const breakerName = "order-events"

// messagePublisher 发布原始消息(mq.Publisher实现)
type messagePublisher interface {
	Publish(ctx context.Context, routingKey, messageID string, message interface{}) error
}

// OrderEventPublisher 把订单事件发布到RabbitMQ
// 设计说明:
// 1. 路由键就是事件类型(order.created等),消息ID是EventID,消费方可据此去重
// 2. 外面套一层熔断器,MQ不可用时快速失败,不拖慢下单请求
type OrderEventPublisher struct {
	pub     messagePublisher
	breaker *circuitbreaker.CircuitBreaker
	lg      *zap.Logger
}

// NewOrderEventPublisher 创建事件发布者
func NewOrderEventPublisher(pub messagePublisher, breaker *circuitbreaker.CircuitBreaker, lg *zap.Logger) *OrderEventPublisher {
	return &OrderEventPublisher{pub: pub, breaker: breaker, lg: lg}
}

// Publish 发布订单事件
func (p *OrderEventPublisher) Publish(ctx context.Context, evt order.Event) error {
	ctx, span := tracing.StartSpan(ctx, "shopdesk/messaging", "publish "+string(evt.Type))
	defer span.End()
	span.SetAttributes(
		attribute.String("messaging.message.id", evt.EventID),
		attribute.Int64("order.id", int64(evt.OrderID)),
	)

	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		return p.pub.Publish(ctx, string(evt.Type), evt.EventID, evt)
	})

	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = "rejected"
	default:
		result = "failed"
	}
	metrics.IncEventPublished(string(evt.Type), result)

	if err != nil {
		tracing.RecordError(span, err)
		return apperrors.WithCode(apperrors.ErrCodeMQError, "publish order event failed", err)
	}
	return nil
}

// NoopPublisher MQ未启用时使用,丢弃所有事件
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, evt order.Event) error {
	metrics.IncEventPublished(string(evt.Type), "skipped")
	return nil
}

// ProvideEventPublisher 按配置创建事件发布者
// mq.enabled=false或连接失败时退化为NoopPublisher,API照常启动
func ProvideEventPublisher(cfg *config.Config, lg *zap.Logger) (order.EventPublisher, func(), error) {
	noop := func() {}
	if !cfg.MQ.Enabled {
		lg.Info("MQ disabled, order events will not be published")
		return NoopPublisher{}, noop, nil
	}

	pub, err := mq.NewPublisher(mqConfig(cfg), lg)
	if err != nil {
		lg.Warn("MQ unavailable, order events will not be published", zap.Error(err))
		return NoopPublisher{}, noop, nil
	}

	breaker := circuitbreaker.New(breakerName, circuitbreaker.Settings{
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			lg.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})

	cleanup := func() {
		if err := pub.Close(); err != nil {
			lg.Warn("Close MQ publisher failed", zap.Error(err))
		}
	}
	return NewOrderEventPublisher(pub, breaker, lg), cleanup, nil
}

func mqConfig(cfg *config.Config) mq.Config {
	return mq.Config{
		URL:          cfg.MQ.URL,
		Exchange:     cfg.MQ.Exchange,
		ExchangeType: cfg.MQ.ExchangeType,
	}
}
