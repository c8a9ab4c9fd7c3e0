package order

import (
	"context"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xiebiao/shopdesk/internal/domain/item"
	"github.com/xiebiao/shopdesk/internal/domain/order"
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
	"github.com/xiebiao/shopdesk/pkg/metrics"
	"github.com/xiebiao/shopdesk/pkg/tracing"
)

const tracerName = "shopdesk/order"

const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// publishTimeout 事件发布的最长等待时间,不影响已提交的订单
const publishTimeout = 3 * time.Second

// operation 一次订单操作的可观测性上下文(Span + 耗时 + 结果)
type operation struct {
	name  string
	start time.Time
	span  trace.Span
}

func startOperation(ctx context.Context, name string) (context.Context, *operation) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "order."+name)
	return ctx, &operation{name: name, start: time.Now(), span: span}
}

// finish 记录结果:success / rejected(客户端错误) / error(服务端错误)
func (op *operation) finish(ctx context.Context, orderID uint, err error) {
	defer op.span.End()

	result := "success"
	if err != nil {
		result = "rejected"
		if apperrors.GetAppError(err).IsInternal() {
			result = "error"
		}
		tracing.RecordError(op.span, err)
	}
	if orderID != 0 {
		op.span.SetAttributes(attribute.Int64("order.id", int64(orderID)))
	}
	metrics.ObserveOrderOperation(op.name, result, time.Since(op.start))

	lg := zctx.From(ctx)
	switch result {
	case "rejected":
		lg.Info("Order operation rejected", zap.String("op", op.name), zap.Error(err))
	case "error":
		lg.Error("Order operation failed", zap.String("op", op.name), zap.Error(err))
	}
}

// countMovements 提交后统计库存流水
func countMovements(movements ...[]*item.Movement) {
	byType := make(map[item.MovementType]int)
	for _, group := range movements {
		for _, m := range group {
			byType[m.Type]++
		}
	}
	for typ, n := range byType {
		metrics.AddStockMovements(string(typ), n)
	}
}

// publishEvent 事务提交后发布订单事件
// 尽力而为:失败只记日志,订单已经提交,不能因为消息发不出去而报错
func publishEvent(ctx context.Context, pub order.EventPublisher, typ order.EventType, o *order.Order) {
	// 请求结束(客户端断开)不应该取消事件发布
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	evt := order.NewEvent(typ, o)
	if err := pub.Publish(ctx, evt); err != nil {
		zctx.From(ctx).Warn("Publish order event failed",
			zap.String("type", string(typ)),
			zap.Uint("order_id", o.ID),
			zap.Error(err),
		)
	}
}
