package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xiebiao/shopdesk/pkg/tracing"
)

const (
	requestIDHeader = "X-Request-ID"
	slowRequest     = 3 * time.Second
)

type requestIDKey struct{}

// RequestIDFromContext 当前请求的ID
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Logger 请求上下文 + 访问日志
//  1. 请求ID:沿用合法的X-Request-ID,否则生成UUID,并写回响应头
//  2. 为请求创建Span(从请求头提取上游的trace上下文)
//  3. 把带request_id/trace_id的logger放进context,后续用zctx.From(ctx)取
//  4. 请求结束后记录方法、路由、状态码、耗时,慢请求用warn
func Logger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if !isValidRequestID(id) {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := tracing.StartSpan(ctx, "shopdesk/http", c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
		)
		defer span.End()

		fields := []zap.Field{zap.String("request_id", id)}
		if traceID := tracing.ExtractTraceID(ctx); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		lg := base.With(fields...)

		ctx = context.WithValue(ctx, requestIDKey{}, id)
		ctx = zctx.Base(ctx, lg)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)

		accessFields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case status >= 500:
			lg.Error("Request", accessFields...)
		case latency > slowRequest:
			lg.Warn("Slow request", accessFields...)
		default:
			lg.Info("Request", accessFields...)
		}
	}
}

// isValidRequestID 最长128字节,只允许可打印ASCII
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > 128 {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x20 || id[i] > 0x7E {
			return false
		}
	}
	return true
}
