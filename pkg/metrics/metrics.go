// Package metrics 基于Prometheus的指标收集
//
// 三类指标：
//   - Counter（只增不减）：请求数、订单操作数、库存流水数
//   - Gauge（瞬时值）：处理中的请求数、低库存商品数、熔断器状态
//   - Histogram（分布）：请求耗时、订单事务耗时
//
// 指标在第一次使用时注册到默认Registry（sync.Once），
// 测试和工具命令不需要显式调用InitMetrics。
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds），
// 标签只使用有限取值（method、op、result），不要用订单ID、商品ID做标签。
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shopdesk"

var (
	once sync.Once

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/orders/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// OrderOperationsTotal 订单操作总数
	// 标签：op（create/update/delete）、result（success/rejected/error）
	OrderOperationsTotal *prometheus.CounterVec

	// OrderOperationDuration 订单事务耗时（包含等待行锁的时间）
	OrderOperationDuration *prometheus.HistogramVec

	// StockMovementsTotal 库存流水条数，标签：type（ORDER_DEDUCT/RESTOCK/...）
	StockMovementsTotal *prometheus.CounterVec

	// LowStockItems 最近一次检查时的低库存商品数
	LowStockItems prometheus.Gauge

	// EventsPublishedTotal 订单事件发布数，标签：type、result（success/failure/dropped）
	EventsPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数，标签：queue、result
	MessagesConsumedTotal *prometheus.CounterVec

	// MessageProcessingDuration 消息处理耗时
	MessageProcessingDuration prometheus.Histogram

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求数，标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec
)

// InitMetrics 注册所有指标，可以重复调用
func InitMetrics() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP请求耗时（秒）",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_progress",
			Help:      "正在处理的HTTP请求数",
		},
	)

	OrderOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_operations_total",
			Help:      "订单操作总数",
		},
		[]string{"op", "result"},
	)

	OrderOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_operation_duration_seconds",
			Help:      "订单事务耗时（秒）",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"op"},
	)

	StockMovementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "库存流水条数",
		},
		[]string{"type"},
	)

	LowStockItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "low_stock_items",
			Help:      "低库存商品数",
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "订单事件发布数",
		},
		[]string{"type", "result"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "消息消费总数",
		},
		[]string{"queue", "result"},
	)

	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "message_processing_duration_seconds",
			Help:      "消息处理耗时（秒）",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "熔断器请求总数",
		},
		[]string{"name", "result"},
	)
}

// Handler /metrics端点
func Handler() http.Handler {
	InitMetrics()
	return promhttp.Handler()
}

// ObserveHTTPRequest 记录一次HTTP请求
func ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	InitMetrics()
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// TrackInProgress 请求开始时调用，返回的函数在请求结束时调用
func TrackInProgress() func() {
	InitMetrics()
	HTTPRequestsInProgress.Inc()
	return HTTPRequestsInProgress.Dec
}

// ObserveOrderOperation 记录一次订单操作
func ObserveOrderOperation(op, result string, d time.Duration) {
	InitMetrics()
	OrderOperationsTotal.WithLabelValues(op, result).Inc()
	OrderOperationDuration.WithLabelValues(op).Observe(d.Seconds())
}

// AddStockMovements 累加库存流水条数
func AddStockMovements(typ string, n int) {
	if n <= 0 {
		return
	}
	InitMetrics()
	StockMovementsTotal.WithLabelValues(typ).Add(float64(n))
}

// SetLowStockItems 设置低库存商品数
func SetLowStockItems(n int) {
	InitMetrics()
	LowStockItems.Set(float64(n))
}

// IncEventPublished 记录一次事件发布结果
func IncEventPublished(typ, result string) {
	InitMetrics()
	EventsPublishedTotal.WithLabelValues(typ, result).Inc()
}

// ObserveMessageConsumed 记录一次消息消费
func ObserveMessageConsumed(queue, result string, d time.Duration) {
	InitMetrics()
	MessagesConsumedTotal.WithLabelValues(queue, result).Inc()
	MessageProcessingDuration.Observe(d.Seconds())
}

// SetCircuitBreakerState 记录熔断器状态
func SetCircuitBreakerState(name string, state int) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// IncCircuitBreakerRequest 记录一次经过熔断器的请求
func IncCircuitBreakerRequest(name, result string) {
	InitMetrics()
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}
