package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	InitMetrics()

	require.NotNil(t, HTTPRequestsTotal)
	require.NotNil(t, OrderOperationsTotal)
	require.NotNil(t, CircuitBreakerState)
}

func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpCounter("GET", "/orders/:id", "404"))

	ObserveHTTPRequest("GET", "/orders/:id", 404, 20*time.Millisecond)
	ObserveHTTPRequest("GET", "/orders/:id", 404, 30*time.Millisecond)

	assert.Equal(t, before+2, testutil.ToFloat64(httpCounter("GET", "/orders/:id", "404")))
}

func TestTrackInProgress(t *testing.T) {
	InitMetrics()
	start := testutil.ToFloat64(HTTPRequestsInProgress)

	done := TrackInProgress()
	assert.Equal(t, start+1, testutil.ToFloat64(HTTPRequestsInProgress))
	done()
	assert.Equal(t, start, testutil.ToFloat64(HTTPRequestsInProgress))
}

func TestOrderAndStockMetrics(t *testing.T) {
	InitMetrics()

	t.Run("订单操作按结果计数", func(t *testing.T) {
		c := OrderOperationsTotal.WithLabelValues("create", "rejected")
		before := testutil.ToFloat64(c)
		ObserveOrderOperation("create", "rejected", time.Millisecond)
		assert.Equal(t, before+1, testutil.ToFloat64(c))
	})

	t.Run("库存流水累加", func(t *testing.T) {
		c := StockMovementsTotal.WithLabelValues("ORDER_DEDUCT")
		before := testutil.ToFloat64(c)
		AddStockMovements("ORDER_DEDUCT", 3)
		AddStockMovements("ORDER_DEDUCT", 0)
		assert.Equal(t, before+3, testutil.ToFloat64(c))
	})

	t.Run("低库存数量", func(t *testing.T) {
		SetLowStockItems(4)
		assert.Equal(t, float64(4), testutil.ToFloat64(LowStockItems))
	})
}

func TestCircuitBreakerMetrics(t *testing.T) {
	SetCircuitBreakerState("order-events", 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(CircuitBreakerState.WithLabelValues("order-events")))

	before := testutil.ToFloat64(CircuitBreakerRequests.WithLabelValues("order-events", "rejected"))
	IncCircuitBreakerRequest("order-events", "rejected")
	assert.Equal(t, before+1, testutil.ToFloat64(CircuitBreakerRequests.WithLabelValues("order-events", "rejected")))
}

func TestHandler(t *testing.T) {
	IncEventPublished("order.created", "success")

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shopdesk_events_published_total")
}

func httpCounter(method, path, status string) prometheus.Counter {
	InitMetrics()
	return HTTPRequestsTotal.WithLabelValues(method, path, status)
}
