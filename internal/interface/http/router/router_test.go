package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appcategory "github.com/xiebiao/shopdesk/internal/application/category"
	appitem "github.com/xiebiao/shopdesk/internal/application/item"
	apporder "github.com/xiebiao/shopdesk/internal/application/order"
	appprintjob "github.com/xiebiao/shopdesk/internal/application/printjob"
	"github.com/xiebiao/shopdesk/internal/application/report"
	appuser "github.com/xiebiao/shopdesk/internal/application/user"
	"github.com/xiebiao/shopdesk/internal/domain/item"
	"github.com/xiebiao/shopdesk/internal/domain/user"
	"github.com/xiebiao/shopdesk/internal/infrastructure/config"
	"github.com/xiebiao/shopdesk/internal/infrastructure/messaging"
	"github.com/xiebiao/shopdesk/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/shopdesk/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/shopdesk/internal/interface/http/handler"
	"github.com/xiebiao/shopdesk/internal/interface/http/middleware"
	"github.com/xiebiao/shopdesk/internal/interface/http/router"
	"github.com/xiebiao/shopdesk/pkg/health"
	"github.com/xiebiao/shopdesk/pkg/jwt"
)

// server 进程内启动的完整API(SQLite内存库,无Redis/MQ)
type server struct {
	engine *gin.Engine
	token  string
}

func newServer(t *testing.T) *server {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Mode = gin.TestMode
	cfg.Database.Path = ":memory:"
	cfg.Admin = config.AdminConfig{Username: "admin", Password: "secret1", Name: "Owner"}

	db, err := gormdb.NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = gormdb.Close(db) })

	users := gormdb.NewUserRepository(db)
	items := gormdb.NewItemRepository(db)
	movements := gormdb.NewMovementRepository(db)
	orders := gormdb.NewOrderRepository(db)
	categories := gormdb.NewCategoryRepository(db)
	printJobs := gormdb.NewPrintJobRepository(db)
	tm := gormdb.NewTxManager(db, cfg)

	userService := user.NewService(users)
	stock := item.NewStockService(items, movements)
	sessions := redis.NewSessionStore(nil)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire)
	events := messaging.NoopPublisher{}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	hc := health.New()
	hc.AddCheck("database", time.Second, sqlDB.PingContext)
	hc.SetReady(true)

	handlers := router.Handlers{
		Auth: handler.NewAuthHandler(
			appuser.NewLoginUseCase(userService, jwtManager, sessions),
			appuser.NewLogoutUseCase(sessions),
			appuser.NewAccountUseCase(userService),
		),
		Order: handler.NewOrderHandler(
			apporder.NewCreateOrderUseCase(orders, items, stock, tm, events),
			apporder.NewUpdateOrderUseCase(orders, items, stock, tm, events),
			apporder.NewDeleteOrderUseCase(orders, items, stock, tm, events),
			apporder.NewQueryOrderUseCase(orders),
		),
		Item: handler.NewItemHandler(
			appitem.NewQueryItemUseCase(items, movements, cfg),
			appitem.NewManageItemUseCase(items, categories, orders, stock, tm),
			appitem.NewAdjustStockUseCase(items, stock, tm),
		),
		Category: handler.NewCategoryHandler(appcategory.NewCategoryUseCase(categories, tm)),
		PrintJob: handler.NewPrintJobHandler(appprintjob.NewPrintJobUseCase(printJobs)),
		Report:   handler.NewReportHandler(report.NewReportUseCase(orders, printJobs, items, cfg)),
		Health:   handler.NewHealthHandler(hc),
	}
	auth := middleware.NewAuthMiddleware(jwtManager, sessions)

	require.NoError(t, appuser.BootstrapAdmin(t.Context(), cfg, users, userService))

	s := &server{engine: router.New(cfg, zap.NewNop(), handlers, auth)}
	w := s.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	decode(t, w, &login)
	require.Equal(t, "Login successful", login.Message)
	s.token = login.Token
	return s
}

func (s *server) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type orderBody struct {
	ID         uint    `json:"id"`
	Total      float64 `json:"total"`
	PaidAmount float64 `json:"paidAmount"`
	Status     string  `json:"status"`
	Items      []struct {
		ItemID   uint    `json:"itemId"`
		Quantity int     `json:"quantity"`
		Price    float64 `json:"price"`
		Item     struct {
			Name string `json:"name"`
		} `json:"item"`
	} `json:"items"`
}

type itemBody struct {
	ID       uint    `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"salePrice"`
	Category struct {
		Name string `json:"name"`
	} `json:"category"`
}

// seedItem 通过接口创建分类和商品
func (s *server) seedItem(t *testing.T, name string, price, qty int) uint {
	t.Helper()

	w := s.do(t, http.MethodPost, "/category", map[string]string{"name": "cat-" + name})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cat struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	decode(t, w, &cat)

	w = s.do(t, http.MethodPost, "/items", map[string]interface{}{
		"name":       name,
		"brand":      "Acme",
		"categoryId": cat.ID,
		"costPrice":  price / 2,
		"salePrice":  price,
		"quantity":   qty,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var it itemBody
	decode(t, w, &it)
	return it.ID
}

func (s *server) quantity(t *testing.T, id uint) int {
	t.Helper()
	w := s.do(t, http.MethodGet, fmt.Sprintf("/items/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var it itemBody
	decode(t, w, &it)
	return it.Quantity
}

func TestHealthEndpoints(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var rep health.Report
	decode(t, w, &rep)
	assert.Equal(t, health.StatusOK, rep.Checks["database"])

	w = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	s := newServer(t)
	s.token = ""

	for _, path := range []string{"/orders", "/api/v1/orders", "/items", "/user/profile"} {
		w := s.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	s.token = "not-a-jwt"
	w := s.do(t, http.MethodGet, "/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_Failures(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "ghost", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body errorBody
	decode(t, w, &body)
	assert.Equal(t, "Invalid User.", body.Message)

	w = s.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "wrong-1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	decode(t, w, &body)
	assert.Equal(t, "Invalid Password.", body.Message)
}

func TestOrderAPI_Lifecycle(t *testing.T) {
	s := newServer(t)
	a := s.seedItem(t, "notebook", 100, 10)
	b := s.seedItem(t, "pen", 50, 5)

	var created struct {
		Message string    `json:"message"`
		Order   orderBody `json:"order"`
	}

	t.Run("创建订单扣减库存", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/orders", map[string]interface{}{
			"items":      []map[string]interface{}{{"itemId": a, "quantity": 3}},
			"paidAmount": 150,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		decode(t, w, &created)

		assert.Equal(t, "Order created", created.Message)
		assert.Equal(t, 300.0, created.Order.Total)
		assert.Equal(t, 150.0, created.Order.PaidAmount)
		assert.Equal(t, "PARTIAL", created.Order.Status)
		require.Len(t, created.Order.Items, 1)
		assert.Equal(t, 100.0, created.Order.Items[0].Price)
		assert.Equal(t, "notebook", created.Order.Items[0].Item.Name)
		assert.Equal(t, 7, s.quantity(t, a))
	})

	path := fmt.Sprintf("/orders/%d", created.Order.ID)

	t.Run("查询订单", func(t *testing.T) {
		w := s.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		again := s.do(t, http.MethodGet, path, nil)
		assert.Equal(t, w.Body.String(), again.Body.String())

		w = s.do(t, http.MethodGet, "/orders?status=PARTIAL", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list []orderBody
		decode(t, w, &list)
		assert.Len(t, list, 1)
	})

	t.Run("修改订单先归还再扣减", func(t *testing.T) {
		w := s.do(t, http.MethodPut, path, map[string]interface{}{
			"items": []map[string]interface{}{{"itemId": b, "quantity": 2}},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated struct {
			Message string    `json:"message"`
			Order   orderBody `json:"order"`
		}
		decode(t, w, &updated)
		assert.Equal(t, "Order updated", updated.Message)
		assert.Equal(t, 100.0, updated.Order.Total)
		assert.Equal(t, 150.0, updated.Order.PaidAmount)
		assert.Equal(t, "PAID", updated.Order.Status)
		assert.Equal(t, 10, s.quantity(t, a))
		assert.Equal(t, 3, s.quantity(t, b))
	})

	t.Run("库存不足时修改失败且订单不变", func(t *testing.T) {
		w := s.do(t, http.MethodPut, path, map[string]interface{}{
			"items": []map[string]interface{}{{"itemId": b, "quantity": 6}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 3, s.quantity(t, b))
	})

	t.Run("删除订单归还库存", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Order deleted and stock restored"}`, w.Body.String())
		assert.Equal(t, 5, s.quantity(t, b))

		w = s.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("流水记录完整", func(t *testing.T) {
		w := s.do(t, http.MethodGet, fmt.Sprintf("/items/%d/movements", b), nil)
		require.Equal(t, http.StatusOK, w.Code)
		var ms []struct {
			Type  string `json:"type"`
			Delta int    `json:"delta"`
		}
		decode(t, w, &ms)
		require.Len(t, ms, 3)
		assert.Equal(t, "ORDER_RELEASE", ms[0].Type)
		assert.Equal(t, 2, ms[0].Delta)
		assert.Equal(t, "ORDER_DEDUCT", ms[1].Type)
		assert.Equal(t, "ADJUST", ms[2].Type)
	})
}

func TestOrderAPI_Validation(t *testing.T) {
	s := newServer(t)
	a := s.seedItem(t, "notebook", 100, 10)

	tests := []struct {
		name    string
		body    interface{}
		field   string
		message string
	}{
		{
			name:    "明细为空",
			body:    map[string]interface{}{"items": []interface{}{}},
			field:   "items",
			message: "Order must contain at least one item",
		},
		{
			name:    "缺少明细",
			body:    map[string]interface{}{},
			field:   "items",
			message: "Order must contain at least one item",
		},
		{
			name:    "数量为0",
			body:    map[string]interface{}{"items": []map[string]interface{}{{"itemId": a, "quantity": 0}}},
			field:   "items[0].quantity",
			message: "quantity must be at least 1",
		},
		{
			name:    "商品ID为0",
			body:    map[string]interface{}{"items": []map[string]interface{}{{"itemId": 0, "quantity": 1}}},
			field:   "items[0].itemId",
			message: "itemId must be a positive integer",
		},
		{
			name: "已付金额为负",
			body: map[string]interface{}{
				"items":      []map[string]interface{}{{"itemId": a, "quantity": 1}},
				"paidAmount": -1,
			},
			field:   "paidAmount",
			message: "Paid amount cannot be negative",
		},
		{
			name: "已付金额不是数字",
			body: map[string]interface{}{
				"items":      []map[string]interface{}{{"itemId": a, "quantity": 1}},
				"paidAmount": "abc",
			},
			field:   "paidAmount",
			message: "paidAmount must be a number",
		},
		{
			name: "已付金额是布尔值",
			body: map[string]interface{}{
				"items":      []map[string]interface{}{{"itemId": a, "quantity": 1}},
				"paidAmount": true,
			},
			field:   "paidAmount",
			message: "paidAmount must be a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/orders", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var body errorBody
			decode(t, w, &body)
			assert.Equal(t, "Validation failed", body.Message)
			require.NotEmpty(t, body.Errors)
			assert.Equal(t, tt.field, body.Errors[0].Field)
			assert.Equal(t, tt.message, body.Errors[0].Message)
		})
	}

	t.Run("请求体不是JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("{"))
		req.Header.Set("Authorization", "Bearer "+s.token)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	assert.Equal(t, 10, s.quantity(t, a))
}

func TestOrderAPI_NotFound(t *testing.T) {
	s := newServer(t)
	a := s.seedItem(t, "notebook", 100, 10)
	body := map[string]interface{}{"items": []map[string]interface{}{{"itemId": a, "quantity": 1}}}

	w := s.do(t, http.MethodGet, "/orders/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/orders/999", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var eb errorBody
	decode(t, w, &eb)
	assert.Equal(t, "Order not found", eb.Message)

	w = s.do(t, http.MethodDelete, "/orders/999", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/orders", map[string]interface{}{
		"items": []map[string]interface{}{{"itemId": a, "quantity": 1}, {"itemId": 999, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 10, s.quantity(t, a))
}

func TestItemAPI(t *testing.T) {
	s := newServer(t)
	a := s.seedItem(t, "notebook", 100, 3)

	t.Run("入库和出库", func(t *testing.T) {
		w := s.do(t, http.MethodPost, fmt.Sprintf("/items/%d/restock", a), map[string]int{"quantity": 4})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp struct {
			Message string   `json:"message"`
			Item    itemBody `json:"item"`
		}
		decode(t, w, &resp)
		assert.Equal(t, "Item restocked", resp.Message)
		assert.Equal(t, 7, resp.Item.Quantity)

		w = s.do(t, http.MethodPost, fmt.Sprintf("/items/%d/decrement", a), map[string]int{"quantity": 8})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodPost, fmt.Sprintf("/items/%d/decrement", a), map[string]int{"quantity": 0})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodPost, fmt.Sprintf("/items/%d/restock", a), map[string]int{"quantity": math.MaxInt})
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		var body errorBody
		decode(t, w, &body)
		assert.Equal(t, "quantity too large", body.Message)
		assert.Equal(t, 7, s.quantity(t, a))
	})

	t.Run("低库存", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/items/low-stock?threshold=7", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list []itemBody
		decode(t, w, &list)
		assert.Len(t, list, 1)
	})

	t.Run("被订单引用的商品不能删除", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/orders", map[string]interface{}{
			"items": []map[string]interface{}{{"itemId": a, "quantity": 1}},
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(t, http.MethodDelete, fmt.Sprintf("/items/%d", a), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("商品不存在", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/items/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAPIv1Mirror(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/user/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		User struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	decode(t, w, &body)
	assert.Equal(t, "admin", body.User.Username)
	assert.Equal(t, "ADMIN", body.User.Role)

	w = s.do(t, http.MethodGet, "/api/v1/reports/inventory", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
