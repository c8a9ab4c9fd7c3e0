// Package router 组装Gin引擎:中间件、业务路由、运维路由
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/shopdesk/internal/infrastructure/config"
	"github.com/xiebiao/shopdesk/internal/interface/http/dto"
	"github.com/xiebiao/shopdesk/internal/interface/http/handler"
	"github.com/xiebiao/shopdesk/internal/interface/http/middleware"
	"github.com/xiebiao/shopdesk/pkg/metrics"
)

// Handlers 所有HTTP处理器
type Handlers struct {
	Auth     *handler.AuthHandler
	Order    *handler.OrderHandler
	Item     *handler.ItemHandler
	Category *handler.CategoryHandler
	PrintJob *handler.PrintJobHandler
	Report   *handler.ReportHandler
	Health   *handler.HealthHandler
}

// New 创建Gin引擎
// 中间件顺序:Logger(请求ID、Span、访问日志) → Recovery → Metrics → CORS
// 业务路由同时挂在根路径和/api/v1下
func New(cfg *config.Config, lg *zap.Logger, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	}
	dto.Setup()

	r := gin.New()
	r.Use(
		middleware.Logger(lg),
		middleware.Recovery(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS),
	)

	r.GET("/ping", h.Health.Ping)
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerAPI(r.Group(""), h, auth)
	registerAPI(r.Group("/api/v1"), h, auth)
	return r
}

func registerAPI(g *gin.RouterGroup, h Handlers, auth *middleware.AuthMiddleware) {
	g.POST("/auth/login", h.Auth.Login)

	authorized := g.Group("")
	authorized.Use(auth.RequireAuth())

	authorized.POST("/auth/logout", h.Auth.Logout)
	authorized.POST("/auth/change-password", h.Auth.ChangePassword)
	authorized.GET("/user/profile", h.Auth.Profile)

	orders := authorized.Group("/orders")
	{
		orders.POST("", h.Order.CreateOrder)
		orders.GET("", h.Order.ListOrders)
		orders.GET("/:id", h.Order.GetOrder)
		orders.PUT("/:id", h.Order.UpdateOrder)
		orders.DELETE("/:id", h.Order.DeleteOrder)
	}

	items := authorized.Group("/items")
	{
		items.GET("", h.Item.ListItems)
		items.GET("/low-stock", h.Item.LowStock)
		items.POST("", h.Item.CreateItem)
		items.GET("/:id", h.Item.GetItem)
		items.PATCH("/:id", h.Item.UpdateItem)
		items.DELETE("/:id", h.Item.DeleteItem)
		items.POST("/:id/restock", h.Item.Restock)
		items.POST("/:id/decrement", h.Item.Decrement)
		items.GET("/:id/movements", h.Item.Movements)
	}

	categories := authorized.Group("/category")
	{
		categories.GET("", h.Category.ListCategories)
		categories.POST("", h.Category.CreateCategory)
		categories.DELETE("/:id", h.Category.DeleteCategory)
	}

	printJobs := authorized.Group("/printJobs")
	{
		printJobs.POST("", h.PrintJob.CreatePrintJob)
		printJobs.GET("", h.PrintJob.ListPrintJobs)
		printJobs.GET("/:id", h.PrintJob.GetPrintJob)
		printJobs.PUT("/:id", h.PrintJob.UpdatePrintJob)
		printJobs.DELETE("/:id", h.PrintJob.DeletePrintJob)
	}

	reports := authorized.Group("/reports")
	{
		reports.GET("/sales", h.Report.Sales)
		reports.GET("/print-jobs", h.Report.PrintJobs)
		reports.GET("/inventory", h.Report.Inventory)
	}
}
