//go:build wireinject
// +build wireinject

// 依赖注入声明,修改后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
//
// 依赖链:
//
//	Repository ← StockService/领域服务 ← UseCase ← Handler ← router.Handlers ← *gin.Engine

package main

import (
	"github.com/google/wire"
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
)

// infrastructureSet 数据库、Redis、MQ
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	redis.NewSessionStore,
	messaging.ProvideEventPublisher,
	provideHealth,
)

// repositorySet 仓储和事务管理器
var repositorySet = wire.NewSet(
	gormdb.NewUserRepository,
	gormdb.NewItemRepository,
	gormdb.NewMovementRepository,
	gormdb.NewOrderRepository,
	gormdb.NewCategoryRepository,
	gormdb.NewPrintJobRepository,
	gormdb.NewTxManager,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
	item.NewStockService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewAccountUseCase,
	apporder.NewCreateOrderUseCase,
	apporder.NewUpdateOrderUseCase,
	apporder.NewDeleteOrderUseCase,
	apporder.NewQueryOrderUseCase,
	appitem.NewQueryItemUseCase,
	appitem.NewManageItemUseCase,
	appitem.NewAdjustStockUseCase,
	appcategory.NewCategoryUseCase,
	appprintjob.NewPrintJobUseCase,
	report.NewReportUseCase,
)

// interfaceSet 中间件、处理器、路由
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewAuthHandler,
	handler.NewOrderHandler,
	handler.NewItemHandler,
	handler.NewCategoryHandler,
	handler.NewPrintJobHandler,
	handler.NewReportHandler,
	handler.NewHealthHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideEngine,
)

// InitializeApp 组装API服务,cleanup按创建的逆序释放资源
func InitializeApp(cfg *config.Config, lg *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		newApp,
	)
	return nil, nil, nil
}
