package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appuser "github.com/xiebiao/shopdesk/internal/application/user"
	"github.com/xiebiao/shopdesk/internal/domain/user"
	"github.com/xiebiao/shopdesk/internal/infrastructure/config"
	"github.com/xiebiao/shopdesk/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/shopdesk/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/shopdesk/internal/interface/http/middleware"
	"github.com/xiebiao/shopdesk/internal/interface/http/router"
	"github.com/xiebiao/shopdesk/pkg/health"
	"github.com/xiebiao/shopdesk/pkg/jwt"
)

const checkTimeout = 2 * time.Second

// App 组装好的API服务
type App struct {
	Engine *gin.Engine
	Health *health.Health

	users       user.Repository
	userService user.Service
}

// BootstrapAdmin 创建配置中的管理员账号
func (a *App) BootstrapAdmin(ctx context.Context, cfg *config.Config) error {
	return appuser.BootstrapAdmin(ctx, cfg, a.users, a.userService)
}

func newApp(engine *gin.Engine, h *health.Health, users user.Repository, userService user.Service) *App {
	return &App{Engine: engine, Health: h, users: users, userService: userService}
}

// provideDB 打开数据库,cleanup关闭连接
func provideDB(cfg *config.Config, lg *zap.Logger) (*gorm.DB, func(), error) {
	db, err := gormdb.NewDB(cfg, lg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if err := gormdb.Close(db); err != nil {
			lg.Warn("Close database failed", zap.Error(err))
		}
	}, nil
}

// provideRedis redis.enabled=false时返回nil客户端
func provideRedis(cfg *config.Config, lg *zap.Logger) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg, lg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() {
		if client != nil {
			_ = client.Close()
		}
	}, nil
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire)
}

// provideHealth 注册就绪检查:数据库总是检查,Redis只在启用时检查
func provideHealth(db *gorm.DB, sessions *redis.SessionStore) (*health.Health, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}

	h := health.New()
	h.AddCheck("database", checkTimeout, sqlDB.PingContext)
	if sessions.Enabled() {
		h.AddCheck("redis", checkTimeout, sessions.Ping)
	}
	return h, nil
}

func provideEngine(cfg *config.Config, lg *zap.Logger, handlers router.Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	return router.New(cfg, lg, handlers, auth)
}
