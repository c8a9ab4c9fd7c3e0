package gormdb

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/shopdesk/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 方言由database.driver决定：sqlite（默认）、mysql、postgres
// 2. SQLite只允许一个连接，写事务天然串行；同时开启外键和WAL
// 3. MySQL/PostgreSQL按配置设置连接池，库存行通过SELECT FOR UPDATE加锁
// 4. 启动时自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config, lg *zap.Logger) (*gorm.DB, error) {
	dbCfg := cfg.Database

	dialector, err := newDialector(dbCfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if dbCfg.LogSQL {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			// 统一存储UTC，避免不同驱动对时区的处理差异影响按日期过滤
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}

	if dbCfg.Driver == config.DriverSQLite {
		// 单连接：内存库不会因为连接回收而丢失，写操作也不会互相抢锁
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)

		pragmas := []string{
			"PRAGMA foreign_keys = ON",
			"PRAGMA journal_mode = WAL",
			fmt.Sprintf("PRAGMA busy_timeout = %d", dbCfg.BusyTimeout.Milliseconds()),
		}
		for _, p := range pragmas {
			if err := db.Exec(p).Error; err != nil {
				return nil, errors.Wrapf(err, "exec %q", p)
			}
		}
	} else {
		sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping database")
	}

	if err := autoMigrate(db); err != nil {
		return nil, errors.Wrap(err, "migrate database")
	}

	lg.Info("Database connected",
		zap.String("driver", dbCfg.Driver),
		zap.String("sqlite_build", SQLiteBuildMode),
	)
	return db, nil
}

func newDialector(d config.DatabaseConfig) (gorm.Dialector, error) {
	switch d.Driver {
	case config.DriverSQLite:
		return openSQLite(d.DSN()), nil
	case config.DriverMySQL:
		return mysql.Open(d.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(d.DSN()), nil
	default:
		return nil, errors.Errorf("unsupported database driver: %q", d.Driver)
	}
}

// autoMigrate 自动迁移表结构
// 注意：生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&CategoryModel{},
		&ItemModel{},
		&OrderModel{},
		&OrderLineModel{},
		&StockMovementModel{},
		&PrintJobModel{},
		&UserModel{},
	)
}

// Close 关闭底层连接
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
