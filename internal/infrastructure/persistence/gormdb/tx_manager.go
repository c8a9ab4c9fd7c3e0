package gormdb

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/shopdesk/internal/infrastructure/config"
	apperrors "github.com/xiebiao/shopdesk/pkg/errors"
)

// txKey 事务DB在context中的key
type txKey struct{}

// TxManager 事务管理器
// 教学要点:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 每个事务都有超时时间(database.tx_timeout),超时自动回滚
// 4. 死锁/写冲突/锁等待超时统一翻译成业务错误码,调用方可以提示重试
type TxManager struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB, cfg *config.Config) *TxManager {
	return &TxManager{db: db, timeout: cfg.Database.TxTimeout}
}

// Transaction 执行事务
// 教学要点:
// 1. fn函数内的所有Repository操作都会在同一事务中执行
// 2. fn返回error时自动ROLLBACK,返回nil时自动COMMIT
// 3. fn内必须使用传入的ctx:SQLite只有一个连接,用外层ctx查询会等待自己持有的连接
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    it, err := itemRepo.LockByID(ctx, itemID)
//	    if err != nil {
//	        return err
//	    }
//	    if _, err := stock.Apply(ctx, it, -qty, item.MovementOrderDeduct); err != nil {
//	        return err // 自动回滚
//	    }
//	    return orderRepo.Create(ctx, o)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 将事务DB注入到Context中
		// Repository的getDB方法会从context提取事务DB
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
	return translateTxError(ctx, err)
}

// translateTxError 把并发相关的底层错误翻译成业务错误
// 业务错误(库存不足、商品不存在等)原样返回
func translateTxError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if appErr := asAppError(err); appErr != nil && !appErr.IsInternal() {
		return err
	}

	switch {
	case isTimeoutError(ctx, err):
		return apperrors.WithCode(apperrors.ErrCodeTransactionTimeout, apperrors.ErrTransactionTimeout.Message, err)
	case isConflictError(err):
		return apperrors.WithCode(apperrors.ErrCodeTransactionConflict, apperrors.ErrTransactionConflict.Message, err)
	default:
		return err
	}
}

// getDB 从context获取事务DB,没有事务时使用普通连接
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
