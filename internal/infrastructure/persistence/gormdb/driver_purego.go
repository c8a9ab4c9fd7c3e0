//go:build !sqlite_cgo

package gormdb

// 默认构建使用纯Go的SQLite实现（modernc.org/sqlite），不需要C编译器：
//
//	CGO_ENABLED=0 go build ./...

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// SQLiteBuildMode 当前构建使用的SQLite实现
const SQLiteBuildMode = "purego"

func openSQLite(dsn string) gorm.Dialector {
	return sqlite.Open(dsn)
}
