//go:build sqlite_cgo

package gormdb

// 使用mattn/go-sqlite3（需要CGO）：
//
//	CGO_ENABLED=1 go build -tags sqlite_cgo ./...

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteBuildMode 当前构建使用的SQLite实现
const SQLiteBuildMode = "cgo"

func openSQLite(dsn string) gorm.Dialector {
	return sqlite.Open(dsn)
}
