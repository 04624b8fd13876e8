package test

import (
	"innovation-challenge-system/internal/global/database"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// SetupDB 用内存 sqlite 替换全局 DB，表结构与生产一致
// 单连接让并发用例在单个写连接上串行执行，避免 sqlite 锁错误
func SetupDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.AutoMigrateModels...))

	database.DB = db
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
}
