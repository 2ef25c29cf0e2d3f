// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"bpi.backend/internal/infrastructure/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewSQLiteDB opens a private in-memory database with every model migrated.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:bpi_test_%d?mode=memory&cache=shared&_busy_timeout=5000", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.AutoMigrate(models.All()...), "migrate")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a shared-cache memory database lives as long as one connection is open
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
