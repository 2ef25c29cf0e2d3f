//go:build integration

package testutil

import (
	"context"
	"testing"
	"time"

	"bpi.backend/internal/infrastructure/models"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupPostgres starts a disposable Postgres container and returns a migrated connection.
func SetupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("bpi_test"),
		tcpostgres.WithUsername("bpi"),
		tcpostgres.WithPassword("bpi"),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	var db *gorm.DB
	for i := 0; i < 30; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Silent),
		})
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil && sqlDB.PingContext(ctx) == nil {
				break
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	require.NoError(t, err, "connect to postgres")
	require.NoError(t, db.AutoMigrate(models.All()...), "migrate")
	return db
}
