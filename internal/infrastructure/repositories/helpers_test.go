package repositories

import (
	"context"
	"testing"

	"bpi.backend/internal/domain/entities"
	"bpi.backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewSQLiteDB(t)
}

func seedUser(t *testing.T, db *gorm.DB, email string, wallet int64) *entities.User {
	t.Helper()
	u := &entities.User{
		Email:  email,
		Name:   "Test User",
		Wallet: decimal.NewFromInt(wallet),
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}
