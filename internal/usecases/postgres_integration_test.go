//go:build integration

package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bpi.backend/internal/domain/entities"
	domainerrors "bpi.backend/internal/domain/errors"
	"bpi.backend/internal/infrastructure/models"
	"bpi.backend/internal/testutil"
)

func TestPostgres_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	h := newHarnessOn(t, testutil.SetupPostgres(t))
	ctx := context.Background()
	user := h.seedUser(t, "pg-race@bpi.io", "1000")

	const attempts = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, short := 0, 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.payments.ProcessWalletPayment(ctx, user.ID, uuid.Must(uuid.NewV7()), decimal.NewFromInt(100), "race")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domainerrors.ErrInsufficientFunds):
				short++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, attempts-10, short)
	assert.True(t, h.balance(t, user, entities.WalletMain).IsZero())
	assert.Equal(t, int64(10), h.count(t, &models.Transaction{}, "transaction_type = ?", "DEBIT"))
}

func TestPostgres_ConcurrentDuplicateSourceIDRecordsOnce(t *testing.T) {
	h := newHarnessOn(t, testutil.SetupPostgres(t))
	ctx := context.Background()

	const workers = 12
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, duplicates := 0, 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.revenue.RecordRevenue(ctx, entities.RecordRevenueInput{
				Source:   entities.RevenueSourceMembershipActivation,
				Amount:   decimal.NewFromInt(10000),
				SourceID: "pg-same-event",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domainerrors.ErrRevenueAlreadyRecorded):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, duplicates)
	assert.Equal(t, int64(1), h.revenueRows(t))
	assert.Equal(t, int64(7), h.allocationRows(t))

	summary, err := h.revenue.GetPoolSummary(ctx)
	require.NoError(t, err)
	require.NotNil(t, summary.CompanyReserve)
	assertDecimal(t, "5000", summary.CompanyReserve.Balance)
}

func TestPostgres_ConcurrentDistinctRevenueAccumulatesPools(t *testing.T) {
	h := newHarnessOn(t, testutil.SetupPostgres(t))
	ctx := context.Background()

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.revenue.RecordRevenue(ctx, entities.RecordRevenueInput{
				Source:   entities.RevenueSourceOther,
				Amount:   decimal.NewFromInt(100),
				SourceID: fmt.Sprintf("pg-event-%d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	summary, err := h.revenue.GetPoolSummary(ctx)
	require.NoError(t, err)
	assertDecimal(t, "500", summary.CompanyReserve.TotalReceived)
	require.Len(t, summary.StrategyPools, len(entities.StrategyPoolTypes))
	for _, pool := range summary.StrategyPools {
		assertDecimal(t, "40", pool.Balance, pool.PoolType)
	}
}
