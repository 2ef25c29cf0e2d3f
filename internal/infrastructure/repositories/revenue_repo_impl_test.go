package repositories

import (
	"context"
	"testing"
	"time"

	"bpi.backend/internal/domain/entities"
	domainerrors "bpi.backend/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestRevenueRepository_CreateAndDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewRevenueRepository(db)
	ctx := context.Background()

	rev := &entities.RevenueTransaction{
		Source:           entities.RevenueSourceMembershipActivation,
		Amount:           decimal.NewFromInt(10000),
		Currency:         entities.CurrencyNGN,
		SourceID:         null.StringFrom("pay-1"),
		AllocationStatus: entities.AllocationStatusPending,
	}
	require.NoError(t, repo.Create(ctx, rev))

	exists, err := repo.ExistsBySourceID(ctx, "pay-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBySourceID(ctx, "pay-2")
	require.NoError(t, err)
	assert.False(t, exists)

	dup := &entities.RevenueTransaction{
		Source:           entities.RevenueSourceOther,
		Amount:           decimal.NewFromInt(1),
		Currency:         entities.CurrencyNGN,
		SourceID:         null.StringFrom("pay-1"),
		AllocationStatus: entities.AllocationStatusPending,
	}
	assert.ErrorIs(t, repo.Create(ctx, dup), domainerrors.ErrRevenueAlreadyRecorded)

	// rows without a source id never collide
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(ctx, &entities.RevenueTransaction{
			Source:           entities.RevenueSourceOther,
			Amount:           decimal.NewFromInt(5),
			Currency:         entities.CurrencyNGN,
			AllocationStatus: entities.AllocationStatusPending,
		}))
	}
}

func TestRevenueRepository_AllocationsAndMarkAllocated(t *testing.T) {
	db := newTestDB(t)
	repo := NewRevenueRepository(db)
	ctx := context.Background()

	rev := &entities.RevenueTransaction{
		Source:           entities.RevenueSourceOther,
		Amount:           decimal.NewFromInt(10000),
		Currency:         entities.CurrencyUSD,
		AllocationStatus: entities.AllocationStatusPending,
	}
	require.NoError(t, repo.Create(ctx, rev))

	plan, err := entities.BuildAllocationPlan(rev.Amount)
	require.NoError(t, err)
	var allocations []*entities.RevenueAllocation
	for _, share := range plan {
		allocations = append(allocations, &entities.RevenueAllocation{
			RevenueTransactionID: rev.ID,
			DestinationType:      share.Destination,
			StrategyPoolType:     share.Pool,
			Amount:               share.Amount,
			Percentage:           share.Percentage,
			Status:               share.Status,
		})
	}
	require.NoError(t, repo.CreateAllocations(ctx, allocations))
	require.NoError(t, repo.CreateAllocations(ctx, nil))

	at := time.Now()
	require.NoError(t, repo.MarkAllocated(ctx, rev.ID, at))
	assert.ErrorIs(t, repo.MarkAllocated(ctx, uuid.New(), at), domainerrors.ErrNotFound)

	got, err := repo.GetByID(ctx, rev.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.AllocationStatusAllocated, got.AllocationStatus)
	assert.True(t, got.AllocatedAt.Valid)
	assert.Equal(t, entities.CurrencyUSD, got.Currency)
	require.Len(t, got.Allocations, 7)

	sum := decimal.Zero
	pools := 0
	for _, a := range got.Allocations {
		sum = sum.Add(a.Amount)
		if a.StrategyPoolType != nil {
			pools++
		}
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, 5, pools)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	items, total, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)
}
