package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bpi.backend/internal/domain/entities"
	"bpi.backend/internal/usecases"
)

func TestGetWalletTimeline(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := h.seedUser(t, "timeline@bpi.io", "10000")
	other := h.seedUser(t, "elsewhere@bpi.io", "10000")

	for i := 1; i <= 5; i++ {
		_, err := h.payments.ProcessWalletPayment(ctx, user.ID, uuid.Must(uuid.NewV7()), decimal.NewFromInt(int64(i*100)), fmt.Sprintf("purchase %d", i))
		require.NoError(t, err)
	}
	_, err := h.payments.ProcessWalletPayment(ctx, other.ID, uuid.Must(uuid.NewV7()), decimal.NewFromInt(50), "not mine")
	require.NoError(t, err)

	uc := usecases.NewDashboardUsecase(h.transactions)

	items, meta, err := uc.GetWalletTimeline(ctx, user.ID, entities.TimelineFilter{})
	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.Equal(t, int64(5), meta.TotalCount)
	assert.Equal(t, 20, meta.Limit)

	items, meta, err = uc.GetWalletTimeline(ctx, user.ID, entities.TimelineFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)

	min := decimal.NewFromInt(200)
	max := decimal.NewFromInt(400)
	items, _, err = uc.GetWalletTimeline(ctx, user.ID, entities.TimelineFilter{MinAmount: &min, MaxAmount: &max})
	require.NoError(t, err)
	assert.Len(t, items, 3)

	items, _, err = uc.GetWalletTimeline(ctx, user.ID, entities.TimelineFilter{Search: "PURCHASE 4"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "purchase 4", items[0].Description)

	items, _, err = uc.GetWalletTimeline(ctx, user.ID, entities.TimelineFilter{Type: "credit"})
	require.NoError(t, err)
	assert.Empty(t, items)

	_, meta, err = uc.GetWalletTimeline(ctx, user.ID, entities.TimelineFilter{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, meta.Limit)
}

func TestGetWalletTimeline_InvalidRanges(t *testing.T) {
	uc := usecases.NewDashboardUsecase(new(MockTransactionRepository))
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)

	_, _, err := uc.GetWalletTimeline(context.Background(), uuid.New(), entities.TimelineFilter{From: &from, To: &to})
	assertAppStatus(t, err, http.StatusBadRequest)

	min := decimal.NewFromInt(10)
	max := decimal.NewFromInt(5)
	_, _, err = uc.GetWalletTimeline(context.Background(), uuid.New(), entities.TimelineFilter{MinAmount: &min, MaxAmount: &max})
	assertAppStatus(t, err, http.StatusBadRequest)
}

func TestGetWalletTimeline_RepositoryError(t *testing.T) {
	repo := new(MockTransactionRepository)
	repo.On("ListByUser", mock.Anything, mock.Anything, mock.Anything, 20, 0).Return(nil, int64(0), errors.New("db down"))

	_, _, err := usecases.NewDashboardUsecase(repo).GetWalletTimeline(context.Background(), uuid.New(), entities.TimelineFilter{})
	assert.EqualError(t, err, "db down")
}
