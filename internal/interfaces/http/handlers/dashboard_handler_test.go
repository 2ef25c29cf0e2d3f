package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bpi.backend/internal/domain/entities"
	"bpi.backend/pkg/utils"
)

type dashboardServiceStub struct {
	fn func(ctx context.Context, userID uuid.UUID, filter entities.TimelineFilter) ([]*entities.Transaction, utils.PaginationMeta, error)
}

func (s *dashboardServiceStub) GetWalletTimeline(ctx context.Context, userID uuid.UUID, filter entities.TimelineFilter) ([]*entities.Transaction, utils.PaginationMeta, error) {
	return s.fn(ctx, userID, filter)
}

func TestDashboardHandler_GetWalletTimeline(t *testing.T) {
	var got entities.TimelineFilter
	svc := &dashboardServiceStub{fn: func(_ context.Context, userID uuid.UUID, filter entities.TimelineFilter) ([]*entities.Transaction, utils.PaginationMeta, error) {
		require.Equal(t, testUserID, userID)
		got = filter
		return nil, utils.NewPage(2, 10, utils.PageBounds{Default: 20}).Meta(0), nil
	}}
	r := newTestRouter(true)
	r.GET("/dashboard/wallet-timeline", (&DashboardHandler{dashboardUsecase: svc}).GetWalletTimeline)

	w := doJSON(r, http.MethodGet, "/dashboard/wallet-timeline?page=2&limit=10&type=DEPOSIT&status=completed&search=BPI&from=2026-01-01&to=2026-02-01&minAmount=100&maxAmount=999.99", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 10, got.Limit)
	assert.Equal(t, "DEPOSIT", got.Type)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, "BPI", got.Search)
	require.NotNil(t, got.From)
	require.NotNil(t, got.To)
	assert.Equal(t, 2026, got.From.Year())
	require.NotNil(t, got.MinAmount)
	assert.Equal(t, "100", got.MinAmount.String())
	assert.Equal(t, "999.99", got.MaxAmount.String())

	body := decodeBody(t, w)
	assert.Equal(t, []interface{}{}, body["items"])
	assert.NotNil(t, body["pagination"])
}

func TestDashboardHandler_GetWalletTimeline_Errors(t *testing.T) {
	svc := &dashboardServiceStub{fn: func(context.Context, uuid.UUID, entities.TimelineFilter) ([]*entities.Transaction, utils.PaginationMeta, error) {
		return nil, utils.PaginationMeta{}, errors.New("boom")
	}}
	h := &DashboardHandler{dashboardUsecase: svc}

	r := newTestRouter(true)
	r.GET("/t", h.GetWalletTimeline)
	require.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/t?minAmount=abc", nil).Code)
	require.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/t?from=yesterday", nil).Code)
	require.Equal(t, http.StatusInternalServerError, doJSON(r, http.MethodGet, "/t", nil).Code)

	anon := newTestRouter(false)
	anon.GET("/t", h.GetWalletTimeline)
	require.Equal(t, http.StatusUnauthorized, doJSON(anon, http.MethodGet, "/t", nil).Code)
}
