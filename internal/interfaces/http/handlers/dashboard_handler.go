package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bpi.backend/internal/domain/entities"
	domainerrors "bpi.backend/internal/domain/errors"
	"bpi.backend/internal/interfaces/http/middleware"
	"bpi.backend/internal/interfaces/http/response"
	"bpi.backend/internal/usecases"
	"bpi.backend/pkg/utils"
)

type dashboardService interface {
	GetWalletTimeline(ctx context.Context, userID uuid.UUID, filter entities.TimelineFilter) ([]*entities.Transaction, utils.PaginationMeta, error)
}

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardUsecase dashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardUsecase *usecases.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{dashboardUsecase: dashboardUsecase}
}

// GetWalletTimeline pages the caller's wallet activity
// GET /api/v1/dashboard/wallet-timeline
func (h *DashboardHandler) GetWalletTimeline(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var filter entities.TimelineFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	var err error
	if filter.MinAmount, err = queryDecimal(c, "minAmount"); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid minAmount"))
		return
	}
	if filter.MaxAmount, err = queryDecimal(c, "maxAmount"); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid maxAmount"))
		return
	}

	items, meta, err := h.dashboardUsecase.GetWalletTimeline(c.Request.Context(), userID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []*entities.Transaction{}
	}

	response.Success(c, http.StatusOK, gin.H{
		"items":      items,
		"pagination": meta,
	})
}

func queryDecimal(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
