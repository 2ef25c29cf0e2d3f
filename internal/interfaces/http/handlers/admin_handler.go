package handlers

import (
	"context"
	"net/http"
	"strconv"

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

type adminRevenueService interface {
	RecordManualRevenue(ctx context.Context, adminID uuid.UUID, input entities.RecordRevenueInput) (*entities.RevenueTransaction, error)
	GetRevenueTransaction(ctx context.Context, id uuid.UUID) (*entities.RevenueTransaction, error)
	ListRevenueTransactions(ctx context.Context, page, limit int) ([]*entities.RevenueTransaction, utils.PaginationMeta, error)
	GetPoolSummary(ctx context.Context) (*entities.PoolSummary, error)
}

type adminWithdrawalService interface {
	ListPendingWithdrawals(ctx context.Context, page, limit int) ([]*entities.Transaction, utils.PaginationMeta, error)
	ApproveWithdrawal(ctx context.Context, adminID, transactionID uuid.UUID) (*entities.Transaction, error)
	RejectWithdrawal(ctx context.Context, adminID, transactionID uuid.UUID, reason string) (*entities.Transaction, error)
}

type adminPaymentService interface {
	RefundPayment(ctx context.Context, actorID *uuid.UUID, userID uuid.UUID, amount decimal.Decimal, reason string) (*entities.PaymentResult, error)
}

type adminAuditService interface {
	List(ctx context.Context, filter entities.AuditFilter) ([]*entities.AuditLog, utils.PaginationMeta, error)
}

// AdminHandler handles back-office endpoints
type AdminHandler struct {
	revenueUsecase adminRevenueService
	walletUsecase  adminWithdrawalService
	paymentUsecase adminPaymentService
	auditUsecase   adminAuditService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	revenueUsecase *usecases.RevenueUsecase,
	walletUsecase *usecases.WalletUsecase,
	paymentUsecase *usecases.PaymentUsecase,
	auditUsecase *usecases.AuditUsecase,
) *AdminHandler {
	return &AdminHandler{
		revenueUsecase: revenueUsecase,
		walletUsecase:  walletUsecase,
		paymentUsecase: paymentUsecase,
		auditUsecase:   auditUsecase,
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

func (h *AdminHandler) adminID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
	}
	return id, ok
}

// RecordRevenue records revenue entered by an admin
// POST /api/v1/admin/revenue
func (h *AdminHandler) RecordRevenue(c *gin.Context) {
	var input entities.RecordRevenueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	adminID, ok := h.adminID(c)
	if !ok {
		return
	}

	rev, err := h.revenueUsecase.RecordManualRevenue(c.Request.Context(), adminID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"revenue": rev})
}

// ListRevenue pages revenue transactions
// GET /api/v1/admin/revenue
func (h *AdminHandler) ListRevenue(c *gin.Context) {
	page, limit := pageParams(c)
	items, meta, err := h.revenueUsecase.ListRevenueTransactions(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []*entities.RevenueTransaction{}
	}
	response.Success(c, http.StatusOK, gin.H{"items": items, "pagination": meta})
}

// GetRevenue returns one revenue transaction with its allocations
// GET /api/v1/admin/revenue/:id
func (h *AdminHandler) GetRevenue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid revenue ID"))
		return
	}

	rev, err := h.revenueUsecase.GetRevenueTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"revenue": rev})
}

// GetPools returns the reserve, strategic pool and shareholder balances
// GET /api/v1/admin/pools
func (h *AdminHandler) GetPools(c *gin.Context) {
	summary, err := h.revenueUsecase.GetPoolSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// ListPendingWithdrawals pages withdrawals awaiting review
// GET /api/v1/admin/withdrawals/pending
func (h *AdminHandler) ListPendingWithdrawals(c *gin.Context) {
	page, limit := pageParams(c)
	items, meta, err := h.walletUsecase.ListPendingWithdrawals(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []*entities.Transaction{}
	}
	response.Success(c, http.StatusOK, gin.H{"items": items, "pagination": meta})
}

// ApproveWithdrawal marks a withdrawal as paid out
// POST /api/v1/admin/withdrawals/:id/approve
func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid transaction ID"))
		return
	}

	adminID, ok := h.adminID(c)
	if !ok {
		return
	}

	tx, err := h.walletUsecase.ApproveWithdrawal(c.Request.Context(), adminID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":     "Withdrawal approved",
		"transaction": tx,
	})
}

// RejectWithdrawal refunds a withdrawal to the user
// POST /api/v1/admin/withdrawals/:id/reject
func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid transaction ID"))
		return
	}

	var input entities.RejectWithdrawalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	adminID, ok := h.adminID(c)
	if !ok {
		return
	}

	tx, err := h.walletUsecase.RejectWithdrawal(c.Request.Context(), adminID, id, input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":     "Withdrawal rejected",
		"transaction": tx,
	})
}

// RefundPayment credits a user back
// POST /api/v1/admin/payments/refund
func (h *AdminHandler) RefundPayment(c *gin.Context) {
	var input entities.RefundInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	adminID, ok := h.adminID(c)
	if !ok {
		return
	}

	result, err := h.paymentUsecase.RefundPayment(c.Request.Context(), &adminID, input.UserID, input.Amount, input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ListAuditLogs pages the audit trail
// GET /api/v1/admin/audit-logs
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	var filter entities.AuditFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	items, meta, err := h.auditUsecase.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []*entities.AuditLog{}
	}
	response.Success(c, http.StatusOK, gin.H{"items": items, "pagination": meta})
}
