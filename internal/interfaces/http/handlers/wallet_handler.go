package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bpi.backend/internal/domain/entities"
	domainerrors "bpi.backend/internal/domain/errors"
	"bpi.backend/internal/interfaces/http/middleware"
	"bpi.backend/internal/interfaces/http/response"
	"bpi.backend/internal/usecases"
)

type walletService interface {
	GetBalances(ctx context.Context, userID uuid.UUID) (*entities.WalletBalances, error)
	SetTransactionPin(ctx context.Context, userID uuid.UUID, input entities.SetPinInput) error
	AddBankAccount(ctx context.Context, userID uuid.UUID, input entities.BankAccountInput) (*entities.BankAccount, error)
	ListBankAccounts(ctx context.Context, userID uuid.UUID) ([]*entities.BankAccount, error)
	InitiateDeposit(ctx context.Context, userID uuid.UUID, input entities.DepositInput) (*entities.DepositResponse, error)
	RequestWithdrawal(ctx context.Context, userID uuid.UUID, input entities.WithdrawInput) (*entities.Transaction, error)
	TransferInterWallet(ctx context.Context, userID uuid.UUID, input entities.InterWalletTransferInput) (*entities.TransferResult, error)
	TransferToUser(ctx context.Context, userID uuid.UUID, input entities.TransferToUserInput) (*entities.TransferResult, error)
}

// WalletHandler handles wallet endpoints
type WalletHandler struct {
	walletUsecase walletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletUsecase *usecases.WalletUsecase) *WalletHandler {
	return &WalletHandler{walletUsecase: walletUsecase}
}

// GetBalances returns every sub-wallet balance of the caller
// GET /api/v1/wallet/balances
func (h *WalletHandler) GetBalances(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	balances, err := h.walletUsecase.GetBalances(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, balances)
}

// Deposit opens a pending deposit and returns the hosted payment link
// POST /api/v1/wallet/deposit
func (h *WalletHandler) Deposit(c *gin.Context) {
	var input entities.DepositInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	out, err := h.walletUsecase.InitiateDeposit(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, out)
}

// Withdraw requests a payout to a saved bank account
// POST /api/v1/wallet/withdraw
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var input entities.WithdrawInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	tx, err := h.walletUsecase.RequestWithdrawal(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message":     "Withdrawal request submitted",
		"transaction": tx,
	})
}

// TransferInterWallet moves funds between the caller's sub-wallets
// POST /api/v1/wallet/transfer-inter-wallet
func (h *WalletHandler) TransferInterWallet(c *gin.Context) {
	var input entities.InterWalletTransferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	out, err := h.walletUsecase.TransferInterWallet(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, out)
}

// TransferToUser sends funds to another user's main wallet
// POST /api/v1/wallet/transfer-to-user
func (h *WalletHandler) TransferToUser(c *gin.Context) {
	var input entities.TransferToUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	out, err := h.walletUsecase.TransferToUser(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, out)
}

// SetPin sets or replaces the transaction PIN
// POST /api/v1/wallet/pin
func (h *WalletHandler) SetPin(c *gin.Context) {
	var input entities.SetPinInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	if err := h.walletUsecase.SetTransactionPin(c.Request.Context(), userID, input); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Transaction PIN updated"})
}

// AddBankAccount saves a payout destination
// POST /api/v1/wallet/bank-accounts
func (h *WalletHandler) AddBankAccount(c *gin.Context) {
	var input entities.BankAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	account, err := h.walletUsecase.AddBankAccount(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"bankAccount": account})
}

// ListBankAccounts lists the caller's saved bank accounts
// GET /api/v1/wallet/bank-accounts
func (h *WalletHandler) ListBankAccounts(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	accounts, err := h.walletUsecase.ListBankAccounts(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if accounts == nil {
		accounts = []*entities.BankAccount{}
	}

	response.Success(c, http.StatusOK, gin.H{"bankAccounts": accounts})
}
