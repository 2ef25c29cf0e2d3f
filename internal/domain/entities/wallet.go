package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepositInput represents input for funding the main wallet through a gateway
type DepositInput struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Gateway string          `json:"gateway"`
}

// DepositResponse is returned once a pending deposit has been opened.
type DepositResponse struct {
	TransactionID uuid.UUID `json:"transactionId"`
	Reference     string    `json:"reference"`
	PaymentLink   string    `json:"paymentLink"`
}

// WithdrawInput represents a withdrawal request to a saved bank account
type WithdrawInput struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	WalletType    WalletType      `json:"walletType"`
	BankAccountID *uuid.UUID      `json:"bankAccountId"`
	Pin           string          `json:"pin"`
}

// InterWalletTransferInput moves funds between two sub-wallets of the same user.
type InterWalletTransferInput struct {
	FromWallet WalletType      `json:"fromWallet" binding:"required"`
	ToWallet   WalletType      `json:"toWallet" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Pin        string          `json:"pin"`
}

// TransferToUserInput moves funds to another user's main wallet.
type TransferToUserInput struct {
	RecipientEmail string          `json:"recipientEmail" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	WalletType     WalletType      `json:"walletType"`
	Pin            string          `json:"pin"`
	Note           string          `json:"note"`
}

// TransferResult is returned by both transfer operations.
type TransferResult struct {
	Reference    string          `json:"reference"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
}

// WalletBalances is the caller's view of every sub-wallet.
type WalletBalances struct {
	UserID   uuid.UUID                      `json:"userId"`
	Balances map[WalletType]decimal.Decimal `json:"balances"`
	Total    decimal.Decimal                `json:"total"`
}

// SetPinInput sets or replaces the transaction PIN
type SetPinInput struct {
	Pin        string `json:"pin" binding:"required"`
	CurrentPin string `json:"currentPin"`
}

// RejectWithdrawalInput carries the admin's reason
type RejectWithdrawalInput struct {
	Reason string `json:"reason" binding:"required"`
}
