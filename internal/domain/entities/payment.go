package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gateway names
const (
	GatewayWallet      = "wallet"
	GatewayFlutterwave = "flutterwave"
)

// PaymentResult is the outcome of a wallet-funded payment.
type PaymentResult struct {
	Success       bool            `json:"success"`
	TransactionID uuid.UUID       `json:"transactionId"`
	Reference     string          `json:"reference"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
}

// PaymentGateway describes one payment method offered to the client.
type PaymentGateway struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	PublicKey   string `json:"publicKey,omitempty"`
	Environment string `json:"environment,omitempty"`
}

// RefundInput represents an admin refund to a user's main wallet
type RefundInput struct {
	UserID uuid.UUID       `json:"userId" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason" binding:"required"`
}
