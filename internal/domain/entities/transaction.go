package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// TransactionType represents the kind of balance movement
type TransactionType string

const (
	TransactionTypeDeposit     TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal  TransactionType = "WITHDRAWAL"
	TransactionTypeDebit       TransactionType = "DEBIT"
	TransactionTypeCredit      TransactionType = "CREDIT"
	TransactionTypeTransferIn  TransactionType = "TRANSFER_IN"
	TransactionTypeTransferOut TransactionType = "TRANSFER_OUT"
	TransactionTypeInterWallet TransactionType = "INTER_WALLET"
)

// TransactionStatus represents transaction status
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	// TransactionStatusSuccess is written by wallet-funded purchases.
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
)

// IsTerminal reports whether no further transition is allowed.
func (s TransactionStatus) IsTerminal() bool {
	return s != TransactionStatusPending
}

// Transaction is one entry of the append-only wallet ledger.
type Transaction struct {
	ID                 uuid.UUID              `json:"id"`
	UserID             uuid.UUID              `json:"userId"`
	TransactionType    TransactionType        `json:"transactionType"`
	WalletType         WalletType             `json:"walletType"`
	Amount             decimal.Decimal        `json:"amount"`
	Fee                decimal.Decimal        `json:"fee"`
	Status             TransactionStatus      `json:"status"`
	Reference          string                 `json:"reference"`
	Description        string                 `json:"description"`
	Gateway            null.String            `json:"gateway"`
	CounterpartyUserID *uuid.UUID             `json:"counterpartyUserId,omitempty"`
	BankAccountID      *uuid.UUID             `json:"bankAccountId,omitempty"`
	Metadata           map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

// TimelineFilter narrows a user's wallet timeline.
type TimelineFilter struct {
	Page      int              `form:"page"`
	Limit     int              `form:"limit"`
	From      *time.Time       `form:"from" time_format:"2006-01-02"`
	To        *time.Time       `form:"to" time_format:"2006-01-02"`
	Type      string           `form:"type"`
	Status    string           `form:"status"`
	MinAmount *decimal.Decimal `form:"-"`
	MaxAmount *decimal.Decimal `form:"-"`
	Search    string           `form:"search"`
}
