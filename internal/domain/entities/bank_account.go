package entities

import (
	"time"

	"github.com/google/uuid"
)

// BankAccount is a user's saved payout destination.
type BankAccount struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	BankName      string    `json:"bankName"`
	BankCode      string    `json:"bankCode"`
	AccountNumber string    `json:"accountNumber"`
	AccountName   string    `json:"accountName"`
	IsDefault     bool      `json:"isDefault"`
	CreatedAt     time.Time `json:"createdAt"`
}

// BankAccountInput represents input for saving a payout account
type BankAccountInput struct {
	BankName      string `json:"bankName" binding:"required"`
	BankCode      string `json:"bankCode" binding:"required"`
	AccountNumber string `json:"accountNumber" binding:"required"`
	AccountName   string `json:"accountName" binding:"required"`
	IsDefault     bool   `json:"isDefault"`
}

// MaskedNumber hides all but the last four digits of the account number.
func (a *BankAccount) MaskedNumber() string {
	n := a.AccountNumber
	if len(n) <= 4 {
		return n
	}
	return "****" + n[len(n)-4:]
}
