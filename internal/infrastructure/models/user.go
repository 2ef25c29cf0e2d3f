package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID                        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Email                     string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name                      string          `gorm:"type:varchar(100);not null"`
	Phone                     string          `gorm:"type:varchar(32)"`
	Role                      string          `gorm:"type:varchar(50);not null;default:'USER'"`
	Wallet                    decimal.Decimal `gorm:"type:decimal(24,6);not null;default:0"`
	Spendable                 decimal.Decimal `gorm:"type:decimal(24,6);not null;default:0"`
	Cashback                  decimal.Decimal `gorm:"type:decimal(24,6);not null;default:0"`
	Shareholder               decimal.Decimal `gorm:"type:decimal(24,6);not null;default:0"`
	Community                 decimal.Decimal `gorm:"type:decimal(24,6);not null;default:0"`
	Palliative                decimal.Decimal `gorm:"type:decimal(24,6);not null;default:0"`
	TransactionPinHash        *string         `gorm:"type:varchar(255)"`
	ActiveMembershipPackageID *uuid.UUID      `gorm:"type:uuid"`
	MembershipActivatedAt     *time.Time
	MembershipExpiresAt       *time.Time
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
	DeletedAt                 gorm.DeletedAt `gorm:"index"`
}

// walletColumns maps each sub-wallet onto its users column.
var walletColumns = map[string]string{
	"wallet":      "wallet",
	"spendable":   "spendable",
	"cashback":    "cashback",
	"shareholder": "shareholder",
	"community":   "community",
	"palliative":  "palliative",
}

// WalletColumn returns the users column backing a sub-wallet.
// Only whitelisted names are returned so the result is safe to place in SQL.
func WalletColumn(wallet string) (string, bool) {
	col, ok := walletColumns[wallet]
	return col, ok
}

type BankAccount struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	BankName      string    `gorm:"type:varchar(100);not null"`
	BankCode      string    `gorm:"type:varchar(20)"`
	AccountNumber string    `gorm:"type:varchar(20);not null"`
	AccountName   string    `gorm:"type:varchar(150);not null"`
	IsDefault     bool      `gorm:"default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
