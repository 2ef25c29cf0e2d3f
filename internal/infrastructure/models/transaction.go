package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Transaction struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID         `gorm:"type:uuid;not null;index"`
	TransactionType    string            `gorm:"type:varchar(32);not null;index"`
	WalletType         string            `gorm:"type:varchar(32);not null;default:'wallet'"`
	Amount             decimal.Decimal   `gorm:"type:decimal(24,6);not null"`
	Fee                decimal.Decimal   `gorm:"type:decimal(24,6);not null;default:0"`
	Status             string            `gorm:"type:varchar(20);not null;index"`
	Reference          string            `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description        string            `gorm:"type:text"`
	Gateway            *string           `gorm:"type:varchar(50)"`
	CounterpartyUserID *uuid.UUID        `gorm:"type:uuid"`
	BankAccountID      *uuid.UUID        `gorm:"type:uuid"`
	Metadata           datatypes.JSONMap `gorm:"type:json"`
	CreatedAt          time.Time         `gorm:"index"`
	UpdatedAt          time.Time
}
