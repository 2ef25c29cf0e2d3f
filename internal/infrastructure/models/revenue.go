package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RevenueTransaction struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Source           string          `gorm:"type:varchar(50);not null;index"`
	Amount           decimal.Decimal `gorm:"type:decimal(24,6);not null"`
	Currency         string          `gorm:"type:varchar(3);not null;default:'NGN'"`
	SourceID         *string         `gorm:"type:varchar(255);uniqueIndex"`
	Description      *string         `gorm:"type:text"`
	AllocationStatus string          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	AllocatedAt      *time.Time
	CreatedAt        time.Time `gorm:"index"`

	Allocations []RevenueAllocation `gorm:"foreignKey:RevenueTransactionID"`
}

type RevenueAllocation struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RevenueTransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	DestinationType      string          `gorm:"type:varchar(30);not null;index"`
	StrategyPoolType     *string         `gorm:"type:varchar(30)"`
	Amount               decimal.Decimal `gorm:"type:decimal(24,6);not null"`
	Percentage           decimal.Decimal `gorm:"type:decimal(6,3);not null"`
	Status               string          `gorm:"type:varchar(20);not null;index"`
	CreatedAt            time.Time
}

type CompanyReserve struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code          string          `gorm:"type:varchar(20);uniqueIndex;not null"`
	Balance       decimal.Decimal `gorm:"type:decimal(24,6);not null;default:0"`
	TotalReceived decimal.Decimal `gorm:"type:decimal(24,6);not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type StrategyPool struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PoolType      string          `gorm:"type:varchar(30);uniqueIndex;not null"`
	Balance       decimal.Decimal `gorm:"type:decimal(24,6);not null;default:0"`
	TotalReceived decimal.Decimal `gorm:"type:decimal(24,6);not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ExecutiveShareholder struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Role           string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID         *uuid.UUID      `gorm:"type:uuid"`
	Percentage     decimal.Decimal `gorm:"type:decimal(6,3);not null"`
	PendingBalance decimal.Decimal `gorm:"type:decimal(24,6);not null;default:0"`
	TotalEarned    decimal.Decimal `gorm:"type:decimal(24,6);not null;default:0"`
	IsActive       bool            `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
