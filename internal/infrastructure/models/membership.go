package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AdminSetting struct {
	Key       string `gorm:"type:varchar(100);primaryKey"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

type MembershipPackage struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name         string          `gorm:"type:varchar(100);not null"`
	Price        decimal.Decimal `gorm:"type:decimal(24,6);not null"`
	RenewalPrice decimal.Decimal `gorm:"type:decimal(24,6);not null"`
	DurationDays int             `gorm:"not null;default:365"`
	IsActive     bool            `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
