package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanyReserveCode keys the single company reserve row.
const CompanyReserveCode = "MAIN"

// CompanyReserve accumulates the company's share of revenue.
type CompanyReserve struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Balance       decimal.Decimal `json:"balance"`
	TotalReceived decimal.Decimal `json:"totalReceived"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// StrategyPool accumulates one strategic pool's share of revenue.
type StrategyPool struct {
	ID            uuid.UUID        `json:"id"`
	PoolType      StrategyPoolType `json:"poolType"`
	Balance       decimal.Decimal  `json:"balance"`
	TotalReceived decimal.Decimal  `json:"totalReceived"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// ExecutiveShareholder holds an executive's pending share of the executive pool.
type ExecutiveShareholder struct {
	ID             uuid.UUID       `json:"id"`
	Role           string          `json:"role"`
	UserID         *uuid.UUID      `json:"userId,omitempty"`
	Percentage     decimal.Decimal `json:"percentage"`
	PendingBalance decimal.Decimal `json:"pendingBalance"`
	TotalEarned    decimal.Decimal `json:"totalEarned"`
	IsActive       bool            `json:"isActive"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// PoolSummary is the admin view of every aggregate balance.
type PoolSummary struct {
	CompanyReserve         *CompanyReserve         `json:"companyReserve"`
	StrategyPools          []*StrategyPool         `json:"strategyPools"`
	ExecutiveShareholders  []*ExecutiveShareholder `json:"executiveShareholders"`
	PendingExecutiveAmount decimal.Decimal         `json:"pendingExecutiveAmount"`
}
