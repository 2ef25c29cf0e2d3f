package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// RevenueSource categorises recognised revenue
type RevenueSource string

const (
	RevenueSourceMembershipActivation RevenueSource = "MEMBERSHIP_ACTIVATION"
	RevenueSourceMembershipRenewal    RevenueSource = "MEMBERSHIP_RENEWAL"
	RevenueSourceEmpowermentPackage   RevenueSource = "EMPOWERMENT_PACKAGE"
	RevenueSourceWithdrawalFee        RevenueSource = "WITHDRAWAL_FEE"
	RevenueSourceTransferFee          RevenueSource = "TRANSFER_FEE"
	RevenueSourceOther                RevenueSource = "OTHER"
)

var revenueSources = map[RevenueSource]bool{
	RevenueSourceMembershipActivation: true,
	RevenueSourceMembershipRenewal:    true,
	RevenueSourceEmpowermentPackage:   true,
	RevenueSourceWithdrawalFee:        true,
	RevenueSourceTransferFee:          true,
	RevenueSourceOther:                true,
}

// IsValid reports whether s is a known revenue source.
func (s RevenueSource) IsValid() bool {
	return revenueSources[s]
}

// Currency of a revenue event
type Currency string

const (
	CurrencyNGN Currency = "NGN"
	CurrencyUSD Currency = "USD"
)

// AllocationStatus is shared by revenue transactions and their allocations.
type AllocationStatus string

const (
	AllocationStatusPending   AllocationStatus = "PENDING"
	AllocationStatusAllocated AllocationStatus = "ALLOCATED"
)

// AllocationDestination is where an allocation is credited.
type AllocationDestination string

const (
	DestinationCompanyReserve AllocationDestination = "COMPANY_RESERVE"
	DestinationExecutivePool  AllocationDestination = "EXECUTIVE_POOL"
	DestinationStrategyPool   AllocationDestination = "STRATEGY_POOL"
)

// StrategyPoolType identifies one of the fixed strategic pools.
type StrategyPoolType string

const (
	StrategyPoolLeadership StrategyPoolType = "LEADERSHIP"
	StrategyPoolState      StrategyPoolType = "STATE"
	StrategyPoolDirectors  StrategyPoolType = "DIRECTORS"
	StrategyPoolTechnology StrategyPoolType = "TECHNOLOGY"
	StrategyPoolInvestors  StrategyPoolType = "INVESTORS"
)

// StrategyPoolTypes lists the five strategic pools in allocation order.
var StrategyPoolTypes = []StrategyPoolType{
	StrategyPoolLeadership,
	StrategyPoolState,
	StrategyPoolDirectors,
	StrategyPoolTechnology,
	StrategyPoolInvestors,
}

// Allocation percentages. They must add up to 100.
var (
	CompanyReservePercent = decimal.NewFromInt(50)
	ExecutivePoolPercent  = decimal.NewFromInt(30)
	StrategyPoolPercent   = decimal.NewFromInt(4)
)

// RevenueTransaction is one recognised revenue event.
type RevenueTransaction struct {
	ID               uuid.UUID            `json:"id"`
	Source           RevenueSource        `json:"source"`
	Amount           decimal.Decimal      `json:"amount"`
	Currency         Currency             `json:"currency"`
	SourceID         null.String          `json:"sourceId"`
	Description      null.String          `json:"description"`
	AllocationStatus AllocationStatus     `json:"allocationStatus"`
	AllocatedAt      null.Time            `json:"allocatedAt"`
	CreatedAt        time.Time            `json:"createdAt"`
	Allocations      []*RevenueAllocation `json:"allocations,omitempty"`
}

// RevenueAllocation is one destination's share of a revenue transaction.
type RevenueAllocation struct {
	ID                   uuid.UUID             `json:"id"`
	RevenueTransactionID uuid.UUID             `json:"revenueTransactionId"`
	DestinationType      AllocationDestination `json:"destinationType"`
	StrategyPoolType     *StrategyPoolType     `json:"strategyPoolType,omitempty"`
	Amount               decimal.Decimal       `json:"amount"`
	Percentage           decimal.Decimal       `json:"percentage"`
	Status               AllocationStatus      `json:"status"`
	CreatedAt            time.Time             `json:"createdAt"`
}

// AllocationShare is one line of an allocation plan.
type AllocationShare struct {
	Destination AllocationDestination
	Pool        *StrategyPoolType
	Percentage  decimal.Decimal
	Amount      decimal.Decimal
	Status      AllocationStatus
}

// BuildAllocationPlan splits amount into company reserve, executive pool and
// the five strategic pools. The shares always sum exactly to amount.
func BuildAllocationPlan(amount decimal.Decimal) ([]AllocationShare, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("allocation amount must be positive, got %s", amount.String())
	}

	hundred := decimal.NewFromInt(100)
	plan := make([]AllocationShare, 0, 2+len(StrategyPoolTypes))
	plan = append(plan, AllocationShare{
		Destination: DestinationCompanyReserve,
		Percentage:  CompanyReservePercent,
		Amount:      amount.Mul(CompanyReservePercent).Div(hundred),
		Status:      AllocationStatusAllocated,
	})
	plan = append(plan, AllocationShare{
		Destination: DestinationExecutivePool,
		Percentage:  ExecutivePoolPercent,
		Amount:      amount.Mul(ExecutivePoolPercent).Div(hundred),
		Status:      AllocationStatusPending,
	})
	for i := range StrategyPoolTypes {
		pool := StrategyPoolTypes[i]
		plan = append(plan, AllocationShare{
			Destination: DestinationStrategyPool,
			Pool:        &pool,
			Percentage:  StrategyPoolPercent,
			Amount:      amount.Mul(StrategyPoolPercent).Div(hundred),
			Status:      AllocationStatusPending,
		})
	}

	total := decimal.Zero
	for _, s := range plan {
		total = total.Add(s.Amount)
	}
	if !total.Equal(amount) {
		return nil, fmt.Errorf("allocation plan does not conserve amount: %s != %s", total.String(), amount.String())
	}
	return plan, nil
}

// RecordRevenueInput is the input of RecordRevenue.
type RecordRevenueInput struct {
	Source      RevenueSource   `json:"source" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    Currency        `json:"currency"`
	SourceID    string          `json:"sourceId"`
	Description string          `json:"description"`
}
