package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MembershipPackage is a purchasable membership tier.
type MembershipPackage struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	RenewalPrice decimal.Decimal `json:"renewalPrice"`
	DurationDays int             `json:"durationDays"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Duration returns the validity period granted by one purchase.
func (p *MembershipPackage) Duration() time.Duration {
	return time.Duration(p.DurationDays) * 24 * time.Hour
}

// PurchaseMembershipInput represents input for buying or renewing a package
type PurchaseMembershipInput struct {
	PackageID uuid.UUID `json:"packageId" binding:"required"`
}

// EmpowerInput buys a package on behalf of another user.
type EmpowerInput struct {
	PackageID        uuid.UUID `json:"packageId" binding:"required"`
	BeneficiaryEmail string    `json:"beneficiaryEmail" binding:"required"`
}

// MembershipResult is returned after a successful membership payment.
type MembershipResult struct {
	Payment   *PaymentResult     `json:"payment"`
	RevenueID uuid.UUID          `json:"revenueId"`
	Package   *MembershipPackage `json:"package"`
	ExpiresAt time.Time          `json:"expiresAt"`
	UserID    uuid.UUID          `json:"userId"`
}
