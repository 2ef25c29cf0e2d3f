package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleUser  UserRole = "USER"
)

// WalletType names one of the balance columns carried on a user.
type WalletType string

const (
	WalletMain        WalletType = "wallet"
	WalletSpendable   WalletType = "spendable"
	WalletCashback    WalletType = "cashback"
	WalletShareholder WalletType = "shareholder"
	WalletCommunity   WalletType = "community"
	WalletPalliative  WalletType = "palliative"
)

// WalletTypes lists every sub-wallet in display order.
var WalletTypes = []WalletType{
	WalletMain,
	WalletSpendable,
	WalletCashback,
	WalletShareholder,
	WalletCommunity,
	WalletPalliative,
}

// IsValid reports whether w is a known sub-wallet.
func (w WalletType) IsValid() bool {
	for _, t := range WalletTypes {
		if t == w {
			return true
		}
	}
	return false
}

// CanReceiveInterWallet reports whether funds may be moved into w from another sub-wallet.
func (w WalletType) CanReceiveInterWallet() bool {
	return w == WalletMain || w == WalletSpendable
}

// User represents a user entity
type User struct {
	ID                        uuid.UUID       `json:"id"`
	Email                     string          `json:"email"`
	Name                      string          `json:"name"`
	Phone                     string          `json:"phone,omitempty"`
	Role                      UserRole        `json:"role"`
	Wallet                    decimal.Decimal `json:"wallet"`
	Spendable                 decimal.Decimal `json:"spendable"`
	Cashback                  decimal.Decimal `json:"cashback"`
	Shareholder               decimal.Decimal `json:"shareholder"`
	Community                 decimal.Decimal `json:"community"`
	Palliative                decimal.Decimal `json:"palliative"`
	TransactionPinHash        null.String     `json:"-"`
	ActiveMembershipPackageID *uuid.UUID      `json:"activeMembershipPackageId,omitempty"`
	MembershipActivatedAt     null.Time       `json:"membershipActivatedAt"`
	MembershipExpiresAt       null.Time       `json:"membershipExpiresAt"`
	CreatedAt                 time.Time       `json:"createdAt"`
	UpdatedAt                 time.Time       `json:"updatedAt"`
}

// Balance returns the balance held in the given sub-wallet.
func (u *User) Balance(w WalletType) decimal.Decimal {
	switch w {
	case WalletMain:
		return u.Wallet
	case WalletSpendable:
		return u.Spendable
	case WalletCashback:
		return u.Cashback
	case WalletShareholder:
		return u.Shareholder
	case WalletCommunity:
		return u.Community
	case WalletPalliative:
		return u.Palliative
	}
	return decimal.Zero
}

// Balances returns every sub-wallet keyed by name.
func (u *User) Balances() map[WalletType]decimal.Decimal {
	out := make(map[WalletType]decimal.Decimal, len(WalletTypes))
	for _, w := range WalletTypes {
		out[w] = u.Balance(w)
	}
	return out
}

// HasTransactionPin reports whether withdrawals and transfers need a PIN.
func (u *User) HasTransactionPin() bool {
	return u.TransactionPinHash.Valid && u.TransactionPinHash.String != ""
}
