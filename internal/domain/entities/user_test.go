package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func TestUser_Balance(t *testing.T) {
	u := &User{
		Wallet:      decimal.NewFromInt(10),
		Spendable:   decimal.NewFromInt(20),
		Cashback:    decimal.NewFromInt(30),
		Shareholder: decimal.NewFromInt(40),
		Community:   decimal.NewFromInt(50),
		Palliative:  decimal.NewFromInt(60),
	}

	assert.True(t, u.Balance(WalletMain).Equal(decimal.NewFromInt(10)))
	assert.True(t, u.Balance(WalletPalliative).Equal(decimal.NewFromInt(60)))
	assert.True(t, u.Balance(WalletType("bogus")).IsZero())
	assert.Len(t, u.Balances(), len(WalletTypes))
}

func TestWalletType_Rules(t *testing.T) {
	assert.True(t, WalletCashback.IsValid())
	assert.False(t, WalletType("savings").IsValid())

	assert.True(t, WalletMain.CanReceiveInterWallet())
	assert.True(t, WalletSpendable.CanReceiveInterWallet())
	assert.False(t, WalletCashback.CanReceiveInterWallet())
}

func TestUser_HasTransactionPin(t *testing.T) {
	u := &User{}
	assert.False(t, u.HasTransactionPin())
	u.TransactionPinHash = null.StringFrom("$2a$10$abc")
	assert.True(t, u.HasTransactionPin())
}

func TestTransactionStatus_IsTerminal(t *testing.T) {
	assert.False(t, TransactionStatusPending.IsTerminal())
	assert.True(t, TransactionStatusCompleted.IsTerminal())
	assert.True(t, TransactionStatusFailed.IsTerminal())
	assert.True(t, TransactionStatusSuccess.IsTerminal())
}
