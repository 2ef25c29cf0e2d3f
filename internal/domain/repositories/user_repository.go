package repositories

import (
	"context"
	"time"

	"bpi.backend/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	// DebitWallet subtracts amount only when the sub-wallet holds at least amount.
	// It returns ErrUserNotFound or *InsufficientBalanceError otherwise.
	DebitWallet(ctx context.Context, id uuid.UUID, wallet entities.WalletType, amount decimal.Decimal) (decimal.Decimal, error)
	CreditWallet(ctx context.Context, id uuid.UUID, wallet entities.WalletType, amount decimal.Decimal) (decimal.Decimal, error)
	UpdateMembership(ctx context.Context, id uuid.UUID, packageID uuid.UUID, activatedAt, expiresAt time.Time) error
	SetTransactionPin(ctx context.Context, id uuid.UUID, pinHash string) error
}

// BankAccountRepository defines saved payout account operations
type BankAccountRepository interface {
	Create(ctx context.Context, account *entities.BankAccount) error
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*entities.BankAccount, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.BankAccount, error)
}
