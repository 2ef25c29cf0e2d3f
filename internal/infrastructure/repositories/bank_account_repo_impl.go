package repositories

import (
	"context"
	"errors"
	"time"

	"bpi.backend/internal/domain/entities"
	domainerrors "bpi.backend/internal/domain/errors"
	"bpi.backend/internal/infrastructure/models"
	"bpi.backend/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BankAccountRepository implements saved payout account operations
type BankAccountRepository struct {
	db *gorm.DB
}

// NewBankAccountRepository creates a new bank account repository
func NewBankAccountRepository(db *gorm.DB) *BankAccountRepository {
	return &BankAccountRepository{db: db}
}

// Create saves a bank account
func (r *BankAccountRepository) Create(ctx context.Context, account *entities.BankAccount) error {
	if account.ID == uuid.Nil {
		account.ID = utils.GenerateUUIDv7()
	}
	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	m := &models.BankAccount{
		ID:            account.ID,
		UserID:        account.UserID,
		BankName:      account.BankName,
		BankCode:      account.BankCode,
		AccountNumber: account.AccountNumber,
		AccountName:   account.AccountName,
		IsDefault:     account.IsDefault,
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     now,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetByIDForUser returns the account only when it belongs to userID
func (r *BankAccountRepository) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*entities.BankAccount, error) {
	var m models.BankAccount
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toBankAccountEntity(&m), nil
}

// ListByUser lists a user's accounts, default first
func (r *BankAccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.BankAccount, error) {
	var ms []models.BankAccount
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.BankAccount, 0, len(ms))
	for i := range ms {
		out = append(out, toBankAccountEntity(&ms[i]))
	}
	return out, nil
}

func toBankAccountEntity(m *models.BankAccount) *entities.BankAccount {
	return &entities.BankAccount{
		ID:            m.ID,
		UserID:        m.UserID,
		BankName:      m.BankName,
		BankCode:      m.BankCode,
		AccountNumber: m.AccountNumber,
		AccountName:   m.AccountName,
		IsDefault:     m.IsDefault,
		CreatedAt:     m.CreatedAt,
	}
}
