package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bpi.backend/internal/domain/entities"
	domainerrors "bpi.backend/internal/domain/errors"
	"bpi.backend/internal/infrastructure/models"
	"bpi.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	now := time.Now()
	if user.ID == uuid.Nil {
		user.ID = utils.GenerateUUIDv7()
	}
	if user.Role == "" {
		user.Role = entities.UserRoleUser
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	m := &models.User{
		ID:                        user.ID,
		Email:                     strings.ToLower(strings.TrimSpace(user.Email)),
		Name:                      user.Name,
		Phone:                     user.Phone,
		Role:                      string(user.Role),
		Wallet:                    user.Wallet,
		Spendable:                 user.Spendable,
		Cashback:                  user.Cashback,
		Shareholder:               user.Shareholder,
		Community:                 user.Community,
		Palliative:                user.Palliative,
		TransactionPinHash:        user.TransactionPinHash.Ptr(),
		ActiveMembershipPackageID: user.ActiveMembershipPackageID,
		MembershipActivatedAt:     user.MembershipActivatedAt.Ptr(),
		MembershipExpiresAt:       user.MembershipExpiresAt.Ptr(),
		CreatedAt:                 user.CreatedAt,
		UpdatedAt:                 user.UpdatedAt,
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKeyError(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	m, err := r.findModel(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	return r.toEntity(m), nil
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	m, err := r.findModel(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	return r.toEntity(m), nil
}

func (r *UserRepository) findModel(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var m models.User
	db := lockForUpdate(ctx, GetDB(ctx, r.db).WithContext(ctx))
	if err := db.Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// DebitWallet applies a conditional decrement so the balance can never go negative,
// whatever the number of concurrent writers.
func (r *UserRepository) DebitWallet(ctx context.Context, id uuid.UUID, wallet entities.WalletType, amount decimal.Decimal) (decimal.Decimal, error) {
	col, ok := models.WalletColumn(string(wallet))
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unknown wallet %q", domainerrors.ErrInvalidInput, wallet)
	}
	if !amount.IsPositive() {
		return decimal.Zero, domainerrors.ErrInvalidAmount
	}

	res := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND "+col+" >= ?", id, amount).
		Updates(map[string]interface{}{
			col:          gorm.Expr(col+" - ?", amount),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return decimal.Zero, res.Error
	}

	m, err := r.findModel(ctx, "id = ?", id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return decimal.Zero, domainerrors.ErrUserNotFound
		}
		return decimal.Zero, err
	}
	balance := r.toEntity(m).Balance(wallet)
	if res.RowsAffected == 0 {
		return balance, &domainerrors.InsufficientBalanceError{Available: balance, Required: amount}
	}
	return balance, nil
}

// CreditWallet increments a sub-wallet and returns the new balance.
func (r *UserRepository) CreditWallet(ctx context.Context, id uuid.UUID, wallet entities.WalletType, amount decimal.Decimal) (decimal.Decimal, error) {
	col, ok := models.WalletColumn(string(wallet))
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unknown wallet %q", domainerrors.ErrInvalidInput, wallet)
	}
	if !amount.IsPositive() {
		return decimal.Zero, domainerrors.ErrInvalidAmount
	}

	res := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			col:          gorm.Expr(col+" + ?", amount),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	if res.RowsAffected == 0 {
		return decimal.Zero, domainerrors.ErrUserNotFound
	}

	m, err := r.findModel(ctx, "id = ?", id)
	if err != nil {
		return decimal.Zero, err
	}
	return r.toEntity(m).Balance(wallet), nil
}

// UpdateMembership stores the active package and its validity window
func (r *UserRepository) UpdateMembership(ctx context.Context, id uuid.UUID, packageID uuid.UUID, activatedAt, expiresAt time.Time) error {
	res := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active_membership_package_id": packageID,
			"membership_activated_at":      activatedAt,
			"membership_expires_at":        expiresAt,
			"updated_at":                   time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

// SetTransactionPin stores a bcrypt hash of the user's transaction PIN
func (r *UserRepository) SetTransactionPin(ctx context.Context, id uuid.UUID, pinHash string) error {
	res := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"transaction_pin_hash": pinHash,
			"updated_at":           time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) toEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:                        m.ID,
		Email:                     m.Email,
		Name:                      m.Name,
		Phone:                     m.Phone,
		Role:                      entities.UserRole(m.Role),
		Wallet:                    m.Wallet,
		Spendable:                 m.Spendable,
		Cashback:                  m.Cashback,
		Shareholder:               m.Shareholder,
		Community:                 m.Community,
		Palliative:                m.Palliative,
		TransactionPinHash:        null.StringFromPtr(m.TransactionPinHash),
		ActiveMembershipPackageID: m.ActiveMembershipPackageID,
		MembershipActivatedAt:     null.TimeFromPtr(m.MembershipActivatedAt),
		MembershipExpiresAt:       null.TimeFromPtr(m.MembershipExpiresAt),
		CreatedAt:                 m.CreatedAt,
		UpdatedAt:                 m.UpdatedAt,
	}
}
