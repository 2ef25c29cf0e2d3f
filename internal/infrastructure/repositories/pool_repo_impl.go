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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PoolRepository implements aggregate balance operations
type PoolRepository struct {
	db *gorm.DB
}

// NewPoolRepository creates a new pool repository
func NewPoolRepository(db *gorm.DB) *PoolRepository {
	return &PoolRepository{db: db}
}

// IncrementCompanyReserve upserts the MAIN reserve row and adds amount to it
func (r *PoolRepository) IncrementCompanyReserve(ctx context.Context, amount decimal.Decimal) error {
	now := time.Now()
	m := &models.CompanyReserve{
		ID:            utils.GenerateUUIDv7(),
		Code:          entities.CompanyReserveCode,
		Balance:       amount,
		TotalReceived: amount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance":        gorm.Expr("company_reserves.balance + ?", amount),
			"total_received": gorm.Expr("company_reserves.total_received + ?", amount),
			"updated_at":     now,
		}),
	}).Create(m).Error
}

// IncrementStrategyPool upserts a strategic pool row and adds amount to it
func (r *PoolRepository) IncrementStrategyPool(ctx context.Context, pool entities.StrategyPoolType, amount decimal.Decimal) error {
	now := time.Now()
	m := &models.StrategyPool{
		ID:            utils.GenerateUUIDv7(),
		PoolType:      string(pool),
		Balance:       amount,
		TotalReceived: amount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "pool_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance":        gorm.Expr("strategy_pools.balance + ?", amount),
			"total_received": gorm.Expr("strategy_pools.total_received + ?", amount),
			"updated_at":     now,
		}),
	}).Create(m).Error
}

// IncrementExecutivePending adds amount to a shareholder's pending balance
func (r *PoolRepository) IncrementExecutivePending(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	res := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.ExecutiveShareholder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"pending_balance": gorm.Expr("pending_balance + ?", amount),
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// GetCompanyReserve returns the MAIN reserve row
func (r *PoolRepository) GetCompanyReserve(ctx context.Context) (*entities.CompanyReserve, error) {
	var m models.CompanyReserve
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("code = ?", entities.CompanyReserveCode).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.CompanyReserve{
		ID:            m.ID,
		Code:          m.Code,
		Balance:       m.Balance,
		TotalReceived: m.TotalReceived,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

// ListStrategyPools returns every strategic pool row
func (r *PoolRepository) ListStrategyPools(ctx context.Context) ([]*entities.StrategyPool, error) {
	var ms []models.StrategyPool
	if err := GetDB(ctx, r.db).WithContext(ctx).Order("pool_type ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.StrategyPool, 0, len(ms))
	for _, m := range ms {
		out = append(out, &entities.StrategyPool{
			ID:            m.ID,
			PoolType:      entities.StrategyPoolType(m.PoolType),
			Balance:       m.Balance,
			TotalReceived: m.TotalReceived,
			UpdatedAt:     m.UpdatedAt,
		})
	}
	return out, nil
}

// ListExecutives returns executive shareholders ordered by role
func (r *PoolRepository) ListExecutives(ctx context.Context, activeOnly bool) ([]*entities.ExecutiveShareholder, error) {
	q := lockForUpdate(ctx, GetDB(ctx, r.db).WithContext(ctx))
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var ms []models.ExecutiveShareholder
	if err := q.Order("role ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.ExecutiveShareholder, 0, len(ms))
	for _, m := range ms {
		out = append(out, &entities.ExecutiveShareholder{
			ID:             m.ID,
			Role:           m.Role,
			UserID:         m.UserID,
			Percentage:     m.Percentage,
			PendingBalance: m.PendingBalance,
			TotalEarned:    m.TotalEarned,
			IsActive:       m.IsActive,
			UpdatedAt:      m.UpdatedAt,
		})
	}
	return out, nil
}

// UpsertExecutive creates or updates a shareholder keyed by role
func (r *PoolRepository) UpsertExecutive(ctx context.Context, exec *entities.ExecutiveShareholder) error {
	now := time.Now()
	if exec.ID == uuid.Nil {
		exec.ID = utils.GenerateUUIDv7()
	}
	m := &models.ExecutiveShareholder{
		ID:         exec.ID,
		Role:       exec.Role,
		UserID:     exec.UserID,
		Percentage: exec.Percentage,
		IsActive:   exec.IsActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return GetDB(ctx, r.db).WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "role"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"user_id":    exec.UserID,
			"percentage": exec.Percentage,
			"is_active":  exec.IsActive,
			"updated_at": now,
		}),
	}).Create(m).Error
}

// PendingExecutiveTotal sums executive allocations awaiting distribution
func (r *PoolRepository) PendingExecutiveTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.RevenueAllocation{}).
		Select("SUM(amount)").
		Where("destination_type = ? AND status = ?",
			string(entities.DestinationExecutivePool), string(entities.AllocationStatusPending)).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
