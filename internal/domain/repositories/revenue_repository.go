package repositories

import (
	"context"
	"time"

	"bpi.backend/internal/domain/entities"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RevenueRepository defines revenue recording operations
type RevenueRepository interface {
	ExistsBySourceID(ctx context.Context, sourceID string) (bool, error)
	// Create returns ErrRevenueAlreadyRecorded when the source id is already taken.
	Create(ctx context.Context, rev *entities.RevenueTransaction) error
	CreateAllocations(ctx context.Context, allocations []*entities.RevenueAllocation) error
	MarkAllocated(ctx context.Context, id uuid.UUID, at time.Time) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.RevenueTransaction, error)
	List(ctx context.Context, limit, offset int) ([]*entities.RevenueTransaction, int64, error)
}

// PoolRepository defines aggregate balance operations
type PoolRepository interface {
	// IncrementCompanyReserve creates the reserve row on first use.
	IncrementCompanyReserve(ctx context.Context, amount decimal.Decimal) error
	// IncrementStrategyPool creates the pool row on first use.
	IncrementStrategyPool(ctx context.Context, pool entities.StrategyPoolType, amount decimal.Decimal) error
	IncrementExecutivePending(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	GetCompanyReserve(ctx context.Context) (*entities.CompanyReserve, error)
	ListStrategyPools(ctx context.Context) ([]*entities.StrategyPool, error)
	ListExecutives(ctx context.Context, activeOnly bool) ([]*entities.ExecutiveShareholder, error)
	UpsertExecutive(ctx context.Context, exec *entities.ExecutiveShareholder) error
	// PendingExecutiveTotal sums executive pool allocations that are still pending.
	PendingExecutiveTotal(ctx context.Context) (decimal.Decimal, error)
}
