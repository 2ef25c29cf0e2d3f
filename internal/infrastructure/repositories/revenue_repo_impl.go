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
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// RevenueRepository implements revenue recording operations
type RevenueRepository struct {
	db *gorm.DB
}

// NewRevenueRepository creates a new revenue repository
func NewRevenueRepository(db *gorm.DB) *RevenueRepository {
	return &RevenueRepository{db: db}
}

// ExistsBySourceID reports whether revenue was already recorded for sourceID
func (r *RevenueRepository) ExistsBySourceID(ctx context.Context, sourceID string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.RevenueTransaction{}).
		Where("source_id = ?", sourceID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a revenue transaction; the unique index on source_id is the final duplicate guard
func (r *RevenueRepository) Create(ctx context.Context, rev *entities.RevenueTransaction) error {
	if rev.ID == uuid.Nil {
		rev.ID = utils.GenerateUUIDv7()
	}
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = time.Now()
	}

	m := &models.RevenueTransaction{
		ID:               rev.ID,
		Source:           string(rev.Source),
		Amount:           rev.Amount,
		Currency:         string(rev.Currency),
		SourceID:         rev.SourceID.Ptr(),
		Description:      rev.Description.Ptr(),
		AllocationStatus: string(rev.AllocationStatus),
		AllocatedAt:      rev.AllocatedAt.Ptr(),
		CreatedAt:        rev.CreatedAt,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKeyError(err) {
			return domainerrors.ErrRevenueAlreadyRecorded
		}
		return err
	}
	return nil
}

// CreateAllocations inserts the allocation rows of one revenue transaction
func (r *RevenueRepository) CreateAllocations(ctx context.Context, allocations []*entities.RevenueAllocation) error {
	if len(allocations) == 0 {
		return nil
	}
	now := time.Now()
	ms := make([]models.RevenueAllocation, 0, len(allocations))
	for _, a := range allocations {
		if a.ID == uuid.Nil {
			a.ID = utils.GenerateUUIDv7()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		var pool *string
		if a.StrategyPoolType != nil {
			p := string(*a.StrategyPoolType)
			pool = &p
		}
		ms = append(ms, models.RevenueAllocation{
			ID:                   a.ID,
			RevenueTransactionID: a.RevenueTransactionID,
			DestinationType:      string(a.DestinationType),
			StrategyPoolType:     pool,
			Amount:               a.Amount,
			Percentage:           a.Percentage,
			Status:               string(a.Status),
			CreatedAt:            a.CreatedAt,
		})
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(&ms).Error
}

// MarkAllocated flips a revenue transaction to ALLOCATED
func (r *RevenueRepository) MarkAllocated(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.RevenueTransaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"allocation_status": string(entities.AllocationStatusAllocated),
			"allocated_at":      at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// GetByID gets a revenue transaction with its allocations
func (r *RevenueRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.RevenueTransaction, error) {
	var m models.RevenueTransaction
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Allocations", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toRevenueEntity(&m), nil
}

// List returns revenue transactions newest first
func (r *RevenueRepository) List(ctx context.Context, limit, offset int) ([]*entities.RevenueTransaction, int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var total int64
	if err := db.Model(&models.RevenueTransaction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.RevenueTransaction
	q := db.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*entities.RevenueTransaction, 0, len(ms))
	for i := range ms {
		out = append(out, toRevenueEntity(&ms[i]))
	}
	return out, total, nil
}

func toRevenueEntity(m *models.RevenueTransaction) *entities.RevenueTransaction {
	rev := &entities.RevenueTransaction{
		ID:               m.ID,
		Source:           entities.RevenueSource(m.Source),
		Amount:           m.Amount,
		Currency:         entities.Currency(m.Currency),
		SourceID:         null.StringFromPtr(m.SourceID),
		Description:      null.StringFromPtr(m.Description),
		AllocationStatus: entities.AllocationStatus(m.AllocationStatus),
		AllocatedAt:      null.TimeFromPtr(m.AllocatedAt),
		CreatedAt:        m.CreatedAt,
	}
	for i := range m.Allocations {
		a := m.Allocations[i]
		alloc := &entities.RevenueAllocation{
			ID:                   a.ID,
			RevenueTransactionID: a.RevenueTransactionID,
			DestinationType:      entities.AllocationDestination(a.DestinationType),
			Amount:               a.Amount,
			Percentage:           a.Percentage,
			Status:               entities.AllocationStatus(a.Status),
			CreatedAt:            a.CreatedAt,
		}
		if a.StrategyPoolType != nil {
			p := entities.StrategyPoolType(*a.StrategyPoolType)
			alloc.StrategyPoolType = &p
		}
		rev.Allocations = append(rev.Allocations, alloc)
	}
	return rev
}
