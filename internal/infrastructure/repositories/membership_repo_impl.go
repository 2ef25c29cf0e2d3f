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

// MembershipPackageRepository implements membership package operations
type MembershipPackageRepository struct {
	db *gorm.DB
}

// NewMembershipPackageRepository creates a new membership package repository
func NewMembershipPackageRepository(db *gorm.DB) *MembershipPackageRepository {
	return &MembershipPackageRepository{db: db}
}

// Create stores a package
func (r *MembershipPackageRepository) Create(ctx context.Context, pkg *entities.MembershipPackage) error {
	now := time.Now()
	if pkg.ID == uuid.Nil {
		pkg.ID = utils.GenerateUUIDv7()
	}
	if pkg.CreatedAt.IsZero() {
		pkg.CreatedAt = now
	}
	pkg.UpdatedAt = now
	return GetDB(ctx, r.db).WithContext(ctx).Create(&models.MembershipPackage{
		ID:           pkg.ID,
		Name:         pkg.Name,
		Price:        pkg.Price,
		RenewalPrice: pkg.RenewalPrice,
		DurationDays: pkg.DurationDays,
		IsActive:     pkg.IsActive,
		CreatedAt:    pkg.CreatedAt,
		UpdatedAt:    pkg.UpdatedAt,
	}).Error
}

// GetByID gets a package by ID
func (r *MembershipPackageRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.MembershipPackage, error) {
	var m models.MembershipPackage
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toPackageEntity(&m), nil
}

// ListActive lists packages that can be purchased, cheapest first
func (r *MembershipPackageRepository) ListActive(ctx context.Context) ([]*entities.MembershipPackage, error) {
	var ms []models.MembershipPackage
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("is_active = ?", true).Order("price ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.MembershipPackage, 0, len(ms))
	for i := range ms {
		out = append(out, toPackageEntity(&ms[i]))
	}
	return out, nil
}

func toPackageEntity(m *models.MembershipPackage) *entities.MembershipPackage {
	return &entities.MembershipPackage{
		ID:           m.ID,
		Name:         m.Name,
		Price:        m.Price,
		RenewalPrice: m.RenewalPrice,
		DurationDays: m.DurationDays,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
