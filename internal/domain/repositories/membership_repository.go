package repositories

import (
	"context"

	"bpi.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// MembershipPackageRepository defines membership package operations
type MembershipPackageRepository interface {
	Create(ctx context.Context, pkg *entities.MembershipPackage) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.MembershipPackage, error)
	ListActive(ctx context.Context) ([]*entities.MembershipPackage, error)
}
