package usecases

import (
	"context"

	"github.com/google/uuid"

	"bpi.backend/internal/domain/entities"
	domainerrors "bpi.backend/internal/domain/errors"
	"bpi.backend/internal/domain/repositories"
	"bpi.backend/pkg/utils"
)

// DashboardUsecase serves the user's wallet history
type DashboardUsecase struct {
	transactionRepo repositories.TransactionRepository
}

// NewDashboardUsecase creates a new dashboard usecase
func NewDashboardUsecase(transactionRepo repositories.TransactionRepository) *DashboardUsecase {
	return &DashboardUsecase{transactionRepo: transactionRepo}
}

// GetWalletTimeline pages the user's transactions newest first
func (u *DashboardUsecase) GetWalletTimeline(ctx context.Context, userID uuid.UUID, filter entities.TimelineFilter) ([]*entities.Transaction, utils.PaginationMeta, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, utils.PaginationMeta{}, domainerrors.BadRequest("'to' must not be before 'from'")
	}
	if filter.MinAmount != nil && filter.MaxAmount != nil && filter.MaxAmount.LessThan(*filter.MinAmount) {
		return nil, utils.PaginationMeta{}, domainerrors.BadRequest("maxAmount must not be below minAmount")
	}

	p := utils.NewPage(filter.Page, filter.Limit, TimelinePageBounds)
	items, total, err := u.transactionRepo.ListByUser(ctx, userID, filter, p.Size, p.Offset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return items, p.Meta(total), nil
}
