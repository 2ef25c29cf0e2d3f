package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"bpi.backend/internal/domain/entities"
	domainerrors "bpi.backend/internal/domain/errors"
	"bpi.backend/internal/domain/repositories"
	"bpi.backend/internal/infrastructure/metrics"
	"bpi.backend/pkg/logger"
	"bpi.backend/pkg/utils"
)

// moneyScale is the precision of every stored money column.
const moneyScale = 6

// revenueAmountScale leaves room for two more digits in the percentage shares.
const revenueAmountScale = moneyScale - 2

// RevenueUsecase records revenue and splits it across the reserve and pools
type RevenueUsecase struct {
	revenueRepo repositories.RevenueRepository
	poolRepo    repositories.PoolRepository
	audit       *AuditUsecase
	uow         repositories.UnitOfWork
}

// NewRevenueUsecase creates a new revenue usecase
func NewRevenueUsecase(
	revenueRepo repositories.RevenueRepository,
	poolRepo repositories.PoolRepository,
	audit *AuditUsecase,
	uow repositories.UnitOfWork,
) *RevenueUsecase {
	return &RevenueUsecase{
		revenueRepo: revenueRepo,
		poolRepo:    poolRepo,
		audit:       audit,
		uow:         uow,
	}
}

func invalidAmountError() error {
	return domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeInvalidInput, domainerrors.ErrInvalidAmount.Error(), domainerrors.ErrInvalidAmount)
}

func validateRevenueInput(input *entities.RecordRevenueInput) error {
	if !input.Amount.IsPositive() {
		return invalidAmountError()
	}
	// the smallest share is 4%, which must still fit the stored scale
	if !input.Amount.Equal(input.Amount.Round(revenueAmountScale)) {
		return domainerrors.BadRequest(fmt.Sprintf("amount must have at most %d decimal places", revenueAmountScale))
	}
	if !input.Source.IsValid() {
		return domainerrors.BadRequest("unknown revenue source: " + string(input.Source))
	}
	input.Currency = entities.Currency(strings.ToUpper(string(input.Currency)))
	switch input.Currency {
	case "":
		input.Currency = entities.CurrencyNGN
	case entities.CurrencyNGN, entities.CurrencyUSD:
	default:
		return domainerrors.BadRequest("unsupported currency: " + string(input.Currency))
	}
	input.SourceID = strings.TrimSpace(input.SourceID)
	return nil
}

// RecordRevenue records one revenue event and allocates it atomically.
// Called inside an existing unit of work it joins that transaction.
func (u *RevenueUsecase) RecordRevenue(ctx context.Context, input entities.RecordRevenueInput) (*entities.RevenueTransaction, error) {
	if err := validateRevenueInput(&input); err != nil {
		return nil, err
	}
	plan, err := entities.BuildAllocationPlan(input.Amount)
	if err != nil {
		return nil, err
	}

	var rev *entities.RevenueTransaction
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if input.SourceID != "" {
			exists, err := u.revenueRepo.ExistsBySourceID(txCtx, input.SourceID)
			if err != nil {
				return err
			}
			if exists {
				return domainerrors.ErrRevenueAlreadyRecorded
			}
		}

		rev = &entities.RevenueTransaction{
			Source:           input.Source,
			Amount:           input.Amount,
			Currency:         input.Currency,
			AllocationStatus: entities.AllocationStatusPending,
		}
		if input.SourceID != "" {
			rev.SourceID = null.StringFrom(input.SourceID)
		}
		if input.Description != "" {
			rev.Description = null.StringFrom(input.Description)
		}
		if err := u.revenueRepo.Create(txCtx, rev); err != nil {
			return err
		}

		allocations := make([]*entities.RevenueAllocation, 0, len(plan))
		for _, share := range plan {
			allocations = append(allocations, &entities.RevenueAllocation{
				RevenueTransactionID: rev.ID,
				DestinationType:      share.Destination,
				StrategyPoolType:     share.Pool,
				Amount:               share.Amount,
				Percentage:           share.Percentage,
				Status:               share.Status,
			})
		}
		if err := u.revenueRepo.CreateAllocations(txCtx, allocations); err != nil {
			return err
		}

		for _, share := range plan {
			switch share.Destination {
			case entities.DestinationCompanyReserve:
				err = u.poolRepo.IncrementCompanyReserve(txCtx, share.Amount)
			case entities.DestinationStrategyPool:
				err = u.poolRepo.IncrementStrategyPool(txCtx, *share.Pool, share.Amount)
			case entities.DestinationExecutivePool:
				err = u.creditExecutives(txCtx, share.Amount)
			}
			if err != nil {
				return err
			}
		}

		at := nowFunc()
		if err := u.revenueRepo.MarkAllocated(txCtx, rev.ID, at); err != nil {
			return err
		}
		rev.AllocationStatus = entities.AllocationStatusAllocated
		rev.AllocatedAt = null.TimeFrom(at)
		rev.Allocations = allocations
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrRevenueAlreadyRecorded) {
			logger.Warn(ctx, "Revenue already recorded", zap.String("source_id", input.SourceID))
		} else {
			logger.Error(ctx, "Failed to record revenue",
				zap.String("source", string(input.Source)),
				zap.String("amount", input.Amount.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	metrics.RevenueRecordedTotal.WithLabelValues(string(input.Source)).Inc()
	logger.Info(ctx, "Revenue recorded",
		zap.String("revenue_id", rev.ID.String()),
		zap.String("source", string(rev.Source)),
		zap.String("source_id", input.SourceID),
		zap.String("amount", rev.Amount.String()),
	)
	return rev, nil
}

// creditExecutives spreads amount over active shareholders by percentage.
// The last holder absorbs the rounding remainder.
func (u *RevenueUsecase) creditExecutives(ctx context.Context, amount decimal.Decimal) error {
	execs, err := u.poolRepo.ListExecutives(ctx, true)
	if err != nil {
		return err
	}
	shares := splitExecutiveShares(execs, amount)
	for i, exec := range execs {
		if shares[i].IsZero() {
			continue
		}
		if err := u.poolRepo.IncrementExecutivePending(ctx, exec.ID, shares[i]); err != nil {
			return err
		}
	}
	return nil
}

func splitExecutiveShares(execs []*entities.ExecutiveShareholder, amount decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(execs))
	totalPct := decimal.Zero
	last := -1
	for i, e := range execs {
		if e.Percentage.IsPositive() {
			totalPct = totalPct.Add(e.Percentage)
			last = i
		}
	}
	if last < 0 {
		return out
	}

	given := decimal.Zero
	for i, e := range execs {
		if !e.Percentage.IsPositive() {
			continue
		}
		if i == last {
			out[i] = amount.Sub(given)
			break
		}
		out[i] = amount.Mul(e.Percentage).Div(totalPct).RoundDown(moneyScale)
		given = given.Add(out[i])
	}
	return out
}

// RecordManualRevenue records revenue entered by an admin and audits it
func (u *RevenueUsecase) RecordManualRevenue(ctx context.Context, adminID uuid.UUID, input entities.RecordRevenueInput) (*entities.RevenueTransaction, error) {
	var rev *entities.RevenueTransaction
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		rev, err = u.RecordRevenue(txCtx, input)
		if err != nil {
			return err
		}
		return u.audit.Record(txCtx, AuditEntry{
			ActorID:    &adminID,
			Action:     entities.AuditActionRevenueRecorded,
			EntityType: "revenue_transaction",
			EntityID:   rev.ID.String(),
			Metadata: map[string]interface{}{
				"source":   string(rev.Source),
				"amount":   rev.Amount.String(),
				"currency": string(rev.Currency),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// GetRevenueTransaction returns one revenue transaction with its allocations
func (u *RevenueUsecase) GetRevenueTransaction(ctx context.Context, id uuid.UUID) (*entities.RevenueTransaction, error) {
	return u.revenueRepo.GetByID(ctx, id)
}

// ListRevenueTransactions pages revenue transactions newest first
func (u *RevenueUsecase) ListRevenueTransactions(ctx context.Context, page, limit int) ([]*entities.RevenueTransaction, utils.PaginationMeta, error) {
	p := utils.NewPage(page, limit, AdminPageBounds)
	items, total, err := u.revenueRepo.List(ctx, p.Size, p.Offset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return items, p.Meta(total), nil
}

// GetPoolSummary returns the reserve, the strategic pools and executive balances
func (u *RevenueUsecase) GetPoolSummary(ctx context.Context) (*entities.PoolSummary, error) {
	summary := &entities.PoolSummary{
		CompanyReserve: &entities.CompanyReserve{Code: entities.CompanyReserveCode},
	}

	reserve, err := u.poolRepo.GetCompanyReserve(ctx)
	switch {
	case err == nil:
		summary.CompanyReserve = reserve
	case !errors.Is(err, domainerrors.ErrNotFound):
		return nil, err
	}

	if summary.StrategyPools, err = u.poolRepo.ListStrategyPools(ctx); err != nil {
		return nil, err
	}
	if summary.ExecutiveShareholders, err = u.poolRepo.ListExecutives(ctx, false); err != nil {
		return nil, err
	}
	if summary.PendingExecutiveAmount, err = u.poolRepo.PendingExecutiveTotal(ctx); err != nil {
		return nil, err
	}
	return summary, nil
}
