package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bpi.backend/internal/domain/entities"
	domainerrors "bpi.backend/internal/domain/errors"
	"bpi.backend/internal/domain/repositories"
	"bpi.backend/pkg/logger"
)

// MembershipUsecase sells membership packages paid from the main wallet
type MembershipUsecase struct {
	packageRepo  repositories.MembershipPackageRepository
	userRepo     repositories.UserRepository
	payments     *PaymentUsecase
	revenue      *RevenueUsecase
	notification *NotificationUsecase
	uow          repositories.UnitOfWork
}

// NewMembershipUsecase creates a new membership usecase
func NewMembershipUsecase(
	packageRepo repositories.MembershipPackageRepository,
	userRepo repositories.UserRepository,
	payments *PaymentUsecase,
	revenue *RevenueUsecase,
	notification *NotificationUsecase,
	uow repositories.UnitOfWork,
) *MembershipUsecase {
	return &MembershipUsecase{
		packageRepo:  packageRepo,
		userRepo:     userRepo,
		payments:     payments,
		revenue:      revenue,
		notification: notification,
		uow:          uow,
	}
}

// ListPackages returns every package on sale
func (u *MembershipUsecase) ListPackages(ctx context.Context) ([]*entities.MembershipPackage, error) {
	return u.packageRepo.ListActive(ctx)
}

func (u *MembershipUsecase) activePackage(ctx context.Context, id uuid.UUID) (*entities.MembershipPackage, error) {
	pkg, err := u.packageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("membership package not found")
		}
		return nil, err
	}
	if !pkg.IsActive {
		return nil, domainerrors.BadRequest("membership package is not available")
	}
	return pkg, nil
}

// Purchase activates a package for the caller
func (u *MembershipUsecase) Purchase(ctx context.Context, userID, packageID uuid.UUID) (*entities.MembershipResult, error) {
	pkg, err := u.activePackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	result, err := u.settle(ctx, settlement{
		payerID:       userID,
		beneficiaryID: userID,
		pkg:           pkg,
		amount:        pkg.Price,
		source:        entities.RevenueSourceMembershipActivation,
		pay: func(txCtx context.Context) (*entities.PaymentResult, error) {
			return u.payments.ProcessWalletPayment(txCtx, userID, pkg.ID, pkg.Price, fmt.Sprintf("Membership activation - %s", pkg.Name))
		},
	})
	if err != nil {
		return nil, err
	}

	u.notification.Notify(ctx, userID, "Membership activated",
		fmt.Sprintf("Your %s membership is active until %s.", pkg.Name, result.ExpiresAt.Format("2 Jan 2006")), "")
	return result, nil
}

// Renew extends the caller's membership at the renewal price
func (u *MembershipUsecase) Renew(ctx context.Context, userID, packageID uuid.UUID) (*entities.MembershipResult, error) {
	pkg, err := u.activePackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	price := pkg.RenewalPrice
	if !price.IsPositive() {
		price = pkg.Price
	}

	result, err := u.settle(ctx, settlement{
		payerID:       userID,
		beneficiaryID: userID,
		pkg:           pkg,
		amount:        price,
		source:        entities.RevenueSourceMembershipRenewal,
		pay: func(txCtx context.Context) (*entities.PaymentResult, error) {
			return u.payments.ProcessRenewalPayment(txCtx, userID, pkg.ID, pkg.Name, price)
		},
	})
	if err != nil {
		return nil, err
	}

	u.notification.Notify(ctx, userID, "Membership renewed",
		fmt.Sprintf("Your %s membership now runs until %s.", pkg.Name, result.ExpiresAt.Format("2 Jan 2006")), "")
	return result, nil
}

// Empower buys a package for another user, paid from the sponsor's wallet
func (u *MembershipUsecase) Empower(ctx context.Context, sponsorID uuid.UUID, beneficiaryEmail string, packageID uuid.UUID) (*entities.MembershipResult, error) {
	beneficiaryEmail = strings.TrimSpace(beneficiaryEmail)
	if beneficiaryEmail == "" {
		return nil, domainerrors.BadRequest("beneficiary email is required")
	}
	pkg, err := u.activePackage(ctx, packageID)
	if err != nil {
		return nil, err
	}

	beneficiary, err := u.userRepo.GetByEmail(ctx, beneficiaryEmail)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) || errors.Is(err, domainerrors.ErrUserNotFound) {
			return nil, domainerrors.NotFound("beneficiary not found")
		}
		return nil, err
	}
	if beneficiary.ID == sponsorID {
		return nil, domainerrors.BadRequest("use membership purchase for your own account")
	}
	beneficiaryName := beneficiary.Name
	if beneficiaryName == "" {
		beneficiaryName = beneficiary.Email
	}

	result, err := u.settle(ctx, settlement{
		payerID:       sponsorID,
		beneficiaryID: beneficiary.ID,
		pkg:           pkg,
		amount:        pkg.Price,
		source:        entities.RevenueSourceEmpowermentPackage,
		pay: func(txCtx context.Context) (*entities.PaymentResult, error) {
			return u.payments.ProcessEmpowermentPayment(txCtx, sponsorID, beneficiaryName, pkg.ID, pkg.Name, pkg.Price)
		},
	})
	if err != nil {
		return nil, err
	}

	u.notification.Notify(ctx, sponsorID, "Empowerment package purchased",
		fmt.Sprintf("You bought %s for %s.", pkg.Name, beneficiaryName), "")
	u.notification.Notify(ctx, beneficiary.ID, "You have been empowered",
		fmt.Sprintf("A %s membership was purchased for you and is active until %s.", pkg.Name, result.ExpiresAt.Format("2 Jan 2006")), "")
	return result, nil
}

type settlement struct {
	payerID       uuid.UUID
	beneficiaryID uuid.UUID
	pkg           *entities.MembershipPackage
	amount        decimal.Decimal
	source        entities.RevenueSource
	pay           func(ctx context.Context) (*entities.PaymentResult, error)
}

// settle runs payment, revenue and activation in one unit of work
func (u *MembershipUsecase) settle(ctx context.Context, s settlement) (*entities.MembershipResult, error) {
	result := &entities.MembershipResult{Package: s.pkg, UserID: s.beneficiaryID}
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		payment, err := s.pay(txCtx)
		if err != nil {
			return err
		}
		result.Payment = payment

		rev, err := u.revenue.RecordRevenue(txCtx, entities.RecordRevenueInput{
			Source:      s.source,
			Amount:      s.amount,
			Currency:    entities.CurrencyNGN,
			SourceID:    payment.TransactionID.String(),
			Description: fmt.Sprintf("%s - %s", s.source, s.pkg.Name),
		})
		if err != nil {
			return err
		}
		result.RevenueID = rev.ID

		beneficiary, err := u.userRepo.GetByID(u.uow.WithLock(txCtx), s.beneficiaryID)
		if err != nil {
			return err
		}
		now := nowFunc()
		start := now
		if s.source == entities.RevenueSourceMembershipRenewal &&
			beneficiary.MembershipExpiresAt.Valid && beneficiary.MembershipExpiresAt.Time.After(now) {
			start = beneficiary.MembershipExpiresAt.Time
		}
		result.ExpiresAt = start.Add(s.pkg.Duration())

		activatedAt := now
		if s.source == entities.RevenueSourceMembershipRenewal && beneficiary.MembershipActivatedAt.Valid {
			activatedAt = beneficiary.MembershipActivatedAt.Time
		}
		return u.userRepo.UpdateMembership(txCtx, s.beneficiaryID, s.pkg.ID, activatedAt, result.ExpiresAt)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Membership settled",
		zap.String("payer_id", s.payerID.String()),
		zap.String("user_id", s.beneficiaryID.String()),
		zap.String("package_id", s.pkg.ID.String()),
		zap.String("source", string(s.source)),
		zap.Time("expires_at", result.ExpiresAt),
	)
	return result, nil
}
