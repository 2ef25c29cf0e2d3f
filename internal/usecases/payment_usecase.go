package usecases

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"bpi.backend/internal/config"
	"bpi.backend/internal/domain/entities"
	"bpi.backend/internal/domain/repositories"
	"bpi.backend/internal/infrastructure/metrics"
	"bpi.backend/pkg/logger"
)

// PaymentUsecase debits and credits main wallets for purchases and refunds
type PaymentUsecase struct {
	userRepo        repositories.UserRepository
	transactionRepo repositories.TransactionRepository
	audit           *AuditUsecase
	uow             repositories.UnitOfWork
	flutterwave     config.FlutterwaveConfig
}

// NewPaymentUsecase creates a new payment usecase
func NewPaymentUsecase(
	userRepo repositories.UserRepository,
	transactionRepo repositories.TransactionRepository,
	audit *AuditUsecase,
	uow repositories.UnitOfWork,
	flutterwave config.FlutterwaveConfig,
) *PaymentUsecase {
	return &PaymentUsecase{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		audit:           audit,
		uow:             uow,
		flutterwave:     flutterwave,
	}
}

// ProcessWalletPayment debits the main wallet for a package purchase.
// The conditional debit and the ledger row share one transaction.
func (u *PaymentUsecase) ProcessWalletPayment(ctx context.Context, userID, packageID uuid.UUID, amount decimal.Decimal, description string) (*entities.PaymentResult, error) {
	if !amount.IsPositive() {
		return nil, invalidAmountError()
	}

	result := &entities.PaymentResult{}
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		balance, err := u.userRepo.DebitWallet(txCtx, userID, entities.WalletMain, amount)
		if err != nil {
			return err
		}

		tx := &entities.Transaction{
			UserID:          userID,
			TransactionType: entities.TransactionTypeDebit,
			WalletType:      entities.WalletMain,
			Amount:          amount,
			Status:          entities.TransactionStatusSuccess,
			Reference:       packageReference(packageID, nowFunc()),
			Description:     description,
			Gateway:         null.StringFrom(entities.GatewayWallet),
			Metadata:        map[string]interface{}{"packageId": packageID.String()},
		}
		if err := u.transactionRepo.Create(txCtx, tx); err != nil {
			return err
		}

		result.Success = true
		result.TransactionID = tx.ID
		result.Reference = tx.Reference
		result.BalanceAfter = balance
		return nil
	})
	metrics.ObserveWalletOperation("package_payment", err)
	if err != nil {
		logger.Warn(ctx, "Wallet payment failed",
			zap.String("user_id", userID.String()),
			zap.String("package_id", packageID.String()),
			zap.String("amount", amount.String()),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Info(ctx, "Wallet payment processed",
		zap.String("user_id", userID.String()),
		zap.String("transaction_id", result.TransactionID.String()),
		zap.String("amount", amount.String()),
	)
	return result, nil
}

// ProcessRenewalPayment debits the main wallet for a membership renewal
func (u *PaymentUsecase) ProcessRenewalPayment(ctx context.Context, userID, packageID uuid.UUID, packageName string, amount decimal.Decimal) (*entities.PaymentResult, error) {
	return u.ProcessWalletPayment(ctx, userID, packageID, amount, fmt.Sprintf("Membership renewal - %s", packageName))
}

// ProcessEmpowermentPayment debits the sponsor's main wallet for a package bought for someone else
func (u *PaymentUsecase) ProcessEmpowermentPayment(ctx context.Context, sponsorID uuid.UUID, beneficiaryName string, packageID uuid.UUID, packageName string, amount decimal.Decimal) (*entities.PaymentResult, error) {
	return u.ProcessWalletPayment(ctx, sponsorID, packageID, amount, fmt.Sprintf("Empowerment package - %s for %s", packageName, beneficiaryName))
}

// RefundPayment credits the main wallet and records a CREDIT row and an audit entry.
// actorID is nil for system refunds.
func (u *PaymentUsecase) RefundPayment(ctx context.Context, actorID *uuid.UUID, userID uuid.UUID, amount decimal.Decimal, reason string) (*entities.PaymentResult, error) {
	if !amount.IsPositive() {
		return nil, invalidAmountError()
	}

	result := &entities.PaymentResult{}
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		balance, err := u.userRepo.CreditWallet(txCtx, userID, entities.WalletMain, amount)
		if err != nil {
			return err
		}

		tx := &entities.Transaction{
			UserID:          userID,
			TransactionType: entities.TransactionTypeCredit,
			WalletType:      entities.WalletMain,
			Amount:          amount,
			Status:          entities.TransactionStatusCompleted,
			Reference:       refundReference(nowFunc()),
			Description:     fmt.Sprintf("Refund: %s", reason),
			Gateway:         null.StringFrom(entities.GatewayWallet),
		}
		if err := u.transactionRepo.Create(txCtx, tx); err != nil {
			return err
		}

		if err := u.audit.Record(txCtx, AuditEntry{
			ActorID:    actorID,
			Action:     entities.AuditActionRefund,
			EntityType: "transaction",
			EntityID:   tx.ID.String(),
			Metadata: map[string]interface{}{
				"userId": userID.String(),
				"amount": amount.String(),
				"reason": reason,
			},
		}); err != nil {
			return err
		}

		result.Success = true
		result.TransactionID = tx.ID
		result.Reference = tx.Reference
		result.BalanceAfter = balance
		return nil
	})
	metrics.ObserveWalletOperation("refund", err)
	if err != nil {
		logger.Error(ctx, "Refund failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}

	logger.Info(ctx, "Refund processed",
		zap.String("user_id", userID.String()),
		zap.String("amount", amount.String()),
	)
	return result, nil
}

// GetPaymentGateways lists the payment methods offered to the client
func (u *PaymentUsecase) GetPaymentGateways(_ context.Context) []entities.PaymentGateway {
	gateways := []entities.PaymentGateway{
		{ID: entities.GatewayWallet, Name: "Wallet balance", Enabled: true},
	}
	flw := entities.PaymentGateway{
		ID:          entities.GatewayFlutterwave,
		Name:        "Flutterwave",
		Enabled:     u.flutterwave.Enabled(),
		Environment: u.flutterwave.Env,
	}
	if flw.Enabled {
		flw.PublicKey = u.flutterwave.PublicKey
	}
	return append(gateways, flw)
}
