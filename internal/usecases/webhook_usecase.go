package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bpi.backend/internal/domain/entities"
	domainerrors "bpi.backend/internal/domain/errors"
	"bpi.backend/internal/domain/repositories"
	"bpi.backend/internal/infrastructure/metrics"
	"bpi.backend/pkg/logger"
	"bpi.backend/pkg/redis"
)

// WebhookVerifier checks gateway signatures
type WebhookVerifier interface {
	SignatureConfigured() bool
	ValidateWebhook(hash string) bool
}

// FlutterwaveWebhook is the body Flutterwave posts to the webhook endpoint
type FlutterwaveWebhook struct {
	Event string `json:"event"`
	Data  struct {
		ID       int64                  `json:"id"`
		TxRef    string                 `json:"tx_ref"`
		FlwRef   string                 `json:"flw_ref"`
		Status   string                 `json:"status"`
		Amount   decimal.Decimal        `json:"amount"`
		Currency string                 `json:"currency"`
		Meta     map[string]interface{} `json:"meta"`
	} `json:"data"`
}

// WebhookResult is what the handler answers with
type WebhookResult struct {
	Message       string     `json:"message"`
	TransactionID *uuid.UUID `json:"transactionId,omitempty"`
	ReceiptLink   string     `json:"receiptLink,omitempty"`
}

var acquireLock = func(ctx context.Context, key string, ttl time.Duration) (releaser, bool, error) {
	lock, ok, err := redis.AcquireLock(ctx, key, ttl)
	return lock, ok, err
}

type releaser interface {
	Release(ctx context.Context) error
}

// WebhookUsecase credits deposits confirmed by the payment gateway
type WebhookUsecase struct {
	transactionRepo repositories.TransactionRepository
	userRepo        repositories.UserRepository
	audit           *AuditUsecase
	notification    *NotificationUsecase
	verifier        WebhookVerifier
	uow             repositories.UnitOfWork
	appURL          string
}

// NewWebhookUsecase creates a new webhook usecase
func NewWebhookUsecase(
	transactionRepo repositories.TransactionRepository,
	userRepo repositories.UserRepository,
	audit *AuditUsecase,
	notification *NotificationUsecase,
	verifier WebhookVerifier,
	uow repositories.UnitOfWork,
	appURL string,
) *WebhookUsecase {
	return &WebhookUsecase{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		audit:           audit,
		notification:    notification,
		verifier:        verifier,
		uow:             uow,
		appURL:          appURL,
	}
}

// VerifySignature checks the verif-hash header. Without a configured secret
// every delivery is accepted and a warning is logged.
func (u *WebhookUsecase) VerifySignature(ctx context.Context, hash string) error {
	if u.verifier == nil || !u.verifier.SignatureConfigured() {
		logger.Warn(ctx, "Flutterwave webhook secret not configured, skipping signature check")
		return nil
	}
	if !u.verifier.ValidateWebhook(hash) {
		metrics.WebhookEventsTotal.WithLabelValues("signature", "rejected").Inc()
		return domainerrors.ErrInvalidSignature
	}
	return nil
}

// ReceiptLink returns the public receipt URL of a transaction
func (u *WebhookUsecase) ReceiptLink(id uuid.UUID) string {
	return fmt.Sprintf("%s/receipts/%s", u.appURL, id)
}

// ProcessFlutterwave handles one verified Flutterwave delivery
func (u *WebhookUsecase) ProcessFlutterwave(ctx context.Context, payload FlutterwaveWebhook) (*WebhookResult, error) {
	logger.Info(ctx, "Processing Flutterwave webhook",
		zap.String("event", payload.Event),
		zap.String("tx_ref", payload.Data.TxRef),
		zap.String("status", payload.Data.Status),
	)

	if payload.Event != FlutterwaveEventChargeCompleted || payload.Data.Status != FlutterwaveStatusSuccessful {
		metrics.WebhookEventsTotal.WithLabelValues(payload.Event, metrics.OutcomeIgnored).Inc()
		return &WebhookResult{Message: WebhookMsgReceived}, nil
	}

	result, outcome, err := u.creditDeposit(ctx, payload)
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	metrics.WebhookEventsTotal.WithLabelValues(payload.Event, outcome).Inc()
	return result, err
}

func (u *WebhookUsecase) creditDeposit(ctx context.Context, payload FlutterwaveWebhook) (*WebhookResult, string, error) {
	txRef := payload.Data.TxRef
	if txRef == "" {
		logger.Warn(ctx, "Flutterwave webhook without tx_ref")
		return &WebhookResult{Message: WebhookMsgNotFound}, "not_found", nil
	}

	lock, ok, err := acquireLock(ctx, "webhook:flutterwave:"+txRef, WebhookLockTTL)
	switch {
	case err != nil:
		logger.Warn(ctx, "Webhook lock unavailable, relying on conditional update",
			zap.String("tx_ref", txRef), zap.Error(err))
	case !ok:
		logger.Info(ctx, "Webhook delivery already in progress", zap.String("tx_ref", txRef))
		return &WebhookResult{Message: WebhookMsgAlreadyProcessed}, "duplicate", nil
	default:
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn(ctx, "Failed to release webhook lock", zap.String("tx_ref", txRef), zap.Error(err))
			}
		}()
	}

	pending, err := u.transactionRepo.FindPending(ctx, txRef, entities.TransactionTypeDeposit)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			logger.Warn(ctx, "No pending deposit for webhook", zap.String("tx_ref", txRef))
			return &WebhookResult{Message: WebhookMsgNotFound}, "not_found", nil
		}
		return nil, "", err
	}

	if !payload.Data.Amount.IsZero() && !payload.Data.Amount.Equal(pending.Amount) {
		logger.Warn(ctx, "Webhook amount differs from pending deposit, crediting stored amount",
			zap.String("tx_ref", txRef),
			zap.String("payload_amount", payload.Data.Amount.String()),
			zap.String("amount", pending.Amount.String()),
		)
	}

	var balance decimal.Decimal
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.transactionRepo.TransitionStatus(txCtx, pending.ID, entities.TransactionStatusPending, entities.TransactionStatusCompleted); err != nil {
			return err
		}
		var err error
		balance, err = u.userRepo.CreditWallet(txCtx, pending.UserID, entities.WalletMain, pending.Amount)
		if err != nil {
			return err
		}
		return u.audit.Record(txCtx, AuditEntry{
			Action:     entities.AuditActionDepositCredited,
			EntityType: "transaction",
			EntityID:   pending.ID.String(),
			Metadata: map[string]interface{}{
				"userId":  pending.UserID.String(),
				"amount":  pending.Amount.String(),
				"txRef":   txRef,
				"flwRef":  payload.Data.FlwRef,
				"gateway": entities.GatewayFlutterwave,
			},
		})
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidTransition) {
			logger.Info(ctx, "Deposit already processed", zap.String("tx_ref", txRef))
			return &WebhookResult{Message: WebhookMsgAlreadyProcessed}, "duplicate", nil
		}
		logger.Error(ctx, "Failed to credit deposit", zap.String("tx_ref", txRef), zap.Error(err))
		return nil, "", err
	}

	link := u.ReceiptLink(pending.ID)
	logger.Info(ctx, "Deposit credited",
		zap.String("tx_ref", txRef),
		zap.String("user_id", pending.UserID.String()),
		zap.String("amount", pending.Amount.String()),
		zap.String("balance_after", balance.String()),
	)
	u.notification.Notify(ctx, pending.UserID, "Deposit successful",
		fmt.Sprintf("Your wallet has been credited with ₦%s.", pending.Amount.StringFixed(2)), link)

	id := pending.ID
	return &WebhookResult{Message: WebhookMsgProcessed, TransactionID: &id, ReceiptLink: link}, metrics.OutcomeSuccess, nil
}
