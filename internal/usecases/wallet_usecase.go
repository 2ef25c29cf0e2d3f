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

	"bpi.backend/internal/config"
	"bpi.backend/internal/domain/entities"
	domainerrors "bpi.backend/internal/domain/errors"
	"bpi.backend/internal/domain/repositories"
	"bpi.backend/internal/infrastructure/gateway/flutterwave"
	"bpi.backend/internal/infrastructure/metrics"
	"bpi.backend/pkg/crypto"
	"bpi.backend/pkg/logger"
	"bpi.backend/pkg/utils"
)

// DepositGateway opens hosted checkout pages for deposits
type DepositGateway interface {
	InitializePayment(ctx context.Context, req flutterwave.PaymentLinkRequest) (string, error)
}

var (
	generateToken = crypto.GenerateRandomToken
	hundred       = decimal.NewFromInt(100)
)

// WalletUsecase handles deposits, withdrawals and transfers
type WalletUsecase struct {
	userRepo        repositories.UserRepository
	transactionRepo repositories.TransactionRepository
	bankAccountRepo repositories.BankAccountRepository
	revenue         *RevenueUsecase
	audit           *AuditUsecase
	notification    *NotificationUsecase
	gateway         DepositGateway
	uow             repositories.UnitOfWork
	cfg             config.WalletConfig
	appURL          string
}

// NewWalletUsecase creates a new wallet usecase
func NewWalletUsecase(
	userRepo repositories.UserRepository,
	transactionRepo repositories.TransactionRepository,
	bankAccountRepo repositories.BankAccountRepository,
	revenue *RevenueUsecase,
	audit *AuditUsecase,
	notification *NotificationUsecase,
	gateway DepositGateway,
	uow repositories.UnitOfWork,
	cfg config.WalletConfig,
	appURL string,
) *WalletUsecase {
	return &WalletUsecase{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		bankAccountRepo: bankAccountRepo,
		revenue:         revenue,
		audit:           audit,
		notification:    notification,
		gateway:         gateway,
		uow:             uow,
		cfg:             cfg,
		appURL:          appURL,
	}
}

func validateMoney(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalidAmountError()
	}
	if !amount.Equal(amount.Round(2)) {
		return domainerrors.BadRequest("amount must have at most 2 decimal places")
	}
	return nil
}

func newReference(prefix string) (string, error) {
	token, err := generateToken(DepositTokenBytes)
	if err != nil {
		return "", err
	}
	return prefix + "-" + strings.ToUpper(token), nil
}

func (u *WalletUsecase) verifyPin(user *entities.User, pin string) error {
	if !user.HasTransactionPin() {
		return nil
	}
	if pin == "" {
		return domainerrors.BadRequest("transaction PIN is required")
	}
	if !crypto.CheckPin(pin, user.TransactionPinHash.String) {
		return domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeInvalidInput, domainerrors.ErrInvalidPin.Error(), domainerrors.ErrInvalidPin)
	}
	return nil
}

func (u *WalletUsecase) loadUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, domainerrors.ErrUserNotFound
	}
	return user, err
}

// GetBalances returns every sub-wallet of the user
func (u *WalletUsecase) GetBalances(ctx context.Context, userID uuid.UUID) (*entities.WalletBalances, error) {
	user, err := u.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &entities.WalletBalances{UserID: user.ID, Balances: user.Balances(), Total: decimal.Zero}
	for _, b := range out.Balances {
		out.Total = out.Total.Add(b)
	}
	return out, nil
}

// SetTransactionPin sets the PIN; replacing an existing one needs the current PIN
func (u *WalletUsecase) SetTransactionPin(ctx context.Context, userID uuid.UUID, input entities.SetPinInput) error {
	if err := crypto.ValidatePinFormat(input.Pin); err != nil {
		return domainerrors.BadRequest(err.Error())
	}
	user, err := u.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := u.verifyPin(user, input.CurrentPin); err != nil {
		return err
	}
	hash, err := crypto.HashPin(input.Pin)
	if err != nil {
		return err
	}
	return u.userRepo.SetTransactionPin(ctx, userID, hash)
}

// AddBankAccount saves a payout account for the user
func (u *WalletUsecase) AddBankAccount(ctx context.Context, userID uuid.UUID, input entities.BankAccountInput) (*entities.BankAccount, error) {
	account := &entities.BankAccount{
		UserID:        userID,
		BankName:      strings.TrimSpace(input.BankName),
		BankCode:      strings.TrimSpace(input.BankCode),
		AccountNumber: strings.TrimSpace(input.AccountNumber),
		AccountName:   strings.TrimSpace(input.AccountName),
		IsDefault:     input.IsDefault,
	}
	if account.AccountNumber == "" || account.BankCode == "" {
		return nil, domainerrors.BadRequest("bank code and account number are required")
	}
	if err := u.bankAccountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ListBankAccounts lists the user's saved payout accounts
func (u *WalletUsecase) ListBankAccounts(ctx context.Context, userID uuid.UUID) ([]*entities.BankAccount, error) {
	return u.bankAccountRepo.ListByUser(ctx, userID)
}

// InitiateDeposit opens a pending deposit and returns the gateway checkout link
func (u *WalletUsecase) InitiateDeposit(ctx context.Context, userID uuid.UUID, input entities.DepositInput) (*entities.DepositResponse, error) {
	if err := validateMoney(input.Amount); err != nil {
		return nil, err
	}
	gateway := strings.ToLower(strings.TrimSpace(input.Gateway))
	if gateway == "" {
		gateway = entities.GatewayFlutterwave
	}
	if gateway != entities.GatewayFlutterwave || u.gateway == nil {
		return nil, domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeInvalidInput, domainerrors.ErrUnsupportedGateway.Error(), domainerrors.ErrUnsupportedGateway)
	}

	user, err := u.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	reference, err := newReference(DepositPrefix)
	if err != nil {
		return nil, err
	}

	tx := &entities.Transaction{
		UserID:          userID,
		TransactionType: entities.TransactionTypeDeposit,
		WalletType:      entities.WalletMain,
		Amount:          input.Amount,
		Status:          entities.TransactionStatusPending,
		Reference:       reference,
		Description:     "Wallet deposit via Flutterwave",
		Gateway:         null.StringFrom(gateway),
	}
	if err := u.transactionRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	link, err := u.gateway.InitializePayment(ctx, flutterwave.PaymentLinkRequest{
		TxRef:       reference,
		Amount:      input.Amount,
		Currency:    string(entities.CurrencyNGN),
		RedirectURL: u.appURL + "/wallet/deposit/callback",
		Customer:    flutterwave.Customer{Email: user.Email, Name: user.Name, Phone: user.Phone},
		Title:       "BPI wallet deposit",
		Meta:        map[string]string{"userId": userID.String()},
	})
	metrics.ObserveWalletOperation("deposit_initiate", err)
	if err != nil {
		if tErr := u.transactionRepo.TransitionStatus(ctx, tx.ID, entities.TransactionStatusPending, entities.TransactionStatusFailed); tErr != nil {
			logger.Error(ctx, "Failed to mark deposit as failed", zap.String("tx_ref", reference), zap.Error(tErr))
		}
		logger.Error(ctx, "Deposit initialization failed", zap.String("tx_ref", reference), zap.Error(err))
		return nil, domainerrors.UnprocessableEntity("Unable to initialize payment. Please try again.", err)
	}

	logger.Info(ctx, "Deposit initiated",
		zap.String("user_id", userID.String()),
		zap.String("tx_ref", reference),
		zap.String("amount", input.Amount.String()),
	)
	return &entities.DepositResponse{TransactionID: tx.ID, Reference: reference, PaymentLink: link}, nil
}

// WithdrawalFee returns the fee charged on top of a withdrawal amount
func (u *WalletUsecase) WithdrawalFee(amount decimal.Decimal) decimal.Decimal {
	if !u.cfg.WithdrawalFeePercent.IsPositive() {
		return decimal.Zero
	}
	return amount.Mul(u.cfg.WithdrawalFeePercent).Div(hundred).Round(2)
}

// RequestWithdrawal debits amount plus fee and queues a pending withdrawal for admin review
func (u *WalletUsecase) RequestWithdrawal(ctx context.Context, userID uuid.UUID, input entities.WithdrawInput) (*entities.Transaction, error) {
	if input.BankAccountID == nil || *input.BankAccountID == uuid.Nil {
		return nil, domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeInvalidInput, domainerrors.ErrBankAccountRequired.Error(), domainerrors.ErrBankAccountRequired)
	}
	if err := validateMoney(input.Amount); err != nil {
		return nil, err
	}
	if input.Amount.LessThan(u.cfg.MinWithdrawal) {
		return nil, domainerrors.BadRequest(fmt.Sprintf("Minimum withdrawal amount is ₦%s", u.cfg.MinWithdrawal.StringFixed(2)))
	}
	wallet := input.WalletType
	if wallet == "" {
		wallet = entities.WalletMain
	}
	if !wallet.IsValid() {
		return nil, domainerrors.BadRequest("unknown wallet: " + string(wallet))
	}

	account, err := u.bankAccountRepo.GetByIDForUser(ctx, *input.BankAccountID, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("bank account not found")
		}
		return nil, err
	}
	user, err := u.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := u.verifyPin(user, input.Pin); err != nil {
		return nil, err
	}
	reference, err := newReference(WithdrawalPrefix)
	if err != nil {
		return nil, err
	}

	fee := u.WithdrawalFee(input.Amount)
	tx := &entities.Transaction{
		UserID:          userID,
		TransactionType: entities.TransactionTypeWithdrawal,
		WalletType:      wallet,
		Amount:          input.Amount,
		Fee:             fee,
		Status:          entities.TransactionStatusPending,
		Reference:       reference,
		Description:     fmt.Sprintf("Withdrawal to %s %s", account.BankName, account.MaskedNumber()),
		BankAccountID:   &account.ID,
		Metadata: map[string]interface{}{
			"bankName":    account.BankName,
			"bankCode":    account.BankCode,
			"accountName": account.AccountName,
		},
	}
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if _, err := u.userRepo.DebitWallet(txCtx, userID, wallet, input.Amount.Add(fee)); err != nil {
			return err
		}
		return u.transactionRepo.Create(txCtx, tx)
	})
	metrics.ObserveWalletOperation("withdraw", err)
	if err != nil {
		logger.Warn(ctx, "Withdrawal request failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}

	logger.Info(ctx, "Withdrawal requested",
		zap.String("user_id", userID.String()),
		zap.String("reference", reference),
		zap.String("amount", input.Amount.String()),
		zap.String("fee", fee.String()),
	)
	return tx, nil
}

func (u *WalletUsecase) pendingWithdrawal(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	tx, err := u.transactionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("withdrawal not found")
		}
		return nil, err
	}
	if tx.TransactionType != entities.TransactionTypeWithdrawal {
		return nil, domainerrors.BadRequest("transaction is not a withdrawal")
	}
	return tx, nil
}

func withdrawalConflict(err error) error {
	if errors.Is(err, domainerrors.ErrInvalidTransition) {
		return domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeConflict, "withdrawal is no longer pending", err)
	}
	return err
}

// ApproveWithdrawal completes a pending withdrawal and recognises its fee as revenue
func (u *WalletUsecase) ApproveWithdrawal(ctx context.Context, adminID, transactionID uuid.UUID) (*entities.Transaction, error) {
	var tx *entities.Transaction
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		if tx, err = u.pendingWithdrawal(u.uow.WithLock(txCtx), transactionID); err != nil {
			return err
		}
		if err := u.transactionRepo.TransitionStatus(txCtx, tx.ID, entities.TransactionStatusPending, entities.TransactionStatusCompleted); err != nil {
			return withdrawalConflict(err)
		}
		tx.Status = entities.TransactionStatusCompleted

		if tx.Fee.IsPositive() {
			if _, err := u.revenue.RecordRevenue(txCtx, entities.RecordRevenueInput{
				Source:      entities.RevenueSourceWithdrawalFee,
				Amount:      tx.Fee,
				Currency:    entities.CurrencyNGN,
				SourceID:    "withdrawal-fee:" + tx.ID.String(),
				Description: "Withdrawal fee " + tx.Reference,
			}); err != nil {
				return err
			}
		}

		return u.audit.Record(txCtx, AuditEntry{
			ActorID:    &adminID,
			Action:     entities.AuditActionWithdrawalApprove,
			EntityType: "transaction",
			EntityID:   tx.ID.String(),
			Metadata: map[string]interface{}{
				"userId": tx.UserID.String(),
				"amount": tx.Amount.String(),
				"fee":    tx.Fee.String(),
			},
		})
	})
	metrics.ObserveWalletOperation("withdraw_approve", err)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Withdrawal approved", zap.String("transaction_id", tx.ID.String()), zap.String("admin_id", adminID.String()))
	u.notification.Notify(ctx, tx.UserID, "Withdrawal approved",
		fmt.Sprintf("Your withdrawal of ₦%s has been approved.", tx.Amount.StringFixed(2)), "")
	return tx, nil
}

// RejectWithdrawal fails a pending withdrawal and returns amount plus fee to the wallet
func (u *WalletUsecase) RejectWithdrawal(ctx context.Context, adminID, transactionID uuid.UUID, reason string) (*entities.Transaction, error) {
	var tx *entities.Transaction
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		if tx, err = u.pendingWithdrawal(u.uow.WithLock(txCtx), transactionID); err != nil {
			return err
		}
		if err := u.transactionRepo.TransitionStatus(txCtx, tx.ID, entities.TransactionStatusPending, entities.TransactionStatusFailed); err != nil {
			return withdrawalConflict(err)
		}
		tx.Status = entities.TransactionStatusFailed

		if _, err := u.userRepo.CreditWallet(txCtx, tx.UserID, tx.WalletType, tx.Amount.Add(tx.Fee)); err != nil {
			return err
		}

		return u.audit.Record(txCtx, AuditEntry{
			ActorID:    &adminID,
			Action:     entities.AuditActionWithdrawalReject,
			EntityType: "transaction",
			EntityID:   tx.ID.String(),
			Metadata: map[string]interface{}{
				"userId":   tx.UserID.String(),
				"refunded": tx.Amount.Add(tx.Fee).String(),
				"reason":   reason,
			},
		})
	})
	metrics.ObserveWalletOperation("withdraw_reject", err)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Withdrawal rejected", zap.String("transaction_id", tx.ID.String()), zap.String("admin_id", adminID.String()))
	u.notification.Notify(ctx, tx.UserID, "Withdrawal rejected",
		fmt.Sprintf("Your withdrawal of ₦%s was rejected: %s. The funds are back in your wallet.", tx.Amount.StringFixed(2), reason), "")
	return tx, nil
}

// ListPendingWithdrawals pages withdrawals awaiting review, oldest first
func (u *WalletUsecase) ListPendingWithdrawals(ctx context.Context, page, limit int) ([]*entities.Transaction, utils.PaginationMeta, error) {
	p := utils.NewPage(page, limit, AdminPageBounds)
	items, total, err := u.transactionRepo.ListByTypeAndStatus(ctx, entities.TransactionTypeWithdrawal, entities.TransactionStatusPending, p.Size, p.Offset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return items, p.Meta(total), nil
}

// TransferInterWallet moves funds between two of the user's sub-wallets
func (u *WalletUsecase) TransferInterWallet(ctx context.Context, userID uuid.UUID, input entities.InterWalletTransferInput) (*entities.TransferResult, error) {
	if err := validateMoney(input.Amount); err != nil {
		return nil, err
	}
	if !input.FromWallet.IsValid() || !input.ToWallet.IsValid() {
		return nil, domainerrors.BadRequest("unknown wallet")
	}
	if input.FromWallet == input.ToWallet {
		return nil, domainerrors.BadRequest("source and destination wallets must differ")
	}
	if !input.ToWallet.CanReceiveInterWallet() {
		return nil, domainerrors.BadRequest("funds can only be moved into the main or spendable wallet")
	}

	user, err := u.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := u.verifyPin(user, input.Pin); err != nil {
		return nil, err
	}
	reference, err := newReference(InterWalletPrefix)
	if err != nil {
		return nil, err
	}

	result := &entities.TransferResult{Reference: reference, Amount: input.Amount}
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		balance, err := u.userRepo.DebitWallet(txCtx, userID, input.FromWallet, input.Amount)
		if err != nil {
			return err
		}
		result.BalanceAfter = balance
		if _, err := u.userRepo.CreditWallet(txCtx, userID, input.ToWallet, input.Amount); err != nil {
			return err
		}
		return u.transactionRepo.Create(txCtx, &entities.Transaction{
			UserID:          userID,
			TransactionType: entities.TransactionTypeInterWallet,
			WalletType:      input.FromWallet,
			Amount:          input.Amount,
			Status:          entities.TransactionStatusCompleted,
			Reference:       reference,
			Description:     fmt.Sprintf("Transfer from %s to %s wallet", input.FromWallet, input.ToWallet),
			Metadata: map[string]interface{}{
				"fromWallet": string(input.FromWallet),
				"toWallet":   string(input.ToWallet),
			},
		})
	})
	metrics.ObserveWalletOperation("transfer_inter_wallet", err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TransferToUser moves funds from one of the caller's wallets to another user's main wallet
func (u *WalletUsecase) TransferToUser(ctx context.Context, userID uuid.UUID, input entities.TransferToUserInput) (*entities.TransferResult, error) {
	if err := validateMoney(input.Amount); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(input.RecipientEmail)
	if email == "" {
		return nil, domainerrors.BadRequest("recipient email is required")
	}
	wallet := input.WalletType
	if wallet == "" {
		wallet = entities.WalletMain
	}
	if !wallet.IsValid() {
		return nil, domainerrors.BadRequest("unknown wallet: " + string(wallet))
	}

	sender, err := u.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	recipient, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("Recipient not found")
		}
		return nil, err
	}
	if recipient.ID == sender.ID {
		return nil, domainerrors.BadRequest("You cannot transfer to yourself")
	}
	if err := u.verifyPin(sender, input.Pin); err != nil {
		return nil, err
	}
	reference, err := newReference(TransferPrefix)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Transfer to %s", recipient.Email)
	incoming := fmt.Sprintf("Transfer from %s", sender.Email)
	if input.Note != "" {
		description += ": " + input.Note
		incoming += ": " + input.Note
	}

	result := &entities.TransferResult{Reference: reference, Amount: input.Amount}
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		balance, err := u.userRepo.DebitWallet(txCtx, sender.ID, wallet, input.Amount)
		if err != nil {
			return err
		}
		result.BalanceAfter = balance
		if _, err := u.userRepo.CreditWallet(txCtx, recipient.ID, entities.WalletMain, input.Amount); err != nil {
			return err
		}
		if err := u.transactionRepo.Create(txCtx, &entities.Transaction{
			UserID:             sender.ID,
			TransactionType:    entities.TransactionTypeTransferOut,
			WalletType:         wallet,
			Amount:             input.Amount,
			Status:             entities.TransactionStatusCompleted,
			Reference:          reference + "-OUT",
			Description:        description,
			CounterpartyUserID: &recipient.ID,
		}); err != nil {
			return err
		}
		return u.transactionRepo.Create(txCtx, &entities.Transaction{
			UserID:             recipient.ID,
			TransactionType:    entities.TransactionTypeTransferIn,
			WalletType:         entities.WalletMain,
			Amount:             input.Amount,
			Status:             entities.TransactionStatusCompleted,
			Reference:          reference + "-IN",
			Description:        incoming,
			CounterpartyUserID: &sender.ID,
		})
	})
	metrics.ObserveWalletOperation("transfer_to_user", err)
	if err != nil {
		logger.Warn(ctx, "Transfer failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}

	logger.Info(ctx, "Transfer completed",
		zap.String("user_id", sender.ID.String()),
		zap.String("recipient_id", recipient.ID.String()),
		zap.String("amount", input.Amount.String()),
	)
	u.notification.Notify(ctx, recipient.ID, "Funds received",
		fmt.Sprintf("You received ₦%s from %s.", input.Amount.StringFixed(2), sender.Email), "")
	return result, nil
}
