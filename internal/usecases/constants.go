package usecases

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"bpi.backend/pkg/utils"
)

// Reference prefixes written to transactions.reference
const (
	PackagePaymentPrefix = "PKG"
	RefundPrefix         = "REFUND"
	DepositPrefix        = "BPI-DEP"
	WithdrawalPrefix     = "BPI-WDR"
	TransferPrefix       = "BPI-TRF"
	InterWalletPrefix    = "BPI-IWT"
)

// Page size bounds
var (
	TimelinePageBounds = utils.PageBounds{Default: 20, Max: 100}
	AdminPageBounds    = utils.PageBounds{Default: 20, Max: 100}
)

// WebhookLockTTL bounds how long one delivery holds the tx_ref lock.
const WebhookLockTTL = 30 * time.Second

// DepositTokenBytes is the random part of a deposit tx_ref.
const DepositTokenBytes = 8

// Flutterwave webhook vocabulary
const (
	FlutterwaveEventChargeCompleted = "charge.completed"
	FlutterwaveStatusSuccessful     = "successful"
)

// Webhook responses
const (
	WebhookMsgProcessed        = "Webhook processed successfully"
	WebhookMsgNotFound         = "Transaction not found"
	WebhookMsgAlreadyProcessed = "Transaction already processed"
	WebhookMsgReceived         = "Webhook received"
)

var nowFunc = time.Now

func packageReference(packageID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("%s-%s-%d", PackagePaymentPrefix, packageID, at.UnixMilli())
}

func refundReference(at time.Time) string {
	return fmt.Sprintf("%s-%d", RefundPrefix, at.UnixMilli())
}
