package entities

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded by privileged operations.
const (
	AuditActionDepositCredited   = "webhook.deposit_credited"
	AuditActionRefund            = "payment.refund"
	AuditActionWithdrawalApprove = "withdrawal.approve"
	AuditActionWithdrawalReject  = "withdrawal.reject"
	AuditActionRevenueRecorded   = "revenue.record"
)

// AuditLog is an immutable record of a privileged action.
// ActorID is nil when the system acted on its own (webhooks, jobs).
type AuditLog struct {
	ID         uuid.UUID              `json:"id"`
	ActorID    *uuid.UUID             `json:"actorId,omitempty"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entityType"`
	EntityID   string                 `json:"entityId"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}

// AuditFilter narrows the admin audit listing.
type AuditFilter struct {
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
	Action     string `form:"action"`
	EntityType string `form:"entityType"`
	EntityID   string `form:"entityId"`
}
