package usecases

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bpi.backend/internal/domain/entities"
	"bpi.backend/internal/domain/repositories"
	"bpi.backend/pkg/logger"
	"bpi.backend/pkg/utils"
)

// AuditEntry describes one privileged action
type AuditEntry struct {
	ActorID    *uuid.UUID
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]interface{}
}

// AuditUsecase records and lists immutable audit entries
type AuditUsecase struct {
	auditRepo repositories.AuditLogRepository
}

// NewAuditUsecase creates a new audit usecase
func NewAuditUsecase(auditRepo repositories.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{auditRepo: auditRepo}
}

// Record writes one audit row. Inside a unit of work it joins that transaction,
// so a failure here rolls back the audited operation.
func (u *AuditUsecase) Record(ctx context.Context, entry AuditEntry) error {
	err := u.auditRepo.Create(ctx, &entities.AuditLog{
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   entry.Metadata,
	})
	if err != nil {
		logger.Error(ctx, "Failed to write audit log",
			zap.String("action", entry.Action),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err),
		)
	}
	return err
}

// List returns audit entries newest first
func (u *AuditUsecase) List(ctx context.Context, filter entities.AuditFilter) ([]*entities.AuditLog, utils.PaginationMeta, error) {
	page := utils.NewPage(filter.Page, filter.Limit, AdminPageBounds)
	items, total, err := u.auditRepo.List(ctx, filter, page.Size, page.Offset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return items, page.Meta(total), nil
}
