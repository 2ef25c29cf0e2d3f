package repositories

import (
	"context"

	"bpi.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// AuditLogRepository is append-only: there is no update or delete.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *entities.AuditLog) error
	List(ctx context.Context, filter entities.AuditFilter, limit, offset int) ([]*entities.AuditLog, int64, error)
}

// NotificationRepository defines in-app notification operations
type NotificationRepository interface {
	Create(ctx context.Context, n *entities.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Notification, int64, error)
}

// AdminSettingRepository reads and writes admin-editable settings
type AdminSettingRepository interface {
	GetMany(ctx context.Context, keys []string) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
}
