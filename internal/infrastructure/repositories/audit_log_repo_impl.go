package repositories

import (
	"context"
	"time"

	"bpi.backend/internal/domain/entities"
	"bpi.backend/internal/infrastructure/models"
	"bpi.backend/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLogRepository implements the append-only audit trail
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create appends an audit entry; inside a unit of work it commits with the audited change
func (r *AuditLogRepository) Create(ctx context.Context, entry *entities.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = utils.GenerateUUIDv7()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m := &models.AuditLog{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		CreatedAt:  entry.CreatedAt,
	}
	if len(entry.Metadata) > 0 {
		m.Metadata = datatypes.JSONMap(entry.Metadata)
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// List returns audit entries newest first
func (r *AuditLogRepository) List(ctx context.Context, filter entities.AuditFilter, limit, offset int) ([]*entities.AuditLog, int64, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.AuditLog{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.AuditLog
	q := query.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*entities.AuditLog, 0, len(ms))
	for _, m := range ms {
		entry := &entities.AuditLog{
			ID:         m.ID,
			ActorID:    m.ActorID,
			Action:     m.Action,
			EntityType: m.EntityType,
			EntityID:   m.EntityID,
			CreatedAt:  m.CreatedAt,
		}
		if len(m.Metadata) > 0 {
			entry.Metadata = map[string]interface{}(m.Metadata)
		}
		out = append(out, entry)
	}
	return out, total, nil
}
