package repositories

import (
	"context"
	"time"

	"bpi.backend/internal/domain/entities"
	"bpi.backend/internal/infrastructure/models"
	"bpi.backend/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository implements in-app notification operations
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create stores a notification
func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = utils.GenerateUUIDv7()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return GetDB(ctx, r.db).WithContext(ctx).Create(&models.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}).Error
}

// ListByUser returns a user's notifications newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Notification, int64, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Notification
	q := query.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Notification, 0, len(ms))
	for _, m := range ms {
		out = append(out, &entities.Notification{
			ID:        m.ID,
			UserID:    m.UserID,
			Title:     m.Title,
			Message:   m.Message,
			Link:      m.Link,
			IsRead:    m.IsRead,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, total, nil
}

// AdminSettingRepository implements admin settings storage
type AdminSettingRepository struct {
	db *gorm.DB
}

// NewAdminSettingRepository creates a new admin setting repository
func NewAdminSettingRepository(db *gorm.DB) *AdminSettingRepository {
	return &AdminSettingRepository{db: db}
}

// GetMany returns the stored values of the requested keys; missing keys are absent from the map
func (r *AdminSettingRepository) GetMany(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	var ms []models.AdminSetting
	if err := GetDB(ctx, r.db).WithContext(ctx).Where(`"key" IN ?`, keys).Find(&ms).Error; err != nil {
		return nil, err
	}
	for _, m := range ms {
		out[m.Key] = m.Value
	}
	return out, nil
}

// Set upserts a setting
func (r *AdminSettingRepository) Set(ctx context.Context, key, value string) error {
	now := time.Now()
	return GetDB(ctx, r.db).WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&models.AdminSetting{Key: key, Value: value, UpdatedAt: now}).Error
}
