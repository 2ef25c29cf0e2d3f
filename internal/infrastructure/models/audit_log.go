package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditLog struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey"`
	ActorID    *uuid.UUID        `gorm:"type:uuid;index"`
	Action     string            `gorm:"type:varchar(100);not null;index"`
	EntityType string            `gorm:"type:varchar(50);not null"`
	EntityID   string            `gorm:"type:varchar(100);index"`
	Metadata   datatypes.JSONMap `gorm:"type:json"`
	CreatedAt  time.Time         `gorm:"index"`
}

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:varchar(200);not null"`
	Message   string    `gorm:"type:text;not null"`
	Link      string    `gorm:"type:varchar(500)"`
	IsRead    bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"index"`
}
