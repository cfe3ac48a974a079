package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/blazetaller/taller-backend/pkg/enums"
)

// Notification stores a push message about a repair process. Delivery happens
// outside this service; DeviceToken is opaque here.
type Notification struct {
	ID          uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	ProcessID   uuid.UUID                `gorm:"column:process_id;type:uuid;not null;index"`
	Message     string                   `gorm:"column:message;type:text;not null"`
	Status      enums.NotificationStatus `gorm:"column:status;type:notification_status;not null"`
	DeviceToken string                   `gorm:"column:device_token;size:255;not null"`
	SentAt      time.Time                `gorm:"column:sent_at;autoCreateTime"`
	UpdatedAt   time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
