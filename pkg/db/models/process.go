package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/blazetaller/taller-backend/pkg/enums"
)

// Process is a repair job tracked through phases.
type Process struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Phase       enums.ProcessPhase    `gorm:"column:phase;type:process_phase;not null"`
	Status      enums.ProcessStatus   `gorm:"column:status;type:process_status;not null"`
	Priority    enums.ProcessPriority `gorm:"column:priority;type:process_priority;not null"`
	Description string                `gorm:"column:description;type:text;not null"`
	Comments    *string               `gorm:"column:comments;type:text"`
	StartedAt   time.Time             `gorm:"column:started_at;not null"`
	EndedAt     *time.Time            `gorm:"column:ended_at"`
	WorkerID    uuid.UUID             `gorm:"column:worker_id;type:uuid;not null;index"`
	VehicleID   uuid.UUID             `gorm:"column:vehicle_id;type:uuid;not null;index"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// ProcessNotification is the many-to-many join between processes and notifications.
type ProcessNotification struct {
	ProcessID      uuid.UUID `gorm:"column:process_id;type:uuid;primaryKey"`
	NotificationID uuid.UUID `gorm:"column:notification_id;type:uuid;primaryKey"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProcessNotification) TableName() string {
	return "process_notifications"
}
