package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/blazetaller/taller-backend/pkg/enums"
)

// Appointment is a scheduled visit of a vehicle to the shop.
type Appointment struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	VehicleID   uuid.UUID               `gorm:"column:vehicle_id;type:uuid;not null;index"`
	ScheduledAt time.Time               `gorm:"column:scheduled_at;not null"`
	Reason      string                  `gorm:"column:reason;type:text;not null"`
	Status      enums.AppointmentStatus `gorm:"column:status;type:appointment_status;not null"`
	Location    string                  `gorm:"column:location;size:200;not null"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
