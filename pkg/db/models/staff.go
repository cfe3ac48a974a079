package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/blazetaller/taller-backend/pkg/enums"
)

// StaffDetail is the column block shared by administrators, supervisors and workers.
type StaffDetail struct {
	RUT          string                `gorm:"column:rut;size:12;not null;index"`
	FirstName    string                `gorm:"column:first_name;size:50;not null"`
	LastName     string                `gorm:"column:last_name;size:50;not null"`
	Phone        string                `gorm:"column:phone;size:15;not null"`
	Email        string                `gorm:"column:email;type:text;not null"`
	Address      string                `gorm:"column:address;type:text;not null"`
	Availability enums.Availability    `gorm:"column:availability;type:staff_availability;not null"`
	Status       enums.StaffStatus     `gorm:"column:status;type:staff_status;not null"`
	Assignment   enums.StaffAssignment `gorm:"column:assignment;type:staff_assignment;not null"`
}

type Administrator struct {
	ID          uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	ProfileID   uuid.UUID   `gorm:"column:profile_id;type:uuid;not null;index"`
	StaffDetail StaffDetail `gorm:"embedded"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

type Supervisor struct {
	ID          uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	ProfileID   uuid.UUID   `gorm:"column:profile_id;type:uuid;not null;index"`
	StaffDetail StaffDetail `gorm:"embedded"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// Worker is the mechanic-side staff record; repair processes are assigned to workers.
type Worker struct {
	ID          uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	ProfileID   uuid.UUID   `gorm:"column:profile_id;type:uuid;not null;index"`
	StaffDetail StaffDetail `gorm:"embedded"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
