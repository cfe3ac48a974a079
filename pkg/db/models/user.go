package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity. Email is the login identity.
type User struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email        string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	FirstName    string    `gorm:"column:first_name;size:30;not null"`
	LastName     string    `gorm:"column:last_name;size:30;not null"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	IsStaff      bool      `gorm:"column:is_staff;not null"`
	IsAdmin      bool      `gorm:"column:is_admin;not null"`
	IsSuperAdmin bool      `gorm:"column:is_superadmin;not null"`
	DateJoined   time.Time `gorm:"column:date_joined;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
