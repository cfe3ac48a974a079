package models

import (
	"time"

	"github.com/google/uuid"
)

// Owner is the role-detail record of a vehicle owner (dueño).
type Owner struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	ProfileID uuid.UUID `gorm:"column:profile_id;type:uuid;not null;index"`
	RUT       string    `gorm:"column:rut;size:10;not null;uniqueIndex"`
	FirstName string    `gorm:"column:first_name;size:100;not null"`
	LastName  string    `gorm:"column:last_name;size:100;not null"`
	Phone     string    `gorm:"column:phone;size:15;not null"`
	Address   string    `gorm:"column:address;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
