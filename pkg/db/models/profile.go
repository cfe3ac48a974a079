package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/blazetaller/taller-backend/pkg/enums"
)

// Profile holds the role of a user. There is exactly one per user.
type Profile struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Role      enums.Role `gorm:"column:role;type:profile_role;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
