package models

import (
	"time"

	"github.com/google/uuid"
)

// Group is a named permission group consulted by the authorization layer.
type Group struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;size:150;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// UserGroup is the membership join between users and groups.
type UserGroup struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	GroupID   uuid.UUID `gorm:"column:group_id;type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserGroup) TableName() string {
	return "user_groups"
}
