package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is a catalog entry the shop can quote and perform.
type Service struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name             string          `gorm:"column:name;size:100;not null"`
	Description      string          `gorm:"column:description;type:text;not null"`
	Cost             decimal.Decimal `gorm:"column:cost;type:numeric(10,2);not null"`
	EstimatedMinutes int             `gorm:"column:estimated_minutes;not null"`
	Warranty         string          `gorm:"column:warranty;size:50;not null"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
