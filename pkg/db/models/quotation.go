package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blazetaller/taller-backend/pkg/enums"
)

// Quotation is a priced estimate for a vehicle. EstimatedTotal is a write-time
// cache of the sum of its line-item costs; Version guards that cache.
type Quotation struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	VehicleID      uuid.UUID             `gorm:"column:vehicle_id;type:uuid;not null;index"`
	Status         enums.QuotationStatus `gorm:"column:status;type:quotation_status;not null"`
	EstimatedTotal decimal.Decimal       `gorm:"column:estimated_total;type:numeric(10,2);not null"`
	FinalTotal     decimal.NullDecimal   `gorm:"column:final_total;type:numeric(10,2)"`
	Description    *string               `gorm:"column:description;type:text"`
	Version        int64                 `gorm:"column:version;not null"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// QuotationLineItem prices one catalog service inside a quotation.
type QuotationLineItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	QuotationID uuid.UUID       `gorm:"column:quotation_id;type:uuid;not null;index"`
	ServiceID   uuid.UUID       `gorm:"column:service_id;type:uuid;not null;index"`
	Cost        decimal.Decimal `gorm:"column:cost;type:numeric(10,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
