package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blazetaller/taller-backend/pkg/enums"
)

type Payment struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ProcessID uuid.UUID           `gorm:"column:process_id;type:uuid;not null;index"`
	Amount    decimal.Decimal     `gorm:"column:amount;type:numeric(10,2);not null"`
	Method    string              `gorm:"column:method;size:50;not null"`
	Status    enums.PaymentStatus `gorm:"column:status;type:payment_status;not null"`
	PaidAt    time.Time           `gorm:"column:paid_at;autoCreateTime"`
}
