package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/blazetaller/taller-backend/pkg/enums"
)

// Vehicle is a customer car registered to an owner.
type Vehicle struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Plate            string              `gorm:"column:plate;size:10;not null;uniqueIndex"`
	Make             string              `gorm:"column:make;size:100;not null"`
	Model            string              `gorm:"column:model;size:100;not null"`
	Year             int                 `gorm:"column:year;not null"`
	Color            string              `gorm:"column:color;size:50;not null"`
	Mileage          int                 `gorm:"column:mileage;not null"`
	FuelType         enums.FuelType      `gorm:"column:fuel_type;type:fuel_type;not null"`
	LastInspectionOn time.Time           `gorm:"column:last_inspection_on;type:date;not null"`
	Status           enums.VehicleStatus `gorm:"column:status;type:vehicle_status;not null"`
	OwnerID          uuid.UUID           `gorm:"column:owner_id;type:uuid;not null;index"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
