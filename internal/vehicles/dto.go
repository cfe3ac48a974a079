package vehicles

import (
	"time"

	"github.com/google/uuid"

	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
)

// VehicleInput is the full set of writable vehicle fields. Update replaces
// every field, so it reuses the same shape.
type VehicleInput struct {
	Plate            string
	Make             string
	Model            string
	Year             int
	Color            string
	Mileage          int
	FuelType         enums.FuelType
	LastInspectionOn time.Time
	Status           enums.VehicleStatus
	OwnerID          uuid.UUID
}

// VehicleDTO is the API shape of a vehicle.
type VehicleDTO struct {
	ID               uuid.UUID           `json:"id"`
	Plate            string              `json:"plate"`
	Make             string              `json:"make"`
	Model            string              `json:"model"`
	Year             int                 `json:"year"`
	Color            string              `json:"color"`
	Mileage          int                 `json:"mileage"`
	FuelType         enums.FuelType      `json:"fuel_type"`
	LastInspectionOn string              `json:"last_inspection_on"`
	Status           enums.VehicleStatus `json:"status"`
	OwnerID          uuid.UUID           `json:"owner_id"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// DateLayout is the wire format of LastInspectionOn.
const DateLayout = "2006-01-02"

func (in VehicleInput) apply(v *models.Vehicle) {
	v.Plate = in.Plate
	v.Make = in.Make
	v.Model = in.Model
	v.Year = in.Year
	v.Color = in.Color
	v.Mileage = in.Mileage
	v.FuelType = in.FuelType
	v.LastInspectionOn = in.LastInspectionOn.UTC().Truncate(24 * time.Hour)
	v.Status = in.Status
	v.OwnerID = in.OwnerID
}

func FromModel(v *models.Vehicle) *VehicleDTO {
	if v == nil {
		return nil
	}
	return &VehicleDTO{
		ID:               v.ID,
		Plate:            v.Plate,
		Make:             v.Make,
		Model:            v.Model,
		Year:             v.Year,
		Color:            v.Color,
		Mileage:          v.Mileage,
		FuelType:         v.FuelType,
		LastInspectionOn: v.LastInspectionOn.Format(DateLayout),
		Status:           v.Status,
		OwnerID:          v.OwnerID,
		UpdatedAt:        v.UpdatedAt,
	}
}
