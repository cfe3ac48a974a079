package staff

import (
	"time"

	"github.com/google/uuid"

	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
)

// CreateStaffInput carries the shared detail block of any staff record.
type CreateStaffInput struct {
	ProfileID    uuid.UUID             `json:"profile_id" validate:"required"`
	RUT          string                `json:"rut" validate:"required,max=12"`
	FirstName    string                `json:"first_name" validate:"required,max=50"`
	LastName     string                `json:"last_name" validate:"required,max=50"`
	Phone        string                `json:"phone" validate:"required,max=15"`
	Email        string                `json:"email" validate:"required,email"`
	Address      string                `json:"address" validate:"required"`
	Availability enums.Availability    `json:"availability"`
	Status       enums.StaffStatus     `json:"status"`
	Assignment   enums.StaffAssignment `json:"assignment"`
}

// StaffDTO is the API shape shared by administrators, supervisors and workers.
type StaffDTO struct {
	ID           uuid.UUID             `json:"id"`
	Kind         enums.StaffKind       `json:"kind"`
	ProfileID    uuid.UUID             `json:"profile_id"`
	RUT          string                `json:"rut"`
	FirstName    string                `json:"first_name"`
	LastName     string                `json:"last_name"`
	Phone        string                `json:"phone"`
	Email        string                `json:"email"`
	Address      string                `json:"address"`
	Availability enums.Availability    `json:"availability"`
	Status       enums.StaffStatus     `json:"status"`
	Assignment   enums.StaffAssignment `json:"assignment"`
	CreatedAt    time.Time             `json:"created_at"`
}

func (in CreateStaffInput) detail() models.StaffDetail {
	return models.StaffDetail{
		RUT:          in.RUT,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Email:        in.Email,
		Address:      in.Address,
		Availability: in.Availability,
		Status:       in.Status,
		Assignment:   in.Assignment,
	}
}

func toDTO(kind enums.StaffKind, id, profileID uuid.UUID, d models.StaffDetail, createdAt time.Time) *StaffDTO {
	return &StaffDTO{
		ID:           id,
		Kind:         kind,
		ProfileID:    profileID,
		RUT:          d.RUT,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Phone:        d.Phone,
		Email:        d.Email,
		Address:      d.Address,
		Availability: d.Availability,
		Status:       d.Status,
		Assignment:   d.Assignment,
		CreatedAt:    createdAt,
	}
}

// FromRecord converts any of the three staff models into a StaffDTO.
func FromRecord(record any) *StaffDTO {
	switch r := record.(type) {
	case *models.Administrator:
		return toDTO(enums.StaffKindAdministrator, r.ID, r.ProfileID, r.StaffDetail, r.CreatedAt)
	case *models.Supervisor:
		return toDTO(enums.StaffKindSupervisor, r.ID, r.ProfileID, r.StaffDetail, r.CreatedAt)
	case *models.Worker:
		return toDTO(enums.StaffKindWorker, r.ID, r.ProfileID, r.StaffDetail, r.CreatedAt)
	}
	return nil
}
