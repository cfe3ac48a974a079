package owners

import (
	"time"

	"github.com/google/uuid"

	"github.com/blazetaller/taller-backend/pkg/db/models"
)

// CreateOwnerInput links a new owner record to an existing user and profile.
type CreateOwnerInput struct {
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	ProfileID uuid.UUID `json:"profile_id" validate:"required"`
	RUT       string    `json:"rut" validate:"required"`
	FirstName string    `json:"first_name" validate:"required,max=100"`
	LastName  string    `json:"last_name" validate:"required,max=100"`
	Phone     string    `json:"phone" validate:"required,max=15"`
	Address   string    `json:"address" validate:"required"`
}

// OwnerDTO is the API shape of an owner record.
type OwnerDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProfileID uuid.UUID `json:"profile_id"`
	RUT       string    `json:"rut"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

func (in CreateOwnerInput) toModel() *models.Owner {
	return &models.Owner{
		ID:        uuid.New(),
		UserID:    in.UserID,
		ProfileID: in.ProfileID,
		RUT:       in.RUT,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Address:   in.Address,
	}
}

func FromModel(o *models.Owner) *OwnerDTO {
	if o == nil {
		return nil
	}
	return &OwnerDTO{
		ID:        o.ID,
		UserID:    o.UserID,
		ProfileID: o.ProfileID,
		RUT:       o.RUT,
		FirstName: o.FirstName,
		LastName:  o.LastName,
		Phone:     o.Phone,
		Address:   o.Address,
		CreatedAt: o.CreatedAt,
	}
}
