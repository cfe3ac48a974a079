package processes

import (
	"time"

	"github.com/google/uuid"

	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
)

// CreateProcessInput opens a repair job. Empty enum fields take their defaults.
type CreateProcessInput struct {
	WorkerID    uuid.UUID             `json:"worker_id" validate:"required"`
	VehicleID   uuid.UUID             `json:"vehicle_id" validate:"required"`
	Description string                `json:"description" validate:"required"`
	Phase       enums.ProcessPhase    `json:"phase"`
	Status      enums.ProcessStatus   `json:"status"`
	Priority    enums.ProcessPriority `json:"priority"`
	Comments    *string               `json:"comments"`
}

// ProgressInput moves a process forward. Nil fields are left unchanged.
type ProgressInput struct {
	Phase    *enums.ProcessPhase  `json:"phase"`
	Status   *enums.ProcessStatus `json:"status"`
	Comments *string              `json:"comments"`
}

type ProcessDTO struct {
	ID          uuid.UUID             `json:"id"`
	WorkerID    uuid.UUID             `json:"worker_id"`
	VehicleID   uuid.UUID             `json:"vehicle_id"`
	Phase       enums.ProcessPhase    `json:"phase"`
	Status      enums.ProcessStatus   `json:"status"`
	Priority    enums.ProcessPriority `json:"priority"`
	Description string                `json:"description"`
	Comments    *string               `json:"comments,omitempty"`
	StartedAt   time.Time             `json:"started_at"`
	EndedAt     *time.Time            `json:"ended_at,omitempty"`
}

func FromModel(p *models.Process) *ProcessDTO {
	if p == nil {
		return nil
	}
	return &ProcessDTO{
		ID:          p.ID,
		WorkerID:    p.WorkerID,
		VehicleID:   p.VehicleID,
		Phase:       p.Phase,
		Status:      p.Status,
		Priority:    p.Priority,
		Description: p.Description,
		Comments:    p.Comments,
		StartedAt:   p.StartedAt,
		EndedAt:     p.EndedAt,
	}
}
