package processes

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blazetaller/taller-backend/pkg/db"
	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
)

type Service interface {
	Create(ctx context.Context, input CreateProcessInput) (*ProcessDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProcessDTO, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, input ProgressInput) (*ProcessDTO, error)
	AttachNotification(ctx context.Context, processID, notificationID uuid.UUID) error
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]ProcessDTO, error)
}

type ServiceParams struct {
	Repo Repository
	Tx   db.TxRunner
	Now  func() time.Time
}

type service struct {
	repo Repository
	tx   db.TxRunner
	now  func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "processes repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, tx: params.Tx, now: now}, nil
}

func invalidChoice(field, message string) error {
	return pkgerrors.Field(pkgerrors.CodeValidation, field, "InvalidChoice", message)
}

func (s *service) Create(ctx context.Context, input CreateProcessInput) (*ProcessDTO, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "description", "Required", "description required")
	}
	if input.Phase == "" {
		input.Phase = enums.ProcessPhaseStarted
	}
	if input.Status == "" {
		input.Status = enums.ProcessStatusStarted
	}
	if input.Priority == "" {
		input.Priority = enums.ProcessPriorityMedium
	}
	if !input.Phase.IsValid() {
		return nil, invalidChoice("phase", "invalid process phase")
	}
	if !input.Status.IsValid() {
		return nil, invalidChoice("status", "invalid process status")
	}
	if !input.Priority.IsValid() {
		return nil, invalidChoice("priority", "invalid process priority")
	}

	now := s.now().UTC()
	process := &models.Process{
		ID:          uuid.New(),
		Phase:       input.Phase,
		Status:      input.Status,
		Priority:    input.Priority,
		Description: description,
		Comments:    input.Comments,
		StartedAt:   now,
		WorkerID:    input.WorkerID,
		VehicleID:   input.VehicleID,
	}
	if process.Phase.IsTerminal() {
		process.EndedAt = &now
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ok, err := repo.WorkerExists(ctx, input.WorkerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check worker")
		}
		if !ok {
			return pkgerrors.Field(pkgerrors.CodeNotFound, "worker_id", "UnknownWorker", "worker not found")
		}
		ok, err = repo.VehicleExists(ctx, input.VehicleID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check vehicle")
		}
		if !ok {
			return pkgerrors.Field(pkgerrors.CodeNotFound, "vehicle_id", "UnknownVehicle", "vehicle not found")
		}
		if err := repo.Create(ctx, process); err != nil {
			return db.TranslateError(err, "create process")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(process), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProcessDTO, error) {
	process, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.TranslateError(err, "process not found")
	}
	return FromModel(process), nil
}

// UpdateProgress applies a phase or status change. Entering a terminal phase
// stamps ended_at, clamped so it never precedes started_at.
func (s *service) UpdateProgress(ctx context.Context, id uuid.UUID, input ProgressInput) (*ProcessDTO, error) {
	if input.Phase != nil && !input.Phase.IsValid() {
		return nil, invalidChoice("phase", "invalid process phase")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, invalidChoice("status", "invalid process status")
	}

	var process *models.Process
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		process, err = repo.FindByID(ctx, id)
		if err != nil {
			return db.TranslateError(err, "process not found")
		}

		if input.Phase != nil && *input.Phase != process.Phase {
			process.Phase = *input.Phase
			if process.Phase.IsTerminal() {
				ended := s.now().UTC()
				if ended.Before(process.StartedAt) {
					ended = process.StartedAt
				}
				process.EndedAt = &ended
			} else {
				process.EndedAt = nil
			}
		}
		if input.Status != nil {
			process.Status = *input.Status
		}
		if input.Comments != nil {
			process.Comments = input.Comments
		}

		if err := repo.Save(ctx, process); err != nil {
			return db.TranslateError(err, "update process")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(process), nil
}

// AttachNotification links a notification to the process. Linking twice is a no-op.
func (s *service) AttachNotification(ctx context.Context, processID, notificationID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, processID); err != nil {
			return db.TranslateError(err, "process not found")
		}
		ok, err := repo.NotificationExists(ctx, notificationID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check notification")
		}
		if !ok {
			return pkgerrors.Field(pkgerrors.CodeNotFound, "notification_id", "UnknownNotification", "notification not found")
		}
		if _, err := repo.Link(ctx, processID, notificationID); err != nil {
			return db.TranslateError(err, "link notification")
		}
		return nil
	})
}

func (s *service) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]ProcessDTO, error) {
	rows, err := s.repo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list processes")
	}
	out := make([]ProcessDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}
