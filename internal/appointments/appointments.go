package appointments

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

type ScheduleInput struct {
	VehicleID   uuid.UUID `json:"vehicle_id" validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Reason      string    `json:"reason" validate:"required"`
	Location    string    `json:"location" validate:"required,max=200"`
}

type AppointmentDTO struct {
	ID          uuid.UUID               `json:"id"`
	VehicleID   uuid.UUID               `json:"vehicle_id"`
	ScheduledAt time.Time               `json:"scheduled_at"`
	Reason      string                  `json:"reason"`
	Location    string                  `json:"location"`
	Status      enums.AppointmentStatus `json:"status"`
}

func FromModel(a *models.Appointment) *AppointmentDTO {
	if a == nil {
		return nil
	}
	return &AppointmentDTO{
		ID:          a.ID,
		VehicleID:   a.VehicleID,
		ScheduledAt: a.ScheduledAt,
		Reason:      a.Reason,
		Location:    a.Location,
		Status:      a.Status,
	}
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.AppointmentStatus) (bool, error)
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]models.Appointment, error)
	VehicleExists(ctx context.Context, vehicleID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.db.WithContext(ctx).First(&appointment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &appointment, nil
}

// UpdateStatus moves the appointment only if it is still in from.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.AppointmentStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]models.Appointment, error) {
	var rows []models.Appointment
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("scheduled_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) VehicleExists(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Where("id = ?", vehicleID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type Service interface {
	Schedule(ctx context.Context, input ScheduleInput) (*AppointmentDTO, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.AppointmentStatus) (*AppointmentDTO, error)
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]AppointmentDTO, error)
}

type service struct {
	repo Repository
	tx   db.TxRunner
}

func NewService(repo Repository, tx db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "appointments repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Schedule(ctx context.Context, input ScheduleInput) (*AppointmentDTO, error) {
	reason := strings.TrimSpace(input.Reason)
	location := strings.TrimSpace(input.Location)
	switch {
	case input.ScheduledAt.IsZero():
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "scheduled_at", "Required", "scheduled_at required")
	case reason == "":
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "reason", "Required", "reason required")
	case location == "":
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "location", "Required", "location required")
	case len(location) > 200:
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "location", "TooLong", "location too long")
	}

	exists, err := s.repo.VehicleExists(ctx, input.VehicleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check vehicle")
	}
	if !exists {
		return nil, pkgerrors.Field(pkgerrors.CodeNotFound, "vehicle_id", "UnknownVehicle", "vehicle not found")
	}

	appointment := &models.Appointment{
		ID:          uuid.New(),
		VehicleID:   input.VehicleID,
		ScheduledAt: input.ScheduledAt.UTC(),
		Reason:      reason,
		Location:    location,
		Status:      enums.AppointmentStatusPending,
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, db.TranslateError(err, "schedule appointment")
	}
	return FromModel(appointment), nil
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.AppointmentStatus) (*AppointmentDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "status", "InvalidChoice", "invalid appointment status")
	}

	var appointment *models.Appointment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		appointment, err = repo.FindByID(ctx, id)
		if err != nil {
			return db.TranslateError(err, "appointment not found")
		}
		if !appointment.Status.CanTransitionTo(status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "appointment status transition not allowed").
				WithDetails(map[string]any{"from": appointment.Status, "to": status})
		}
		ok, err := repo.UpdateStatus(ctx, id, appointment.Status, status)
		if err != nil {
			return db.TranslateError(err, "update appointment")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "appointment was modified concurrently")
		}
		appointment.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(appointment), nil
}

func (s *service) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]AppointmentDTO, error) {
	rows, err := s.repo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list appointments")
	}
	out := make([]AppointmentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}
