package vehicles

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

// Service validates and persists vehicles. Every write runs the plate and
// year rules, updates included.
type Service interface {
	Create(ctx context.Context, input VehicleInput) (*VehicleDTO, error)
	Update(ctx context.Context, id uuid.UUID, input VehicleInput) (*VehicleDTO, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.VehicleStatus) error
	Get(ctx context.Context, id uuid.UUID) (*VehicleDTO, error)
}

// ServiceParams packages the vehicles service dependencies.
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

// NewService wires the vehicles service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "vehicles repository required")
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

func (s *service) validate(input *VehicleInput) error {
	if err := ValidateVehicle(input.Plate, input.Year, s.now()); err != nil {
		return err
	}
	if strings.TrimSpace(input.Make) == "" || strings.TrimSpace(input.Model) == "" {
		return pkgerrors.Field(pkgerrors.CodeValidation, "make", "Required", "make and model are required")
	}
	if input.Mileage < 0 {
		return pkgerrors.Field(pkgerrors.CodeValidation, "mileage", "Negative", "mileage cannot be negative")
	}
	if !input.FuelType.IsValid() {
		return pkgerrors.Field(pkgerrors.CodeValidation, "fuel_type", "InvalidChoice", "invalid fuel type")
	}
	if input.Status == "" {
		input.Status = enums.VehicleStatusAvailable
	}
	if !input.Status.IsValid() {
		return pkgerrors.Field(pkgerrors.CodeValidation, "status", "InvalidChoice", "invalid vehicle status")
	}
	if input.LastInspectionOn.IsZero() {
		return pkgerrors.Field(pkgerrors.CodeValidation, "last_inspection_on", "Required", "last inspection date is required")
	}
	if input.OwnerID == uuid.Nil {
		return pkgerrors.Field(pkgerrors.CodeValidation, "owner_id", "Required", "owner id required")
	}
	return nil
}

func (s *service) requireOwner(ctx context.Context, repo Repository, ownerID uuid.UUID) error {
	exists, err := repo.OwnerExists(ctx, ownerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check owner")
	}
	if !exists {
		return pkgerrors.Field(pkgerrors.CodeNotFound, "owner_id", "UnknownOwner", "owner not found")
	}
	return nil
}

func (s *service) Create(ctx context.Context, input VehicleInput) (*VehicleDTO, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	vehicle := &models.Vehicle{ID: uuid.New()}
	input.apply(vehicle)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.requireOwner(ctx, repo, input.OwnerID); err != nil {
			return err
		}
		if err := repo.Create(ctx, vehicle); err != nil {
			return db.TranslateError(err, "plate already registered")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(vehicle), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input VehicleInput) (*VehicleDTO, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	var vehicle *models.Vehicle
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		vehicle, err = repo.FindByID(ctx, id)
		if err != nil {
			return db.TranslateError(err, "vehicle not found")
		}
		if vehicle.OwnerID != input.OwnerID {
			if err := s.requireOwner(ctx, repo, input.OwnerID); err != nil {
				return err
			}
		}
		input.apply(vehicle)
		if err := repo.Save(ctx, vehicle); err != nil {
			return db.TranslateError(err, "plate already registered")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(vehicle), nil
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.VehicleStatus) error {
	if !status.IsValid() {
		return pkgerrors.Field(pkgerrors.CodeValidation, "status", "InvalidChoice", "invalid vehicle status")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		updated, err := s.repo.WithTx(tx).UpdateStatus(ctx, id, status)
		if err != nil {
			return db.TranslateError(err, "update vehicle status")
		}
		if !updated {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil
	})
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*VehicleDTO, error) {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.TranslateError(err, "vehicle not found")
	}
	return FromModel(vehicle), nil
}
