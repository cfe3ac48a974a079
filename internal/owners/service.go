package owners

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blazetaller/taller-backend/pkg/db"
	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
)

// Service manages owner (dueño) records.
type Service interface {
	Create(ctx context.Context, input CreateOwnerInput) (*OwnerDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OwnerDTO, error)
	ListVehicles(ctx context.Context, ownerID uuid.UUID) ([]models.Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   db.TxRunner
}

// NewService wires the owners service.
func NewService(repo Repository, tx db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "owners repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateOwnerInput) (*OwnerDTO, error) {
	input.RUT = strings.TrimSpace(input.RUT)
	if err := ValidateRUT(input.RUT); err != nil {
		return nil, err
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "user_id", "Required", "user id required")
	}
	if input.ProfileID == uuid.Nil {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "profile_id", "Required", "profile id required")
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "name", "Required", "first and last name are required")
	}

	owner := input.toModel()
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		exists, err := repo.UserExists(ctx, input.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user")
		}
		if !exists {
			return pkgerrors.Field(pkgerrors.CodeNotFound, "user_id", "UnknownUser", "user not found")
		}

		profile, err := repo.FindProfile(ctx, input.ProfileID)
		if err != nil {
			return db.TranslateError(err, "profile not found")
		}
		if profile.UserID != input.UserID {
			return pkgerrors.Field(pkgerrors.CodeValidation, "profile_id", "ProfileUserMismatch", "profile belongs to another user")
		}
		if profile.Role != enums.RoleOwner {
			return pkgerrors.Field(pkgerrors.CodeValidation, "profile_id", "RoleMismatch", "profile role must be dueño")
		}

		if err := repo.Create(ctx, owner); err != nil {
			return db.TranslateError(err, "owner conflicts with an existing record")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(owner), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OwnerDTO, error) {
	owner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.TranslateError(err, "owner not found")
	}
	return FromModel(owner), nil
}

func (s *service) ListVehicles(ctx context.Context, ownerID uuid.UUID) ([]models.Vehicle, error) {
	if _, err := s.repo.FindByID(ctx, ownerID); err != nil {
		return nil, db.TranslateError(err, "owner not found")
	}
	vehicles, err := s.repo.ListVehicles(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owner vehicles")
	}
	return vehicles, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		deleted, err := s.repo.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return db.TranslateError(err, "delete owner")
		}
		if !deleted {
			return pkgerrors.New(pkgerrors.CodeNotFound, "owner not found")
		}
		return nil
	})
}
