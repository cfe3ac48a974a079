package staff

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blazetaller/taller-backend/pkg/db"
	"github.com/blazetaller/taller-backend/pkg/enums"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
)

// Service manages the role-detail records of shop staff.
type Service interface {
	Create(ctx context.Context, kind enums.StaffKind, input CreateStaffInput) (*StaffDTO, error)
	Get(ctx context.Context, kind enums.StaffKind, id uuid.UUID) (*StaffDTO, error)
	ListWorkers(ctx context.Context, availability *enums.Availability) ([]StaffDTO, error)
}

type service struct {
	repo Repository
	tx   db.TxRunner
}

// NewService wires the staff service.
func NewService(repo Repository, tx db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "staff repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func validateInput(input CreateStaffInput) error {
	if input.ProfileID == uuid.Nil {
		return pkgerrors.Field(pkgerrors.CodeValidation, "profile_id", "Required", "profile id required")
	}
	if strings.TrimSpace(input.RUT) == "" {
		return pkgerrors.Field(pkgerrors.CodeValidation, "rut", "Required", "rut required")
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return pkgerrors.Field(pkgerrors.CodeValidation, "name", "Required", "first and last name are required")
	}
	if !input.Availability.IsValid() {
		return pkgerrors.Field(pkgerrors.CodeValidation, "availability", "InvalidChoice", "invalid availability")
	}
	if !input.Status.IsValid() {
		return pkgerrors.Field(pkgerrors.CodeValidation, "status", "InvalidChoice", "invalid status")
	}
	if !input.Assignment.IsValid() {
		return pkgerrors.Field(pkgerrors.CodeValidation, "assignment", "InvalidChoice", "invalid assignment")
	}
	return nil
}

// Create stores a staff record of the given kind. The linked profile must
// carry the role that matches the kind.
func (s *service) Create(ctx context.Context, kind enums.StaffKind, input CreateStaffInput) (*StaffDTO, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "kind", "InvalidChoice", "invalid staff kind")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var record any
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		profile, err := repo.FindProfile(ctx, input.ProfileID)
		if err != nil {
			return db.TranslateError(err, "profile not found")
		}
		if profile.Role != kind.Role() {
			return pkgerrors.Field(pkgerrors.CodeValidation, "profile_id", "RoleMismatch", "profile role does not match staff kind")
		}

		record, err = repo.Create(ctx, kind, profile.ID, input.detail())
		if err != nil {
			return db.TranslateError(err, "create staff record")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromRecord(record), nil
}

func (s *service) Get(ctx context.Context, kind enums.StaffKind, id uuid.UUID) (*StaffDTO, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "kind", "InvalidChoice", "invalid staff kind")
	}
	record, err := s.repo.FindByID(ctx, kind, id)
	if err != nil {
		return nil, db.TranslateError(err, "staff record not found")
	}
	return FromRecord(record), nil
}

// ListWorkers returns workers, optionally only those with the given availability.
func (s *service) ListWorkers(ctx context.Context, availability *enums.Availability) ([]StaffDTO, error) {
	if availability != nil && !availability.IsValid() {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "availability", "InvalidChoice", "invalid availability")
	}
	workers, err := s.repo.ListWorkers(ctx, availability)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list workers")
	}
	out := make([]StaffDTO, 0, len(workers))
	for i := range workers {
		out = append(out, *FromRecord(&workers[i]))
	}
	return out, nil
}
