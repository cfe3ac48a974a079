package staff

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
)

// Repository persists administrator, supervisor and worker records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, kind enums.StaffKind, profileID uuid.UUID, detail models.StaffDetail) (any, error)
	FindByID(ctx context.Context, kind enums.StaffKind, id uuid.UUID) (any, error)
	FindProfile(ctx context.Context, profileID uuid.UUID) (*models.Profile, error)
	ListWorkers(ctx context.Context, availability *enums.Availability) ([]models.Worker, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the staff repository to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func newRecord(kind enums.StaffKind) (any, error) {
	switch kind {
	case enums.StaffKindAdministrator:
		return &models.Administrator{}, nil
	case enums.StaffKindSupervisor:
		return &models.Supervisor{}, nil
	case enums.StaffKindWorker:
		return &models.Worker{}, nil
	}
	return nil, fmt.Errorf("unknown staff kind %q", kind)
}

func (r *repository) Create(ctx context.Context, kind enums.StaffKind, profileID uuid.UUID, detail models.StaffDetail) (any, error) {
	var record any
	switch kind {
	case enums.StaffKindAdministrator:
		record = &models.Administrator{ID: uuid.New(), ProfileID: profileID, StaffDetail: detail}
	case enums.StaffKindSupervisor:
		record = &models.Supervisor{ID: uuid.New(), ProfileID: profileID, StaffDetail: detail}
	case enums.StaffKindWorker:
		record = &models.Worker{ID: uuid.New(), ProfileID: profileID, StaffDetail: detail}
	default:
		return nil, fmt.Errorf("unknown staff kind %q", kind)
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *repository) FindByID(ctx context.Context, kind enums.StaffKind, id uuid.UUID) (any, error) {
	record, err := newRecord(kind)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).First(record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *repository) FindProfile(ctx context.Context, profileID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", profileID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) ListWorkers(ctx context.Context, availability *enums.Availability) ([]models.Worker, error) {
	query := r.db.WithContext(ctx).Model(&models.Worker{})
	if availability != nil {
		query = query.Where("availability = ?", *availability)
	}
	var workers []models.Worker
	if err := query.Order("last_name ASC, first_name ASC").Find(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}
