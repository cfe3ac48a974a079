package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
)

type Repository interface {
	Create(ctx context.Context, payment *models.Payment) error
	ProcessExists(ctx context.Context, processID uuid.UUID) (bool, error)
	ListByProcess(ctx context.Context, processID uuid.UUID) ([]models.Payment, error)
	ListByStatus(ctx context.Context, processID uuid.UUID, status enums.PaymentStatus) ([]models.Payment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) ProcessExists(ctx context.Context, processID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Process{}).Where("id = ?", processID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListByProcess(ctx context.Context, processID uuid.UUID) ([]models.Payment, error) {
	var rows []models.Payment
	err := r.db.WithContext(ctx).
		Where("process_id = ?", processID).
		Order("paid_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListByStatus(ctx context.Context, processID uuid.UUID, status enums.PaymentStatus) ([]models.Payment, error) {
	var rows []models.Payment
	err := r.db.WithContext(ctx).
		Where("process_id = ? AND status = ?", processID, status).
		Find(&rows).Error
	return rows, err
}
