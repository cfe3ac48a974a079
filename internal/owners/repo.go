package owners

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blazetaller/taller-backend/pkg/db/models"
)

// Repository persists owner records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, owner *models.Owner) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Owner, error)
	FindProfile(ctx context.Context, profileID uuid.UUID) (*models.Profile, error)
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
	ListVehicles(ctx context.Context, ownerID uuid.UUID) ([]models.Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the owners repository to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, owner *models.Owner) error {
	return r.db.WithContext(ctx).Create(owner).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Owner, error) {
	var owner models.Owner
	if err := r.db.WithContext(ctx).First(&owner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *repository) FindProfile(ctx context.Context, profileID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", profileID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListVehicles(ctx context.Context, ownerID uuid.UUID) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("plate ASC").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Delete removes the owner row. Vehicles and everything below them are
// removed by the ON DELETE CASCADE foreign keys.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Owner{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
