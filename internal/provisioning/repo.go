package provisioning

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
)

// Repository persists profiles and resolves permission groups.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	EnsureProfile(ctx context.Context, userID uuid.UUID, role enums.Role) (*models.Profile, bool, error)
	FindProfileByUser(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	FindGroupByName(ctx context.Context, name string) (*models.Group, error)
	ListGroupsByName(ctx context.Context, names []string) ([]models.Group, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the provisioning repository to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// EnsureProfile inserts the profile unless one already exists for the user,
// then reads back whichever row won. created reports whether this call
// inserted it.
func (r *repository) EnsureProfile(ctx context.Context, userID uuid.UUID, role enums.Role) (*models.Profile, bool, error) {
	candidate := models.Profile{
		ID:     uuid.New(),
		UserID: userID,
		Role:   role,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&candidate)
	if result.Error != nil {
		return nil, false, result.Error
	}

	profile, err := r.FindProfileByUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return profile, result.RowsAffected > 0, nil
}

func (r *repository) FindProfileByUser(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) FindGroupByName(ctx context.Context, name string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *repository) ListGroupsByName(ctx context.Context, names []string) ([]models.Group, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var groups []models.Group
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}
