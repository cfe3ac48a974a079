package processes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/blazetaller/taller-backend/pkg/db/models"
)

// Repository persists repair processes and their notification links.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, process *models.Process) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Process, error)
	Save(ctx context.Context, process *models.Process) error
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]models.Process, error)
	WorkerExists(ctx context.Context, workerID uuid.UUID) (bool, error)
	VehicleExists(ctx context.Context, vehicleID uuid.UUID) (bool, error)
	NotificationExists(ctx context.Context, notificationID uuid.UUID) (bool, error)
	Link(ctx context.Context, processID, notificationID uuid.UUID) (bool, error)
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

func (r *repository) Create(ctx context.Context, process *models.Process) error {
	return r.db.WithContext(ctx).Create(process).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Process, error) {
	var process models.Process
	if err := r.db.WithContext(ctx).First(&process, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &process, nil
}

func (r *repository) Save(ctx context.Context, process *models.Process) error {
	return r.db.WithContext(ctx).Save(process).Error
}

func (r *repository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]models.Process, error) {
	var rows []models.Process
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("started_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) exists(ctx context.Context, model any, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) WorkerExists(ctx context.Context, workerID uuid.UUID) (bool, error) {
	return r.exists(ctx, &models.Worker{}, workerID)
}

func (r *repository) VehicleExists(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	return r.exists(ctx, &models.Vehicle{}, vehicleID)
}

func (r *repository) NotificationExists(ctx context.Context, notificationID uuid.UUID) (bool, error) {
	return r.exists(ctx, &models.Notification{}, notificationID)
}

// Link inserts the join row and reports whether it was new.
func (r *repository) Link(ctx context.Context, processID, notificationID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProcessNotification{ProcessID: processID, NotificationID: notificationID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
