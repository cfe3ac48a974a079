package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/blazetaller/taller-backend/pkg/db/models"
	"github.com/blazetaller/taller-backend/pkg/enums"
	"github.com/blazetaller/taller-backend/pkg/pagination"
)

// Repository exposes persistence helpers for notifications.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notification *models.Notification) error
	LinkProcess(ctx context.Context, processID, notificationID uuid.UUID) error
	ProcessExists(ctx context.Context, processID uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error)
	Transition(ctx context.Context, id uuid.UUID, from, to enums.NotificationStatus) (bool, error)
	CancelPendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listNotificationsParams struct {
	ProcessID uuid.UUID
	Status    enums.NotificationStatus
	Limit     int
	Cursor    *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *repositoryImpl) LinkProcess(ctx context.Context, processID, notificationID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProcessNotification{ProcessID: processID, NotificationID: notificationID}).Error
}

func (r *repositoryImpl) ProcessExists(ctx context.Context, processID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Process{}).Where("id = ?", processID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// List returns one page ordered newest first. The returned cursor points at
// the last row of the page and is nil when no rows follow it.
func (r *repositoryImpl) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Notification{}).Where("process_id = ?", params.ProcessID)
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("sent_at < ? OR (sent_at = ? AND id < ?)",
			params.Cursor.At, params.Cursor.At, params.Cursor.ID)
	}

	var notifications []models.Notification
	if err := query.Order("sent_at DESC, id DESC").Limit(normalized + 1).Find(&notifications).Error; err != nil {
		return nil, nil, err
	}

	rows, next := pagination.Trim(notifications, normalized, func(n models.Notification) pagination.Cursor {
		return pagination.Cursor{At: n.SentAt, ID: n.ID}
	})
	return rows, next, nil
}

// Transition moves the notification from one status to another and reports
// whether a row changed.
func (r *repositoryImpl) Transition(ctx context.Context, id uuid.UUID, from, to enums.NotificationStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CancelPendingBefore cancels pendiente notifications created before cutoff.
func (r *repositoryImpl) CancelPendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("status = ? AND sent_at < ?", enums.NotificationStatusPending, cutoff).
		Update("status", enums.NotificationStatusCanceled)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
