package notifications

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
	"github.com/blazetaller/taller-backend/pkg/pagination"
)

// Service defines notification create/list/transition operations. Delivery
// to the device happens elsewhere; this service only records state.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*NotificationDTO, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkSent(ctx context.Context, id uuid.UUID) (*NotificationDTO, error)
	MarkSeen(ctx context.Context, id uuid.UUID) (*NotificationDTO, error)
	Cancel(ctx context.Context, id uuid.UUID) (*NotificationDTO, error)
	ExpirePending(ctx context.Context, maxAge time.Duration) (int64, error)
}

type service struct {
	repo Repository
	tx   db.TxRunner
	now  func() time.Time
}

// CreateInput describes a push message for a repair process.
type CreateInput struct {
	ProcessID   uuid.UUID `json:"process_id" validate:"required"`
	Message     string    `json:"message" validate:"required"`
	DeviceToken string    `json:"device_token" validate:"required,max=255"`
}

// ListParams configures pagination for notifications.
type ListParams struct {
	ProcessID uuid.UUID
	Status    enums.NotificationStatus
	Limit     int
	Cursor    string
}

type NotificationDTO struct {
	ID        uuid.UUID                `json:"id"`
	ProcessID uuid.UUID                `json:"process_id"`
	Message   string                   `json:"message"`
	Status    enums.NotificationStatus `json:"status"`
	SentAt    time.Time                `json:"sent_at"`
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []NotificationDTO `json:"items"`
	Cursor string            `json:"cursor"`
}

func fromModel(n *models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		ProcessID: n.ProcessID,
		Message:   n.Message,
		Status:    n.Status,
		SentAt:    n.SentAt,
	}
}

// NewService wires notifications dependencies.
func NewService(repo Repository, tx db.TxRunner, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifications repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, tx: tx, now: now}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*NotificationDTO, error) {
	message := strings.TrimSpace(input.Message)
	token := strings.TrimSpace(input.DeviceToken)
	if message == "" {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "message", "Required", "message required")
	}
	if token == "" {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "device_token", "Required", "device token required")
	}
	if len(token) > 255 {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "device_token", "TooLong", "device token too long")
	}

	notification := &models.Notification{
		ID:          uuid.New(),
		ProcessID:   input.ProcessID,
		Message:     message,
		Status:      enums.NotificationStatusPending,
		DeviceToken: token,
		SentAt:      s.now().UTC(),
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		exists, err := repo.ProcessExists(ctx, input.ProcessID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check process")
		}
		if !exists {
			return pkgerrors.Field(pkgerrors.CodeNotFound, "process_id", "UnknownProcess", "process not found")
		}
		if err := repo.Create(ctx, notification); err != nil {
			return db.TranslateError(err, "create notification")
		}
		if err := repo.LinkProcess(ctx, input.ProcessID, notification.ID); err != nil {
			return db.TranslateError(err, "link notification")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := fromModel(notification)
	return &dto, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.ProcessID == uuid.Nil {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "process_id", "Required", "process id required")
	}
	if params.Status != "" && !params.Status.IsValid() {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "status", "InvalidChoice", "invalid notification status")
	}

	query := listNotificationsParams{
		ProcessID: params.ProcessID,
		Status:    params.Status,
		Limit:     params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = next.Encode()
	}

	items := make([]NotificationDTO, 0, len(rows))
	for i := range rows {
		items = append(items, fromModel(&rows[i]))
	}
	return &ListResult{
		Items:  items,
		Cursor: cursor,
	}, nil
}

func (s *service) MarkSent(ctx context.Context, id uuid.UUID) (*NotificationDTO, error) {
	return s.transition(ctx, id, enums.NotificationStatusSent)
}

func (s *service) MarkSeen(ctx context.Context, id uuid.UUID) (*NotificationDTO, error) {
	return s.transition(ctx, id, enums.NotificationStatusSeen)
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*NotificationDTO, error) {
	return s.transition(ctx, id, enums.NotificationStatusCanceled)
}

// ExpirePending cancels notifications that stayed pendiente for longer than
// maxAge and returns how many were cancelled.
func (s *service) ExpirePending(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		return 0, pkgerrors.Field(pkgerrors.CodeValidation, "max_age", "NotPositive", "max age must be positive")
	}
	cutoff := s.now().UTC().Add(-maxAge)
	var cancelled int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := s.repo.WithTx(tx).CancelPendingBefore(ctx, cutoff)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire pending notifications")
		}
		cancelled = rows
		return nil
	})
	if err != nil {
		return 0, err
	}
	return cancelled, nil
}

func (s *service) transition(ctx context.Context, id uuid.UUID, to enums.NotificationStatus) (*NotificationDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	var notification *models.Notification
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		notification, err = repo.FindByID(ctx, id)
		if err != nil {
			return db.TranslateError(err, "notification not found")
		}
		from := notification.Status
		if !from.CanTransitionTo(to) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "notification status transition not allowed").
				WithDetails(map[string]any{"from": from, "to": to})
		}
		updated, err := repo.Transition(ctx, id, from, to)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update notification")
		}
		if !updated {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "notification was modified concurrently")
		}
		notification.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := fromModel(notification)
	return &dto, nil
}
