package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/blazetaller/taller-backend/pkg/logger"
)

const defaultNotificationMaxAge = 72 * time.Hour

type notificationExpirer interface {
	ExpirePending(ctx context.Context, maxAge time.Duration) (int64, error)
}

type NotificationExpiryJobParams struct {
	Logger        *logger.Logger
	Notifications notificationExpirer
	MaxAge        time.Duration
}

// NewNotificationExpiryJob builds the job that cancels notifications stuck in
// pendiente for longer than MaxAge.
func NewNotificationExpiryJob(params NotificationExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications service required")
	}
	maxAge := params.MaxAge
	if maxAge <= 0 {
		maxAge = defaultNotificationMaxAge
	}
	return &notificationExpiryJob{
		logg:          params.Logger,
		notifications: params.Notifications,
		maxAge:        maxAge,
	}, nil
}

type notificationExpiryJob struct {
	logg          *logger.Logger
	notifications notificationExpirer
	maxAge        time.Duration
}

func (j *notificationExpiryJob) Name() string { return "notification-expiry" }

func (j *notificationExpiryJob) Run(ctx context.Context) (int64, error) {
	cancelled, err := j.notifications.ExpirePending(ctx, j.maxAge)
	if err != nil {
		return 0, fmt.Errorf("notification expiry: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"max_age_hours": j.maxAge.Hours(),
		"cancelled":     cancelled,
	})
	j.logg.Info(logCtx, "notification expiry complete")
	return cancelled, nil
}
