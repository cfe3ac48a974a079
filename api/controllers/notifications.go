package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/blazetaller/taller-backend/api/responses"
	"github.com/blazetaller/taller-backend/api/validators"
	"github.com/blazetaller/taller-backend/internal/notifications"
	"github.com/blazetaller/taller-backend/pkg/enums"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
	"github.com/blazetaller/taller-backend/pkg/logger"
	"github.com/blazetaller/taller-backend/pkg/pagination"
)

type createNotificationRequest struct {
	Message     string `json:"message" validate:"required"`
	DeviceToken string `json:"device_token" validate:"required,max=255"`
}

func CreateNotification(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}
		processID, err := validators.URLParamUUID(r, "processId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createNotificationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), notifications.CreateInput{
			ProcessID:   processID,
			Message:     body.Message,
			DeviceToken: body.DeviceToken,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ListNotifications returns a page of a process's notifications, newest first.
func ListNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}
		processID, err := validators.URLParamUUID(r, "processId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := notifications.ListParams{
			ProcessID: processID,
			Limit:     limit,
			Cursor:    validators.QueryString(r, "cursor"),
			Status:    enums.NotificationStatus(validators.QueryString(r, "status")),
		}

		resp, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

type notificationTransition func(ctx context.Context, id uuid.UUID) (*notifications.NotificationDTO, error)

func transitionNotification(pick func(notifications.Service) notificationTransition, svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}
		notificationID, err := validators.URLParamUUID(r, "notificationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := pick(svc)(r.Context(), notificationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func MarkNotificationSent(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionNotification(func(s notifications.Service) notificationTransition { return s.MarkSent }, svc, logg)
}

func MarkNotificationSeen(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionNotification(func(s notifications.Service) notificationTransition { return s.MarkSeen }, svc, logg)
}

func CancelNotification(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionNotification(func(s notifications.Service) notificationTransition { return s.Cancel }, svc, logg)
}
