package enums

import "fmt"

// NotificationStatus maps to the notification_status enum in Postgres.
type NotificationStatus string

const (
	NotificationStatusSent     NotificationStatus = "enviada"
	NotificationStatusPending  NotificationStatus = "pendiente"
	NotificationStatusSeen     NotificationStatus = "vista"
	NotificationStatusCanceled NotificationStatus = "cancelada"
)

var validNotificationStatuses = []NotificationStatus{
	NotificationStatusSent,
	NotificationStatusPending,
	NotificationStatusSeen,
	NotificationStatusCanceled,
}

// String implements fmt.Stringer.
func (n NotificationStatus) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationStatus.
func (n NotificationStatus) IsValid() bool {
	for _, candidate := range validNotificationStatuses {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationStatus converts raw input into a NotificationStatus.
func ParseNotificationStatus(value string) (NotificationStatus, error) {
	for _, candidate := range validNotificationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification status %q", value)
}

var notificationTransitions = map[NotificationStatus][]NotificationStatus{
	NotificationStatusPending: {NotificationStatusSent, NotificationStatusCanceled},
	NotificationStatusSent:    {NotificationStatusSeen},
}

// CanTransitionTo reports whether a notification may move from n to next.
func (n NotificationStatus) CanTransitionTo(next NotificationStatus) bool {
	for _, allowed := range notificationTransitions[n] {
		if allowed == next {
			return true
		}
	}
	return false
}
