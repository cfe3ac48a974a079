package enums

import "fmt"

// AppointmentStatus tracks the lifecycle of a shop appointment.
type AppointmentStatus string

const (
	AppointmentStatusConfirmed AppointmentStatus = "confirmada"
	AppointmentStatusPending   AppointmentStatus = "pendiente"
	AppointmentStatusCanceled  AppointmentStatus = "cancelada"
	AppointmentStatusCompleted AppointmentStatus = "completada"
)

var validAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusConfirmed,
	AppointmentStatusPending,
	AppointmentStatusCanceled,
	AppointmentStatusCompleted,
}

func (a AppointmentStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AppointmentStatus.
func (a AppointmentStatus) IsValid() bool {
	for _, candidate := range validAppointmentStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAppointmentStatus converts raw input into a AppointmentStatus.
func ParseAppointmentStatus(value string) (AppointmentStatus, error) {
	for _, candidate := range validAppointmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid appointment status %q", value)
}

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCanceled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCanceled},
}

// CanTransitionTo reports whether an appointment may move from a to next.
func (a AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[a] {
		if allowed == next {
			return true
		}
	}
	return false
}
