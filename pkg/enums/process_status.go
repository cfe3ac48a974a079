package enums

import "fmt"

// ProcessStatus maps to the process_status enum in Postgres.
type ProcessStatus string

const (
	ProcessStatusStarted    ProcessStatus = "iniciado"
	ProcessStatusInProgress ProcessStatus = "en_progreso"
	ProcessStatusCompleted  ProcessStatus = "completado"
	ProcessStatusPending    ProcessStatus = "pendiente"
)

var validProcessStatuses = []ProcessStatus{
	ProcessStatusStarted,
	ProcessStatusInProgress,
	ProcessStatusCompleted,
	ProcessStatusPending,
}

// String implements fmt.Stringer.
func (p ProcessStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProcessStatus.
func (p ProcessStatus) IsValid() bool {
	for _, candidate := range validProcessStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProcessStatus converts raw input into a ProcessStatus.
func ParseProcessStatus(value string) (ProcessStatus, error) {
	for _, candidate := range validProcessStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid process status %q", value)
}
