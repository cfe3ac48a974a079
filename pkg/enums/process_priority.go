package enums

import "fmt"

// ProcessPriority orders repair jobs in the shop queue.
type ProcessPriority string

const (
	ProcessPriorityHigh   ProcessPriority = "alta"
	ProcessPriorityMedium ProcessPriority = "media"
	ProcessPriorityLow    ProcessPriority = "baja"
)

var validProcessPriorities = []ProcessPriority{
	ProcessPriorityHigh,
	ProcessPriorityMedium,
	ProcessPriorityLow,
}

// String implements fmt.Stringer.
func (p ProcessPriority) String() string {
	return string(p)
}

// IsValid checks whether the given value matches the canonical enum.
func (p ProcessPriority) IsValid() bool {
	for _, candidate := range validProcessPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProcessPriority converts raw input into a ProcessPriority.
func ParseProcessPriority(value string) (ProcessPriority, error) {
	for _, candidate := range validProcessPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid process priority %q", value)
}
