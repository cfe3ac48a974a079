package enums

import "fmt"

// StaffStatus is the employment state of a staff member.
type StaffStatus string

const (
	StaffStatusActive    StaffStatus = "activo"
	StaffStatusInactive  StaffStatus = "inactivo"
	StaffStatusSuspended StaffStatus = "suspendido"
)

var validStaffStatuses = []StaffStatus{
	StaffStatusActive,
	StaffStatusInactive,
	StaffStatusSuspended,
}

// String implements fmt.Stringer.
func (s StaffStatus) String() string {
	return string(s)
}

// IsValid checks whether the given value matches the canonical enum.
func (s StaffStatus) IsValid() bool {
	for _, candidate := range validStaffStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStaffStatus converts raw input into a StaffStatus.
func ParseStaffStatus(value string) (StaffStatus, error) {
	for _, candidate := range validStaffStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff status %q", value)
}
