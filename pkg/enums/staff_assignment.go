package enums

import "fmt"

// StaffAssignment is the trade a staff member is assigned to.
type StaffAssignment string

const (
	StaffAssignmentMechanic    StaffAssignment = "mecanico"
	StaffAssignmentPainter     StaffAssignment = "pintor"
	StaffAssignmentElectrician StaffAssignment = "electrico"
	StaffAssignmentShopManager StaffAssignment = "jefe_taller"
)

var validStaffAssignments = []StaffAssignment{
	StaffAssignmentMechanic,
	StaffAssignmentPainter,
	StaffAssignmentElectrician,
	StaffAssignmentShopManager,
}

// String implements fmt.Stringer.
func (s StaffAssignment) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StaffAssignment.
func (s StaffAssignment) IsValid() bool {
	for _, candidate := range validStaffAssignments {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStaffAssignment converts raw input into a StaffAssignment.
func ParseStaffAssignment(value string) (StaffAssignment, error) {
	for _, candidate := range validStaffAssignments {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff assignment %q", value)
}
