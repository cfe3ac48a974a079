package enums

import "fmt"

// StaffKind selects which role-detail table a staff record lives in.
type StaffKind string

const (
	StaffKindAdministrator StaffKind = "administrator"
	StaffKindSupervisor    StaffKind = "supervisor"
	StaffKindWorker        StaffKind = "worker"
)

var validStaffKinds = []StaffKind{
	StaffKindAdministrator,
	StaffKindSupervisor,
	StaffKindWorker,
}

func (s StaffKind) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StaffKind.
func (s StaffKind) IsValid() bool {
	for _, candidate := range validStaffKinds {
		if candidate == s {
			return true
		}
	}
	return false
}

// Role returns the profile role a staff record of this kind must belong to.
func (s StaffKind) Role() Role {
	switch s {
	case StaffKindAdministrator:
		return RoleAdmin
	case StaffKindSupervisor:
		return RoleSupervisor
	case StaffKindWorker:
		return RoleWorker
	}
	return ""
}

// ParseStaffKind converts raw input into a StaffKind.
func ParseStaffKind(value string) (StaffKind, error) {
	for _, candidate := range validStaffKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff kind %q", value)
}
