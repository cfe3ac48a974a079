package enums

import "fmt"

// Role is the profile role that drives permission-group membership.
type Role string

const (
	RoleClient     Role = "cliente"
	RoleOwner      Role = "dueño"
	RoleAdmin      Role = "administrador"
	RoleWorker     Role = "trabajador"
	RoleSupervisor Role = "supervisor"
)

// DefaultRole is assigned to profiles created without an explicit role.
const DefaultRole = RoleClient

const (
	GroupClients        = "Clientes"
	GroupAdministrators = "Administradores"
	GroupWorkers        = "Trabajadores"
	GroupSupervisors    = "Supervisores"
)

var validRoles = []Role{
	RoleClient,
	RoleOwner,
	RoleAdmin,
	RoleWorker,
	RoleSupervisor,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// GroupName returns the permission group a newly provisioned profile joins.
// RoleOwner has no mapped group; callers must treat ok=false as "join nothing".
func (r Role) GroupName() (string, bool) {
	switch r {
	case RoleClient:
		return GroupClients, true
	case RoleAdmin:
		return GroupAdministrators, true
	case RoleWorker:
		return GroupWorkers, true
	case RoleSupervisor:
		return GroupSupervisors, true
	case RoleOwner:
		return "", false
	}
	return "", false
}

// RequiredGroups lists every group a role maps to. They must exist before
// any user is provisioned.
func RequiredGroups() []string {
	groups := make([]string, 0, len(validRoles))
	for _, role := range validRoles {
		if name, ok := role.GroupName(); ok {
			groups = append(groups, name)
		}
	}
	return groups
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
