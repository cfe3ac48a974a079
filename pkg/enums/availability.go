package enums

import "fmt"

// Availability describes whether a staff member can take work.
type Availability string

const (
	AvailabilityAvailable  Availability = "disponible"
	AvailabilityBusy       Availability = "ocupado"
	AvailabilityOnVacation Availability = "en_vacaciones"
)

var validAvailabilities = []Availability{
	AvailabilityAvailable,
	AvailabilityBusy,
	AvailabilityOnVacation,
}

func (a Availability) String() string {
	return string(a)
}

// IsValid reports whether the value is a known Availability.
func (a Availability) IsValid() bool {
	for _, candidate := range validAvailabilities {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAvailability converts raw input into a Availability.
func ParseAvailability(value string) (Availability, error) {
	for _, candidate := range validAvailabilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid availability %q", value)
}
