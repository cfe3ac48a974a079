package enums

import "fmt"

// FuelType is the fuel a vehicle runs on.
type FuelType string

const (
	FuelTypeGasoline FuelType = "bencina"
	FuelTypeDiesel   FuelType = "diesel"
)

var validFuelTypes = []FuelType{
	FuelTypeGasoline,
	FuelTypeDiesel,
}

// String implements fmt.Stringer.
func (f FuelType) String() string {
	return string(f)
}

// IsValid checks whether the given value matches the canonical enum.
func (f FuelType) IsValid() bool {
	for _, candidate := range validFuelTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFuelType converts raw input into a FuelType.
func ParseFuelType(value string) (FuelType, error) {
	for _, candidate := range validFuelTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fuel type %q", value)
}
