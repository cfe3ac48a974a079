package vehicles

import (
	"regexp"
	"time"

	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
)

// MinYear is the year of the first production automobile.
const MinYear = 1886

const (
	ReasonInvalidYear        = "InvalidYear"
	ReasonInvalidPlateFormat = "InvalidPlateFormat"
)

// Two letters and four digits (AB1234) or four letters and two digits (BCDF12).
var platePattern = regexp.MustCompile(`^(?:[A-Z]{2}\d{4}|[A-Z]{4}\d{2})$`)

// ValidateYear accepts MinYear through the current calendar year of now.
func ValidateYear(year int, now time.Time) error {
	if year < MinYear || year > now.Year() {
		return pkgerrors.Field(pkgerrors.CodeValidation, "year", ReasonInvalidYear, "invalid vehicle year")
	}
	return nil
}

// ValidatePlate accepts exactly the two Chilean plate shapes.
func ValidatePlate(plate string) error {
	if !platePattern.MatchString(plate) {
		return pkgerrors.Field(pkgerrors.CodeValidation, "plate", ReasonInvalidPlateFormat, "plate must look like AB1234 or ABCD12")
	}
	return nil
}

// ValidateVehicle runs the year check and then the plate check.
func ValidateVehicle(plate string, year int, now time.Time) error {
	if err := ValidateYear(year, now); err != nil {
		return err
	}
	return ValidatePlate(plate)
}
