package owners

import (
	"regexp"
	"strings"

	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
)

var rutPattern = regexp.MustCompile(`^\d{7,8}-[0-9kK]$`)

// ValidateRUT checks the national ID shape 12345678-9. The store carries the
// same pattern as a CHECK constraint, so a mismatch is reported as a conflict.
func ValidateRUT(rut string) error {
	if !rutPattern.MatchString(strings.TrimSpace(rut)) {
		return pkgerrors.Field(pkgerrors.CodeConflict, "rut", "InvalidRUT", "rut must look like 12345678-9")
	}
	return nil
}
