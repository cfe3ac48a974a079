package db

import (
	"errors"
	"strings"

	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateCheckViolation      = "23514"
	sqlStateExclusionViolation  = "23P01"
	sqlStateNumericOutOfRange   = "22003"
)

// IsUniqueViolation reports whether the provided error references a unique
// violation. When constraintName is provided, the helper looks for the
// constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if diag, ok := pkgerrors.PostgresDiagnostics(err); ok {
		if diag.Code != sqlStateUniqueViolation {
			return false
		}
		return constraintName == "" || diag.Constraint == constraintName || strings.Contains(diag.Message, constraintName)
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return constraintName == "" || strings.Contains(msg, constraintName)
}

// IsForeignKeyViolation reports whether err was raised by a missing parent row.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if diag, ok := pkgerrors.PostgresDiagnostics(err); ok {
		return diag.Code == sqlStateForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// IsCheckViolation reports whether err was raised by a CHECK or exclusion constraint.
func IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	if diag, ok := pkgerrors.PostgresDiagnostics(err); ok {
		return diag.Code == sqlStateCheckViolation || diag.Code == sqlStateExclusionViolation
	}
	return strings.Contains(err.Error(), "CHECK constraint failed")
}

// IsNumericOutOfRange reports whether err was raised by a value that does not
// fit its numeric column.
func IsNumericOutOfRange(err error) bool {
	diag, ok := pkgerrors.PostgresDiagnostics(err)
	return ok && diag.Code == sqlStateNumericOutOfRange
}

// TranslateError maps store errors onto typed errors. Errors that are already
// typed pass through untouched; anything unrecognised becomes CodeInternal.
func TranslateError(err error, message string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, message)
	case IsUniqueViolation(err, ""), IsCheckViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, message)
	case IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, message)
	case IsNumericOutOfRange(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, message).
			WithDetails(pkgerrors.FieldDetail{Field: numericColumn(err), Reason: "OutOfRange"})
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, message)
}

func numericColumn(err error) string {
	if diag, ok := pkgerrors.PostgresDiagnostics(err); ok && diag.Column != "" {
		return diag.Column
	}
	return "amount"
}
