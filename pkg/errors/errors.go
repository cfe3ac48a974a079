package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation           Code = "VALIDATION_ERROR"
	CodeNotFound             Code = "NOT_FOUND"
	CodeConflict             Code = "CONFLICT"
	CodeStateConflict        Code = "STATE_CONFLICT"
	CodeMissingConfiguration Code = "MISSING_CONFIGURATION"
	CodeInternal             Code = "INTERNAL_ERROR"
	CodeDependency           Code = "DEPENDENCY_ERROR"
)

// Metadata is how a Code surfaces over HTTP.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:           {http.StatusBadRequest, false, "validation failed", true},
	CodeNotFound:             {http.StatusNotFound, false, "resource not found", false},
	CodeConflict:             {http.StatusConflict, false, "conflict detected", true},
	CodeStateConflict:        {http.StatusUnprocessableEntity, true, "state transition disallowed", true},
	CodeMissingConfiguration: {http.StatusServiceUnavailable, false, "service misconfigured", false},
	CodeInternal:             {http.StatusInternalServerError, true, "internal server error", false},
	CodeDependency:           {http.StatusServiceUnavailable, true, "dependency unavailable", true},
}

// MetadataFor falls back to CodeInternal for unknown codes.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

// FieldDetail names the offending field of a user-correctable error.
type FieldDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

// Field builds an error whose details carry the field and machine-readable reason.
func Field(code Code, field, reason, message string) *Error {
	return New(code, message).WithDetails(FieldDetail{Field: field, Reason: reason})
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// Reason returns the FieldDetail reason when the details carry one.
func (e *Error) Reason() string {
	if e == nil {
		return ""
	}
	if fd, ok := e.details.(FieldDetail); ok {
		return fd.Reason
	}
	return ""
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
