package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrAuthenticationFailed is returned when the identity provider rejects
// the supplied credentials or token.
var ErrAuthenticationFailed = errors.New("authentication failed")

// FieldError is used to indicate an error with a specific struct field,
// or with a specific (row, column) cell of an uploaded table.
type FieldError struct {
	Field string
	Error string
}

// RowFieldError builds a FieldError locating a bad cell in an upload.
func RowFieldError(row int, column, msg string) FieldError {
	return FieldError{
		Field: fmt.Sprintf("row %d, column %q", row, column),
		Error: msg,
	}
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// ConflictError indicates an identity ambiguity across merged classes:
// one registration id mapped to differing student names.
type ConflictError struct {
	RegNo string
	Names [2]string
}

func NewConflictError(regNo, name1, name2 string) error {
	return &ConflictError{RegNo: regNo, Names: [2]string{name1, name2}}
}

func (err ConflictError) Error() string {
	return fmt.Sprintf("registration id %q maps to conflicting names %q and %q", err.RegNo, err.Names[0], err.Names[1])
}

// ExportError indicates an attempt to build a report document from an
// empty or invalid aggregate.
type ExportError struct {
	message string
}

func NewExportError(msg string) error {
	return &ExportError{message: msg}
}

func (err ExportError) Error() string {
	return err.message
}

// ExternalServiceError wraps a failure of an external collaborator
// (identity provider, mailer). Non-fatal to the pipeline.
type ExternalServiceError struct {
	Service string
	Err     error
}

func NewExternalServiceError(service string, err error) error {
	return &ExternalServiceError{Service: service, Err: err}
}

func (err ExternalServiceError) Error() string {
	if err.Err == nil {
		return err.Service + " service error"
	}
	return err.Service + ": " + err.Err.Error()
}

func (err ExternalServiceError) Unwrap() error { return err.Err }

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
