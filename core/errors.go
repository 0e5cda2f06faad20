package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
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
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// NotFoundError is returned when the requested record does not exist.
type NotFoundError struct {
	msg string
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{msg: msg}
}

func (err NotFoundError) Error() string {
	return err.msg
}

// ForbiddenError is returned when the acting account may not touch the target record.
type ForbiddenError struct {
	msg string
}

func NewForbiddenError(msg string) error {
	return &ForbiddenError{msg: msg}
}

func (err ForbiddenError) Error() string {
	return err.msg
}

// PersistenceError wraps a failure to read or write the backing file.
// In-memory state stays authoritative when a write fails.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func NewPersistenceError(op, path string, err error) error {
	return &PersistenceError{Op: op, Path: path, Err: err}
}

func (err PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", err.Op, err.Path, err.Err)
}

func (err PersistenceError) Unwrap() error {
	return err.Err
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

func IsForbidden(err error) bool {
	_, ok := errors.Cause(err).(*ForbiddenError)
	return ok
}

func IsPersistence(err error) bool {
	_, ok := errors.Cause(err).(*PersistenceError)
	return ok
}
