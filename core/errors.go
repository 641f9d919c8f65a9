package core

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is a normal outcome for lookups; callers treat it as an empty result.
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("a user with this email already exists")
	ErrForbidden       = errors.New("permission denied")
	ErrUnauthenticated = errors.New("not authenticated")
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
			return fmt.Sprintf("%s: %s", err.Fields[0].Field, err.Fields[0].Error)
		}
		return "validation failed"
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

// PersistenceError reports a failed write or read against the remote store.
// Op names the gateway operation, e.g. "create item".
type PersistenceError struct {
	Op  string
	Err error
}

func NewPersistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

func (err PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", err.Op, err.Err)
}

func (err PersistenceError) Unwrap() error { return err.Err }

// UploadError reports a failed file upload to the object store.
type UploadError struct {
	Name string
	Err  error
}

func NewUploadError(name string, err error) error {
	return &UploadError{Name: name, Err: err}
}

func (err UploadError) Error() string {
	return fmt.Sprintf("uploading %q: %v", err.Name, err.Err)
}

func (err UploadError) Unwrap() error { return err.Err }

// IsPersistence reports whether err, or any error it wraps, is a *PersistenceError.
func IsPersistence(err error) bool {
	var perr *PersistenceError
	return errors.As(err, &perr)
}

// IsUpload reports whether err, or any error it wraps, is an *UploadError.
func IsUpload(err error) bool {
	var uerr *UploadError
	return errors.As(err, &uerr)
}

// IsValidation reports whether err, or any error it wraps, is a *ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
