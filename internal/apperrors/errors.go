package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrDuplicateNumber indicates that a generated document number collided with a stored one.
// It wraps ErrDuplicate so callers checking for generic duplicates still match.
var ErrDuplicateNumber = fmt.Errorf("%w: document number already in use", ErrDuplicate)

// ErrAggregateConflict indicates that a project roll-up could not be applied
// because of a concurrent writer (serialization failure, deadlock or lock timeout).
var ErrAggregateConflict = errors.New("project aggregate update conflict")

// Error kinds reported to callers. They are stable strings used in API responses.
const (
	KindValidation        = "validation"
	KindNotFound          = "not_found"
	KindDuplicate         = "duplicate"
	KindDuplicateNumber   = "duplicate_number"
	KindAggregateConflict = "aggregate_conflict"
	KindInternal          = "internal"
)

// AppError carries an HTTP-ish status code and a safe message alongside the cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Kind classifies err into one of the Kind* constants.
// ErrDuplicateNumber is checked before ErrDuplicate since it wraps it.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateNumber):
		return KindDuplicateNumber
	case errors.Is(err, ErrDuplicate):
		return KindDuplicate
	case errors.Is(err, ErrAggregateConflict):
		return KindAggregateConflict
	default:
		return KindInternal
	}
}
