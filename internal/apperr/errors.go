// Package apperr defines the error taxonomy shared by the service and API layers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Kind classifies an error into the outcome category the caller sees.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindInvalidInput Kind = "INVALID_INPUT"
	KindStoreFailure Kind = "STORE_FAILURE"
)

// Error is an application error carrying its kind and the entity it concerns.
type Error struct {
	Kind     Kind
	Resource string
	Key      string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status for the error kind.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NotFound reports that resource identified by key does not exist.
func NotFound(resource string, key any) *Error {
	k := fmt.Sprint(key)
	return &Error{
		Kind:     KindNotFound,
		Resource: resource,
		Key:      k,
		Message:  fmt.Sprintf("%s not found: %s", resource, k),
	}
}

// Conflict reports that key collides with an existing resource.
func Conflict(resource string, key any) *Error {
	k := fmt.Sprint(key)
	return &Error{
		Kind:     KindConflict,
		Resource: resource,
		Key:      k,
		Message:  fmt.Sprintf("%s '%s' already exists", resource, k),
	}
}

// InUse reports that resource is still referenced and cannot be removed.
func InUse(resource string, key any) *Error {
	k := fmt.Sprint(key)
	return &Error{
		Kind:     KindConflict,
		Resource: resource,
		Key:      k,
		Message:  fmt.Sprintf("%s %s is still used by a recipe", resource, k),
	}
}

// Invalid reports a malformed request payload.
func Invalid(format string, args ...any) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Message: fmt.Sprintf(format, args...),
	}
}

// Store wraps an infrastructure failure of the relational or object store.
func Store(op string, err error) *Error {
	return &Error{
		Kind:    KindStoreFailure,
		Message: fmt.Sprintf("failed to %s", op),
		Err:     err,
	}
}

// FromStore converts an error returned by the store. Application errors pass
// through unchanged and unique-constraint violations become conflicts.
func FromStore(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &Error{
			Kind:    KindConflict,
			Message: fmt.Sprintf("failed to %s: duplicate key", op),
			Err:     err,
		}
	}
	return Store(op, err)
}

// KindOf returns the kind of err, or KindStoreFailure for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStoreFailure
}

// Is reports whether err is an application error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
