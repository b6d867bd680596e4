// Package apperr defines the error kinds returned by the counselling services.
package apperr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Kind string

const (
	KindValidation     Kind = "validation"
	KindNotFound       Kind = "not_found"
	KindInvalidState   Kind = "invalid_state"
	KindPartialFailure Kind = "partial_failure"
	KindInternal       Kind = "internal"
)

// Error is the error value every service operation returns.
type Error struct {
	Kind    Kind
	Message string
	// FailedIDs is only set for KindPartialFailure.
	FailedIDs []string
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil && e.Kind == KindInternal {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func Partial(message string, failedIDs []string) *Error {
	return &Error{Kind: KindPartialFailure, Message: message, FailedIDs: failedIDs}
}

func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// KindOf returns the kind of err; plain errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FromDB classifies a store error. what names the entity for not-found messages.
func FromDB(err error, what string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("%s not found", what)
	}
	// 23505 = unique_violation, 23503 = foreign_key_violation
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &Error{Kind: KindValidation, Message: fmt.Sprintf("duplicate %s", what), cause: err}
		case "23503":
			return &Error{Kind: KindValidation, Message: fmt.Sprintf("%s references a missing record", what), cause: err}
		}
	}
	return Internal(fmt.Sprintf("%s store failure", what), err)
}
