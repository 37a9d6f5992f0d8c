package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ucerrors "github.com/johnquangdev/meeting-archive/internal/usecase/errors"
)

// ErrorCode classifies an AppError for the tool surface.
type ErrorCode string

const (
	ErrorCode_NOT_FOUND           ErrorCode = "NOT_FOUND"
	ErrorCode_CONFLICT            ErrorCode = "CONFLICT"
	ErrorCode_INVALID_ARGUMENT    ErrorCode = "INVALID_ARGUMENT"
	ErrorCode_SOURCE_UNAVAILABLE  ErrorCode = "SOURCE_UNAVAILABLE"
	ErrorCode_STORAGE_UNAVAILABLE ErrorCode = "STORAGE_UNAVAILABLE"
	ErrorCode_INTERNAL            ErrorCode = "INTERNAL"
)

func (c ErrorCode) String() string {
	return string(c)
}

// AppError is the application error rendered back to the caller
type AppError struct {
	Raw       error
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the raw error to errors.Is / errors.As.
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Text renders the error as a single readable line followed by sorted details.
func (e AppError) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error [%s]: %s", e.Code.String(), e.Message)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "\n- %s: %s", k, e.Details[k])
		}
	}
	return b.String()
}

func ErrInternal(err error) AppError {
	return AppError{
		Raw:       err,
		Code:      ErrorCode_INTERNAL,
		Message:   "Internal error",
		Timestamp: time.Now().UTC(),
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		Code:      ErrorCode_INVALID_ARGUMENT,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		Code:      ErrorCode_NOT_FOUND,
		Message:   fmt.Sprintf("%s not found", resource),
		Timestamp: time.Now().UTC(),
	}
}

func ErrConflict(message string) AppError {
	return AppError{
		Code:      ErrorCode_CONFLICT,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

func ErrSourceUnavailable(err error) AppError {
	return AppError{
		Raw:       err,
		Code:      ErrorCode_SOURCE_UNAVAILABLE,
		Message:   "Transcript source is unavailable",
		Timestamp: time.Now().UTC(),
	}
}

func ErrStorageUnavailable(err error) AppError {
	return AppError{
		Raw:       err,
		Code:      ErrorCode_STORAGE_UNAVAILABLE,
		Message:   "Archive storage is unavailable",
		Timestamp: time.Now().UTC(),
	}
}

// FromError classifies err by the usecase sentinel chain. An AppError passes
// through unchanged.
func FromError(err error) AppError {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ucerrors.ErrNotFound):
		return AppError{Raw: err, Code: ErrorCode_NOT_FOUND, Message: err.Error(), Timestamp: time.Now().UTC()}
	case errors.Is(err, ucerrors.ErrConflict):
		return AppError{Raw: err, Code: ErrorCode_CONFLICT, Message: err.Error(), Timestamp: time.Now().UTC()}
	case errors.Is(err, ucerrors.ErrInvalidArgument):
		return AppError{Raw: err, Code: ErrorCode_INVALID_ARGUMENT, Message: err.Error(), Timestamp: time.Now().UTC()}
	case errors.Is(err, ucerrors.ErrSourceUnavailable):
		return ErrSourceUnavailable(err).WithDetail("cause", err.Error())
	case errors.Is(err, ucerrors.ErrStorageUnavailable):
		return ErrStorageUnavailable(err).WithDetail("cause", err.Error())
	default:
		return ErrInternal(err).WithDetail("cause", err.Error())
	}
}
