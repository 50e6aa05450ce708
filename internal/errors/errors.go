package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context, keeping the code of a wrapped AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode attaches a code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes
const (
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeNumericDegenerate = "NUMERIC_DEGENERATE"
	CodeUnreadableInput   = "UNREADABLE_INPUT"
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeStorageError      = "STORAGE_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Common error constructors

// InvalidArgument reports an unsupported option or parameter value
func InvalidArgument(format string, args ...interface{}) *AppError {
	return Newf(CodeInvalidArgument, format, args...)
}

// InvalidInput reports malformed sample data, wrapping a domain cause
func InvalidInput(message string, cause error) *AppError {
	return &AppError{Code: CodeInvalidInput, Message: message, Cause: cause}
}

// NumericDegenerate reports data that makes a computation impossible
func NumericDegenerate(message string, cause error) *AppError {
	return &AppError{Code: CodeNumericDegenerate, Message: message, Cause: cause}
}

func UnreadableInput(message string, cause error) *AppError {
	return &AppError{Code: CodeUnreadableInput, Message: message, Cause: cause}
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func StorageError(message string, cause error) *AppError {
	return &AppError{Code: CodeStorageError, Message: message, Cause: cause}
}

