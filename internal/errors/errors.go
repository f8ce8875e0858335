package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is an error carrying a stable code that callers and the CLI can
// switch on without parsing messages
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeNotFound      = "NOT_FOUND"
	CodeUnsupported   = "UNSUPPORTED_FORMAT"
	CodeInternalError = "INTERNAL_ERROR"
	CodeUnknown       = "UNKNOWN"
)

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap adds context to err. The code of the outermost AppError in the chain
// is kept; foreign errors become INTERNAL_ERROR.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	code := CodeInternalError
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		code = appErr.Code
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode wraps err so that its code becomes code
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Cause: err}
}

// GetCode returns the code of the outermost AppError in err's chain, or
// UNKNOWN
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// HasCode reports whether err carries code
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func Unsupported(format string) *AppError {
	return New(CodeUnsupported, fmt.Sprintf("unsupported format %q", format))
}
