package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified seqkit error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code.
// This lets the package sentinels match any error of their kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Sentinels for errors.Is matching.
var (
	ErrNotFound        = New(ErrCodeNotFound, "no such element")
	ErrAmbiguous       = New(ErrCodeAmbiguous, "expected a single element")
	ErrOutOfBounds     = New(ErrCodeOutOfBounds, "index out of bounds")
	ErrInvalidArgument = New(ErrCodeInvalidArgument, "invalid argument")
	ErrInvalidConfig   = New(ErrCodeInvalidConfig, "invalid configuration")
)

// --- Common Error Constructors ---

// NotFound creates a new AppError for an operation that found no matching element.
func NotFound(operation string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: "No such element",
		Details: map[string]any{"operation": operation},
	}
}

// Ambiguous creates a new AppError for an operation that expected exactly one match.
func Ambiguous(operation string) *AppError {
	return &AppError{
		Code: ErrCodeAmbiguous, Message: "Expect single element",
		Details: map[string]any{"operation": operation},
	}
}

// OutOfBounds creates a new AppError for an index beyond the sequence length.
func OutOfBounds(index int) *AppError {
	return &AppError{
		Code: ErrCodeOutOfBounds, Message: fmt.Sprintf("Index out of bounds: %d", index),
		Details: map[string]any{"index": index},
	}
}

// InvalidArgument creates a new AppError for a structurally invalid parameter.
func InvalidArgument(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("Invalid argument: %s", reason),
		Details: details,
	}
}

// InvalidConfig creates a new AppError for settings that failed validation.
func InvalidConfig(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: message,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first AppError in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return stderrors.Is(err, ErrNotFound) }

// IsAmbiguous reports whether err is an ambiguous-result error.
func IsAmbiguous(err error) bool { return stderrors.Is(err, ErrAmbiguous) }

// IsOutOfBounds reports whether err is an out-of-bounds error.
func IsOutOfBounds(err error) bool { return stderrors.Is(err, ErrOutOfBounds) }

// IsInvalidArgument reports whether err is an invalid-argument error.
func IsInvalidArgument(err error) bool { return stderrors.Is(err, ErrInvalidArgument) }
