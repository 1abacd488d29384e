package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryBinding  Category = "binding"
	CategoryHandler  Category = "handler"
	CategoryProtocol Category = "protocol"
)

// BindError is a structured error with a code, explanation and hint.
type BindError struct {
	// Code is a unique error identifier (e.g., "B001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *BindError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *BindError) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a detailed explanation to the error.
func (e *BindError) WithDetail(d string) *BindError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted explanation to the error.
func (e *BindError) WithDetailf(format string, args ...any) *BindError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *BindError) WithSuggestion(s string) *BindError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *BindError) Wrap(err error) *BindError {
	e.Wrapped = err
	return e
}

// New creates a BindError from a registered error code.
func New(code string) *BindError {
	template, ok := registry[code]
	if !ok {
		return &BindError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &BindError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// Newf creates a new BindError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *BindError {
	return &BindError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a BindError.
func FromError(err error, code string) *BindError {
	if err == nil {
		return nil
	}
	var be *BindError
	if stderrors.As(err, &be) {
		return be
	}
	return New(code).Wrap(err)
}

// Is reports whether any error in err's chain is a BindError with code.
func Is(err error, code string) bool {
	for err != nil {
		var be *BindError
		if !stderrors.As(err, &be) {
			return false
		}
		if be.Code == code {
			return true
		}
		err = be.Wrapped
	}
	return false
}

// CodeOf returns the code of the first BindError in err's chain.
func CodeOf(err error) string {
	var be *BindError
	if stderrors.As(err, &be) {
		return be.Code
	}
	return ""
}
