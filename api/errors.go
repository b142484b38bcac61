// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for the corebind library.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrInvalidCore    = fmt.Errorf("core index out of range")
	ErrExhausted      = fmt.Errorf("resource exhausted")
	ErrPermission     = fmt.Errorf("operation not permitted")
	ErrNotSupported   = fmt.Errorf("operation not supported")
	ErrConsistency    = fmt.Errorf("consistency fault")
	ErrEntryFailed    = fmt.Errorf("privileged entry failed")
	ErrAlreadyOnline  = fmt.Errorf("core already brought up")
	ErrIdentityFormat = fmt.Errorf("malformed hardware identity record")
	ErrInvalidConfig  = fmt.Errorf("invalid configuration")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeExhausted
	ErrCodePermission
	ErrCodeNotSupported
	ErrCodeConsistency
	ErrCodeEntryFatal
	ErrCodeFormat
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
