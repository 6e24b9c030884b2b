package schema

import "fmt"

// Error codes for structured error reporting.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeExecution        = "EXECUTION_ERROR"
	ErrCodeUnknownOperation = "UNKNOWN_OPERATION"
	ErrCodeMissingParam     = "MISSING_EXTERNAL_PARAMETER"
	ErrCodeMissingOutput    = "MISSING_CACHED_OUTPUT"
	ErrCodeGizmoHookMissing = "GIZMO_HOOK_MISSING"
	ErrCodeOpContract       = "OPERATION_CONTRACT"
	ErrCodeMissingReturn    = "MISSING_RETURN_OUTPUT"
	ErrCodeCycleDetected    = "CYCLE_DETECTED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeStore            = "STORE_ERROR"
)

// Error is the structured error type for all graph engine operations.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	NodeID  NodeID         `json:"node_id,omitempty"`
	Cause   error          `json:"-"`
}

func (e *Error) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("[%s] node %s: %s", e.Code, e.NodeID, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorf creates a new Error with a formatted message.
func NewErrorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithNode attaches the offending node's id to the error.
func (e *Error) WithNode(id NodeID) *Error {
	e.NodeID = id
	return e
}

// WithCause attaches an underlying cause.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithDetails attaches key-value details.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}
