// Package protocol defines the uniform response shape returned to MCP
// clients and the error kinds used across the server. Every tool outcome,
// success or failure, passes through Normalize before it leaves the
// process; no raw backend fault ever reaches the agent.
package protocol

import (
	"errors"
	"fmt"
)

// Tool execution statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrorKind classifies a tool failure.
type ErrorKind string

const (
	// KindInvalidArgument marks bad caller input, detected before any
	// backend call.
	KindInvalidArgument ErrorKind = "InvalidArgument"
	// KindNotFound marks a missing application, deployment group, or
	// deployment.
	KindNotFound ErrorKind = "NotFound"
	// KindBackendQueryFailed marks a log query that reached a
	// non-success terminal state.
	KindBackendQueryFailed ErrorKind = "BackendQueryFailed"
	// KindQueryTimeout marks a poll loop that exceeded its bound or was
	// cancelled by the host.
	KindQueryTimeout ErrorKind = "QueryTimeout"
	// KindBackendUnavailable marks transport, credential, or
	// unknown-resource failures reported by the backend.
	KindBackendUnavailable ErrorKind = "BackendUnavailable"
	// KindRateLimited marks a call denied by the usage guard before any
	// backend call.
	KindRateLimited ErrorKind = "RateLimited"
)

// Error is a classified failure raised by a component.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind
	// Message is the human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Errorf builds a classified error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind from err. Unclassified errors are
// treated as backend failures.
func KindOf(err error) ErrorKind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindBackendUnavailable
}

// ErrorResponse is the uniform error payload returned to MCP clients.
type ErrorResponse struct {
	// Status is always "error".
	Status string `json:"status"`
	// Error is the human-readable message.
	Error string `json:"error"`
	// Kind classifies the failure.
	Kind ErrorKind `json:"kind"`
}

// Normalize maps a tool outcome into the uniform response shape. Success
// payloads pass through unchanged; every failure becomes an
// ErrorResponse. This is the single place error strings are formatted.
func Normalize(payload any, err error) any {
	if err == nil {
		return payload
	}
	return ErrorResponse{
		Status: StatusError,
		Error:  err.Error(),
		Kind:   KindOf(err),
	}
}
