// Package platform defines the boundary to the managing data platform:
// the client interface the orchestrator drives, and the error taxonomy
// every implementation maps platform responses onto.
package platform

import (
	"errors"
	"fmt"
)

// Sentinel errors for classification via errors.Is().
var (
	// ErrNotFound marks an absent resource. Drop-if-exists treats it as a
	// no-op success; attach treats it as a skip.
	ErrNotFound = errors.New("not found")

	// ErrDependencyBlocked marks a deletion refused because live dependents
	// still reference the resource.
	ErrDependencyBlocked = errors.New("dependency blocked")

	// ErrPermissionDenied is fatal and never retried.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrTimeout marks an operation that exceeded its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrConfiguration marks an invalid declaration (cyclic dependency
	// graph, unknown kind). Detected before any operation executes.
	ErrConfiguration = errors.New("configuration error")
)

// Error carries the failing operation and resource alongside the sentinel
// used for classification.
type Error struct {
	Sentinel error  // wrapped sentinel for errors.Is()
	Op       string // operation that failed, e.g. "snowflake.drop"
	Resource string // resource address or path
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Sentinel)
}

// Unwrap exposes both the sentinel and the underlying cause, so errors.Is
// classifies against the taxonomy while errors.As still reaches the
// provider-specific error underneath.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Sentinel, e.Cause}
	}
	return []error{e.Sentinel}
}

// NotFound builds a not-found error for a resource.
func NotFound(op, resource string) error {
	return &Error{
		Sentinel: ErrNotFound,
		Op:       op,
		Resource: resource,
		Message:  fmt.Sprintf("%s: %s does not exist", op, resource),
	}
}

// DependencyBlocked builds a deletion-refused error for an owner with live
// dependents.
func DependencyBlocked(op, resource, reason string) error {
	return &Error{
		Sentinel: ErrDependencyBlocked,
		Op:       op,
		Resource: resource,
		Message:  fmt.Sprintf("%s: %s has live dependents: %s", op, resource, reason),
	}
}

// PermissionDenied builds a fatal authorization error.
func PermissionDenied(op, resource string, cause error) error {
	return &Error{
		Sentinel: ErrPermissionDenied,
		Op:       op,
		Resource: resource,
		Message:  fmt.Sprintf("%s: access denied for %s: %v", op, resource, cause),
		Cause:    cause,
	}
}

// Timeout builds a deadline-exceeded error.
func Timeout(op, resource string, cause error) error {
	return &Error{
		Sentinel: ErrTimeout,
		Op:       op,
		Resource: resource,
		Message:  fmt.Sprintf("%s: %s timed out: %v", op, resource, cause),
		Cause:    cause,
	}
}

// Configuration builds a pre-flight declaration error.
func Configuration(message string) error {
	return &Error{
		Sentinel: ErrConfiguration,
		Message:  message,
	}
}
