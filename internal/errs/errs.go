package errs

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed or missing input. It is surfaced to the
// caller as a 400 and never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NotFound builds a NotFoundError for the given resource and id.
func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// GatewayError reports a failed or timed-out SMS gateway call.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("sms gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Gateway wraps err as a GatewayError.
func Gateway(op string, err error) *GatewayError {
	return &GatewayError{Op: op, Err: err}
}

// PersistenceError reports a failed database write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err as a PersistenceError.
func Persistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// PricingError reports inventory ids that could not be resolved while
// pricing a bill.
type PricingError struct {
	UnknownIDs []string
}

func (e *PricingError) Error() string {
	return fmt.Sprintf("unknown inventory items: %s", strings.Join(e.UnknownIDs, ", "))
}
