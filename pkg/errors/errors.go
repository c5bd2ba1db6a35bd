// Package errors provides structured error handling for the inview library.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates an invalid scheduler or sensor configuration.
	KindConfig
	// KindUsage indicates an API contract violation by the caller.
	KindUsage
	// KindSensor indicates a sensor-side observation failure.
	KindSensor
	// KindCallback indicates a failure inside a consumer callback.
	KindCallback
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindUsage:
		return "usage"
	case KindSensor:
		return "sensor"
	case KindCallback:
		return "callback"
	default:
		return "unknown"
	}
}

// InviewError represents a structured error in the inview library.
type InviewError struct {
	// Op is the operation that failed (e.g., "visibility.New").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *InviewError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *InviewError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "showcase.replay").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ParseError represents a failure to parse a root margin expression.
type ParseError struct {
	// Input is the margin string that failed to parse.
	Input string
	// Reason describes what was wrong with it.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse root margin %q: %s", e.Input, e.Reason)
}

// CallbackError represents a panic recovered from a visibility callback
// during batch dispatch. The rest of the batch is still delivered.
type CallbackError struct {
	// Target describes the handle whose callback failed.
	Target string
	// Recovered is the panic value.
	Recovered any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *CallbackError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in visibility callback for %s: %v", e.Target, e.Recovered)
	}
	return fmt.Sprintf("unknown error in visibility callback for %s", e.Target)
}

// ErrorHandler receives errors reported by the inview library.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *InviewError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleCallbackError is called when a consumer callback panics.
	HandleCallbackError(err *CallbackError)
}
