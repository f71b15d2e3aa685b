package domain

import (
	"errors"
	"fmt"
	"time"
)

// DuplicateNameError is returned when a case name is registered twice
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("test case %q is already registered", e.Name)
}

// AssertionFailure is returned by a case body whose expectations did not hold
type AssertionFailure struct {
	Messages []string
}

func (e *AssertionFailure) Error() string {
	switch len(e.Messages) {
	case 0:
		return "assertion failed"
	case 1:
		return e.Messages[0]
	}
	msg := fmt.Sprintf("%d assertions failed:", len(e.Messages))
	for _, m := range e.Messages {
		msg += "\n  - " + m
	}
	return msg
}

// NewAssertionFailure creates an AssertionFailure with a single formatted message
func NewAssertionFailure(format string, args ...any) *AssertionFailure {
	return &AssertionFailure{Messages: []string{fmt.Sprintf(format, args...)}}
}

// LaunchError is returned when a launch scenario cannot establish its resource
type LaunchError struct {
	Target string
	Err    error
}

func (e *LaunchError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("launch failed: %v", e.Err)
	}
	return fmt.Sprintf("launch of %s failed: %v", e.Target, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *LaunchError) Unwrap() error {
	return e.Err
}

// UnexpectedFault wraps a panic raised by a case body
type UnexpectedFault struct {
	Value any
}

func (e *UnexpectedFault) Error() string {
	return fmt.Sprintf("unexpected fault: %v", e.Value)
}

// Unwrap returns the panic value when it is an error
func (e *UnexpectedFault) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// TimeoutError is returned when a case body exceeds the configured case timeout
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("case did not finish within %s", e.Timeout)
}

// IsAssertionFailure checks if the error is or wraps an AssertionFailure
func IsAssertionFailure(err error) bool {
	var af *AssertionFailure
	return err != nil && errors.As(err, &af)
}

// IsLaunchError checks if the error is or wraps a LaunchError
func IsLaunchError(err error) bool {
	var le *LaunchError
	return err != nil && errors.As(err, &le)
}
