package entities

import (
	"errors"
	"fmt"
	"time"
)

// Driver-level sentinel errors. Driver adapters wrap their native errors
// with these so the wait layer can classify them.
var (
	ErrNoSuchElement      = errors.New("no such element")
	ErrStaleElement       = errors.New("stale element reference")
	ErrSessionClosed      = errors.New("browser session closed")
	ErrUnsupportedLocator = errors.New("unsupported locator strategy")
	ErrNotInteractable    = errors.New("element not interactable")
)

// TimeoutError is returned when a wait condition never held within its bound
type TimeoutError struct {
	Locator   Locator
	Condition Condition
	Timeout   time.Duration
	Cause     error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %s waiting for %s to be %s", e.Timeout, e.Locator, e.Condition)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// ElementNotFoundError is returned when a lookup misses after the element
// was already confirmed by a wait
type ElementNotFoundError struct {
	Locator Locator
	Action  string
	Cause   error
}

func (e *ElementNotFoundError) Error() string {
	msg := fmt.Sprintf("element not found: %s", e.Locator)
	if e.Action != "" {
		msg = fmt.Sprintf("element not found for %s: %s", e.Action, e.Locator)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ElementNotFoundError) Unwrap() error {
	return e.Cause
}

// AssertMode is the comparison an assertion used
type AssertMode string

const (
	AssertEquals   AssertMode = "equals"
	AssertContains AssertMode = "contains"
	AssertTrue     AssertMode = "true"
	AssertFalse    AssertMode = "false"
)

// AssertionError is returned when an observed value does not match the expected one
type AssertionError struct {
	Subject  string
	Expected string
	Actual   string
	Mode     AssertMode
}

func (e *AssertionError) Error() string {
	switch e.Mode {
	case AssertContains:
		return fmt.Sprintf("assertion failed: %s: expected %q to contain %q", e.Subject, e.Actual, e.Expected)
	case AssertTrue, AssertFalse:
		return fmt.Sprintf("assertion failed: %s: expected %s but was %s", e.Subject, e.Expected, e.Actual)
	default:
		return fmt.Sprintf("assertion failed: %s: expected [%s] but found [%s]", e.Subject, e.Expected, e.Actual)
	}
}

// NetworkError is returned when an HTTP request could not be completed
type NetworkError struct {
	Method string
	URL    string
	Cause  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// IsAssertion reports whether err is or wraps an AssertionError
func IsAssertion(err error) bool {
	var ae *AssertionError
	return errors.As(err, &ae)
}

// IsTimeout reports whether err is or wraps a TimeoutError
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsRetryable reports whether a driver error may clear up on the next poll
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStaleElement)
}
