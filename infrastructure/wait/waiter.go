package wait

import (
	"context"
	"errors"
	"time"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"
)

// Options bound a wait family
type Options struct {
	Timeout  time.Duration
	Interval time.Duration
}

var (
	// DefaultBounded is used by standard interactions
	DefaultBounded = Options{Timeout: 20 * time.Second, Interval: 500 * time.Millisecond}

	// DefaultFluent is used where an element must appear quickly
	DefaultFluent = Options{Timeout: 10 * time.Second, Interval: 200 * time.Millisecond}
)

// withDefaults fills unset fields from fallback
func (o Options) withDefaults(fallback Options) Options {
	if o.Timeout <= 0 {
		o.Timeout = fallback.Timeout
	}
	if o.Interval <= 0 {
		o.Interval = fallback.Interval
	}
	return o
}

// Waiter polls a driver until a condition holds on a locator
type Waiter struct {
	driver interfaces.Driver
	opts   Options
}

// NewBounded - creates a waiter for the bounded family
func NewBounded(driver interfaces.Driver, opts Options) *Waiter {
	return &Waiter{driver: driver, opts: opts.withDefaults(DefaultBounded)}
}

// NewFluent - creates a waiter for the fluent family
func NewFluent(driver interfaces.Driver, opts Options) *Waiter {
	return &Waiter{driver: driver, opts: opts.withDefaults(DefaultFluent)}
}

// Options returns the effective timeout and poll interval
func (w *Waiter) Options() Options {
	return w.opts
}

// Until blocks until cond holds for locator and returns the matching
// elements. It fails with *entities.TimeoutError when the timeout elapses.
// A stale element during the last poll earns one more attempt.
func (w *Waiter) Until(ctx context.Context, locator entities.Locator, cond entities.Condition) ([]interfaces.Element, error) {
	deadline := time.Now().Add(w.opts.Timeout)
	graced := false

	var lastErr error
	for {
		elements, ok, err := evaluate(ctx, w.driver, locator, cond)
		switch {
		case errors.Is(err, entities.ErrNoSuchElement):
			lastErr = nil
		case err != nil && !entities.IsRetryable(err):
			return nil, err
		case err != nil:
			lastErr = err
		case ok:
			return elements, nil
		default:
			lastErr = nil
		}

		if !time.Now().Before(deadline) {
			if lastErr != nil && !graced {
				graced = true
				continue
			}
			return nil, &entities.TimeoutError{
				Locator:   locator,
				Condition: cond,
				Timeout:   w.opts.Timeout,
				Cause:     lastErr,
			}
		}

		timer := time.NewTimer(w.opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
