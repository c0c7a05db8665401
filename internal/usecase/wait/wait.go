// Package wait polls a condition until it yields a result or a timeout elapses.
package wait

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/benbjohnson/clock"

	"ui-template/internal/application/port/output"
)

const DefaultInterval = 500 * time.Millisecond

var (
	// ErrConfiguration marks misuse of the poller. It is returned before the
	// condition is evaluated and is never retried.
	ErrConfiguration = errors.New("wait: invalid configuration")
	ErrTimeout       = errors.New("wait: timed out")
)

// TimeoutError is returned when a condition did not hold before the deadline.
// Cause holds the last ignored error, if any.
type TimeoutError struct {
	Timeout time.Duration
	Elapsed time.Duration
	Message string
	Cause   error
}

func (e *TimeoutError) Error() string {
	s := fmt.Sprintf("timed out after %s", e.Timeout)
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// Wait holds the polling policy. A Wait is not safe for concurrent use; build
// one per call or reconfigure it between calls.
type Wait struct {
	timeout  time.Duration
	interval time.Duration
	message  string
	ignored  []error
	clock    clock.Clock
	log      output.LoggerPort
}

type Option func(*Wait)

// WithInterval sets the pause between attempts. Zero polls back to back and a
// negative value keeps DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(w *Wait) { w.interval = d }
}

func WithMessage(msg string) Option {
	return func(w *Wait) { w.message = msg }
}

func WithIgnored(errs ...error) Option {
	return func(w *Wait) { w.ignored = append(w.ignored, errs...) }
}

func WithClock(c clock.Clock) Option {
	return func(w *Wait) { w.clock = c }
}

func WithLogger(l output.LoggerPort) Option {
	return func(w *Wait) { w.log = l }
}

func New(timeout time.Duration, opts ...Option) *Wait {
	w := &Wait{
		timeout:  timeout,
		interval: DefaultInterval,
		clock:    clock.New(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.interval < 0 {
		w.interval = DefaultInterval
	}
	return w
}

func (w *Wait) SetMessage(msg string) *Wait {
	w.message = msg
	return w
}

func (w *Wait) SetTimeout(d time.Duration) *Wait {
	w.timeout = d
	return w
}

func (w *Wait) SetInterval(d time.Duration) *Wait {
	if d < 0 {
		d = DefaultInterval
	}
	w.interval = d
	return w
}

// Ignore adds errors that are tolerated while polling. Matching uses errors.Is.
func (w *Wait) Ignore(errs ...error) *Wait {
	w.ignored = append(w.ignored, errs...)
	return w
}

func (w *Wait) Timeout() time.Duration  { return w.timeout }
func (w *Wait) Interval() time.Duration { return w.interval }
func (w *Wait) Message() string         { return w.message }

// UntilTrue is Until for plain boolean conditions.
func (w *Wait) UntilTrue(ctx context.Context, condition func() (bool, error)) error {
	_, err := Until(ctx, w, condition)
	return err
}

// Until evaluates condition until it returns true or a non-nil value.
//
// The deadline is checked after every evaluation, so a zero timeout still
// evaluates the condition once. Errors matching the ignored set are remembered
// and polling continues; any other error is returned at once.
func Until[T any](ctx context.Context, w *Wait, condition func() (T, error)) (T, error) {
	var zero T
	if err := w.validate(condition != nil, reflect.TypeOf((*T)(nil)).Elem()); err != nil {
		return zero, err
	}

	start := w.clock.Now()
	deadline := start.Add(w.timeout)
	attempts := 0
	var lastErr error

	for {
		attempts++
		v, err := condition()
		switch {
		case err == nil:
			if truthy(v) {
				return v, nil
			}
		case w.isIgnored(err):
			lastErr = err
		default:
			return zero, err
		}

		now := w.clock.Now()
		if !now.Before(deadline) {
			terr := &TimeoutError{
				Timeout: w.timeout,
				Elapsed: now.Sub(start),
				Message: w.message,
				Cause:   lastErr,
			}
			if w.log != nil {
				w.log.Debug("wait timed out", "attempts", attempts, "elapsed", terr.Elapsed, "message", w.message)
			}
			return zero, terr
		}

		timer := w.clock.Timer(w.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, errors.Join(ctx.Err(), lastErr)
		case <-timer.C:
		}
	}
}

func (w *Wait) validate(hasCondition bool, t reflect.Type) error {
	if !hasCondition {
		return fmt.Errorf("%w: condition is nil", ErrConfiguration)
	}
	switch t.Kind() {
	case reflect.Bool, reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
	default:
		return fmt.Errorf("%w: result type %s must be bool or nillable", ErrConfiguration, t)
	}
	for i, target := range w.ignored {
		if target == nil {
			return fmt.Errorf("%w: ignored error at index %d is nil", ErrConfiguration, i)
		}
	}
	return nil
}

func (w *Wait) isIgnored(err error) bool {
	for _, target := range w.ignored {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func truthy[T any](v T) bool {
	rv := reflect.ValueOf(&v).Elem()
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		inner := rv.Elem()
		switch inner.Kind() {
		case reflect.Bool:
			return inner.Bool()
		case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
			return !inner.IsNil()
		}
		return true
	}
	if rv.Kind() == reflect.Bool {
		return rv.Bool()
	}
	return !rv.IsNil()
}
