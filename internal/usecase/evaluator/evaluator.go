// Package evaluator locates an element fresh, checks a guard on it and
// optionally acts on it, turning DOM races into plain results.
package evaluator

import (
	"errors"
	"fmt"

	"ui-template/internal/application/port/output"
)

// DefaultStaleRetries is how many times a stale reference is retried
// transparently before it is returned to the caller.
const DefaultStaleRetries = 1

// ErrNoLocator is returned when an Evaluator was built without a locate step.
var ErrNoLocator = errors.New("evaluator: locate function is nil")

// Guard returns the element when the condition holds and nil when it does not
// hold yet.
type Guard func(output.Element) (output.Element, error)

type Action func(output.Element) error

// Extract computes a string from a guarded element. A nil result means no
// value is available.
type Extract func(output.Element) (*string, error)

type Locate func() (output.Element, error)

type Evaluator struct {
	locate Locate
	name   string
	log    output.LoggerPort
}

func New(name string, locate Locate, logger output.LoggerPort) *Evaluator {
	return &Evaluator{
		locate: locate,
		name:   name,
		log:    logger,
	}
}

type settings struct {
	missing      bool
	driverErr    bool
	staleRetries int
}

type Option func(*settings)

// MissingResult is returned when the element cannot be found. Pass true when
// waiting for absence.
func MissingResult(v bool) Option {
	return func(s *settings) { s.missing = v }
}

// DriverErrorResult is returned instead of a driver level error.
func DriverErrorResult(v bool) Option {
	return func(s *settings) { s.driverErr = v }
}

func StaleRetries(n int) Option {
	return func(s *settings) {
		if n < 0 {
			n = 0
		}
		s.staleRetries = n
	}
}

func newSettings(opts []Option) settings {
	s := settings{staleRetries: DefaultStaleRetries}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// EvaluateBool locates the element, applies guard and, when guard returned an
// element, runs action on it and reports true. A nil guard result reports
// false. A nil action is allowed.
func (e *Evaluator) EvaluateBool(guard Guard, action Action, opts ...Option) (bool, error) {
	s := newSettings(opts)
	return e.evaluateBool(guard, action, s, s.staleRetries)
}

func (e *Evaluator) evaluateBool(guard Guard, action Action, s settings, retriesLeft int) (bool, error) {
	ok, err := e.attempt(guard, action)
	switch {
	case err == nil:
		return ok, nil
	case errors.Is(err, output.ErrNoSuchElement):
		e.debug("element is missing", err)
		return s.missing, nil
	case errors.Is(err, output.ErrStaleElement):
		if retriesLeft > 0 {
			e.debug("stale element, retrying", err, "retries_left", retriesLeft)
			return e.evaluateBool(guard, action, s, retriesLeft-1)
		}
		return false, e.wrap(err)
	case errors.Is(err, output.ErrDriver):
		e.debug("driver error", err)
		return s.driverErr, nil
	default:
		return false, e.wrap(err)
	}
}

func (e *Evaluator) attempt(guard Guard, action Action) (bool, error) {
	if e.locate == nil {
		return false, ErrNoLocator
	}
	el, err := e.locate()
	if err != nil {
		return false, err
	}
	if el == nil {
		return false, output.ErrNoSuchElement
	}
	if guard != nil {
		el, err = guard(el)
		if err != nil {
			return false, err
		}
	}
	if el == nil {
		return false, nil
	}
	if action != nil {
		// Act on the same handle the guard just checked.
		if err := action(el); err != nil {
			return false, err
		}
	}
	return true, nil
}

// EvaluateString works like EvaluateBool but returns the extracted value.
// Missing and stale elements give nil without an error.
func (e *Evaluator) EvaluateString(guard Guard, extract Extract, opts ...Option) (*string, error) {
	s := newSettings(opts)
	return e.evaluateString(guard, extract, s.staleRetries)
}

func (e *Evaluator) evaluateString(guard Guard, extract Extract, retriesLeft int) (*string, error) {
	v, err := e.attemptString(guard, extract)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, output.ErrNoSuchElement):
		e.debug("element is missing", err)
		return nil, nil
	case errors.Is(err, output.ErrStaleElement):
		if retriesLeft > 0 {
			e.debug("stale element, retrying", err, "retries_left", retriesLeft)
			return e.evaluateString(guard, extract, retriesLeft-1)
		}
		e.debug("element stayed stale", err)
		return nil, nil
	default:
		return nil, e.wrap(err)
	}
}

func (e *Evaluator) attemptString(guard Guard, extract Extract) (*string, error) {
	if e.locate == nil {
		return nil, ErrNoLocator
	}
	el, err := e.locate()
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, output.ErrNoSuchElement
	}
	if guard != nil {
		el, err = guard(el)
		if err != nil {
			return nil, err
		}
	}
	if el == nil || extract == nil {
		return nil, nil
	}
	return extract(el)
}

func (e *Evaluator) wrap(err error) error {
	if e.name == "" {
		return err
	}
	return fmt.Errorf("%s: %w", e.name, err)
}

func (e *Evaluator) debug(msg string, err error, args ...any) {
	if e.log == nil {
		return
	}
	e.log.Debug(msg, append([]any{"component", e.name, "error", err}, args...)...)
}
