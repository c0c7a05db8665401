package wait

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultInnerTimeout bounds each inner attempt of the composed waits.
const DefaultInnerTimeout = 5 * time.Second

// Clone copies the policy with a different timeout. The ignored set is copied.
func (w *Wait) Clone(timeout time.Duration) *Wait {
	c := *w
	c.timeout = timeout
	c.ignored = append([]error(nil), w.ignored...)
	return &c
}

// TryUntil reports whether condition held within timeout. A timeout is not an
// error here; any other failure is.
func TryUntil(ctx context.Context, w *Wait, timeout time.Duration, condition func() (bool, error)) (bool, error) {
	err := w.Clone(timeout).UntilTrue(ctx, condition)
	if errors.Is(err, ErrTimeout) {
		return false, nil
	}
	return err == nil, err
}

// UntilWithRefresh runs inner waits of refreshEvery against condition and
// calls refresh after every inner timeout, until w's own timeout elapses.
func UntilWithRefresh(ctx context.Context, w *Wait, condition func() (bool, error), refresh func(ctx context.Context) error, refreshEvery time.Duration) error {
	if refresh == nil {
		return fmt.Errorf("%w: refresh is nil", ErrConfiguration)
	}
	if refreshEvery <= 0 {
		refreshEvery = DefaultInnerTimeout
	}
	outer := w.Clone(w.timeout)
	if outer.message == "" {
		outer.message = "condition was not fulfilled during the timeout"
	}
	attempt := 0
	return outer.UntilTrue(ctx, func() (bool, error) {
		attempt++
		ok, err := TryUntil(ctx, w, refreshEvery, condition)
		if err != nil || ok {
			if ok && w.log != nil {
				w.log.Info("condition fulfilled", "attempt", attempt)
			}
			return ok, err
		}
		if w.log != nil {
			w.log.Debug("refreshing the page", "attempt", attempt)
		}
		return false, refresh(ctx)
	})
}

// UntilWithActionAndCondition runs action, then waits up to conditionTimeout
// for condition. Both are repeated until condition holds or w times out.
func UntilWithActionAndCondition(ctx context.Context, w *Wait, action func() error, condition func() (bool, error), conditionTimeout time.Duration) error {
	if action == nil {
		return fmt.Errorf("%w: action is nil", ErrConfiguration)
	}
	if conditionTimeout <= 0 {
		conditionTimeout = DefaultInnerTimeout
	}
	outer := w.Clone(w.timeout)
	if outer.message == "" {
		outer.message = "condition was not fulfilled during the timeout"
	}
	return outer.UntilTrue(ctx, func() (bool, error) {
		if err := action(); err != nil {
			return false, err
		}
		ok, err := TryUntil(ctx, w, conditionTimeout, condition)
		if err == nil && !ok && w.log != nil {
			w.log.Warn("condition is not fulfilled, repeating the action")
		}
		return ok, err
	})
}

// TryConditionThenAction waits up to conditionTimeout for condition and runs
// action once when it holds. It reports whether action ran.
func TryConditionThenAction(ctx context.Context, w *Wait, condition func() (bool, error), action func() error, conditionTimeout time.Duration) (bool, error) {
	if action == nil {
		return false, fmt.Errorf("%w: action is nil", ErrConfiguration)
	}
	if conditionTimeout <= 0 {
		conditionTimeout = DefaultInnerTimeout
	}
	ok, err := TryUntil(ctx, w, conditionTimeout, condition)
	if err != nil {
		return false, err
	}
	if !ok {
		if w.log != nil {
			w.log.Warn("condition is not fulfilled, action skipped")
		}
		return false, nil
	}
	if err := action(); err != nil {
		return false, err
	}
	return true, nil
}
