package wait

import (
	"time"

	"github.com/benbjohnson/clock"

	"ui-template/internal/application/port/output"
)

// Factory hands out fresh waits built from the test configuration.
type Factory struct {
	ElementTimeout  time.Duration
	PageLoadTimeout time.Duration
	// Interval is the configured pause between attempts. Zero means DefaultInterval.
	Interval time.Duration

	Clock  clock.Clock
	Logger output.LoggerPort
}

func (f *Factory) Element() *Wait {
	return f.build(f.ElementTimeout, f.interval())
}

func (f *Factory) PageLoad() *Wait {
	return f.build(f.PageLoadTimeout, f.interval())
}

// Custom builds a wait with its own policy. A zero timeout falls back to the
// element timeout and a negative interval to the configured one. An interval
// of zero polls back to back.
func (f *Factory) Custom(timeout, interval time.Duration, ignored ...error) *Wait {
	if timeout == 0 {
		timeout = f.ElementTimeout
	}
	if interval < 0 {
		interval = f.interval()
	}
	w := f.build(timeout, interval)
	w.Ignore(ignored...)
	if f.Logger != nil {
		f.Logger.Verbose("initialize custom wait", "timeout", timeout, "interval", w.Interval())
	}
	return w
}

func (f *Factory) interval() time.Duration {
	if f.Interval <= 0 {
		return DefaultInterval
	}
	return f.Interval
}

func (f *Factory) build(timeout, interval time.Duration) *Wait {
	opts := []Option{WithInterval(interval)}
	if f.Clock != nil {
		opts = append(opts, WithClock(f.Clock))
	}
	if f.Logger != nil {
		opts = append(opts, WithLogger(f.Logger))
	}
	return New(timeout, opts...)
}
