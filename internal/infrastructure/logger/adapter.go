package logger

import (
	"errors"
	"io"

	"go.uber.org/zap"

	"ui-template/internal/application/port/output"
)

var _ output.LoggerPort = (*LoggerAdapter)(nil)

// LoggerAdapter exposes a zap logger through output.LoggerPort. Args are
// key/value pairs.
type LoggerAdapter struct {
	log     *zap.SugaredLogger
	files   []string
	closers []io.Closer
}

func NewFromZap(z *zap.Logger) *LoggerAdapter {
	return &LoggerAdapter{log: z.Sugar()}
}

func NewNop() *LoggerAdapter {
	return NewFromZap(zap.NewNop())
}

// Verbose is the most detailed level. It is written at debug with verbose=true.
func (l *LoggerAdapter) Verbose(msg string, args ...any) {
	l.log.Debugw(msg, append([]any{"verbose", true}, args...)...)
}

func (l *LoggerAdapter) Debug(msg string, args ...any) {
	l.log.Debugw(msg, args...)
}

func (l *LoggerAdapter) Info(msg string, args ...any) {
	l.log.Infow(msg, args...)
}

func (l *LoggerAdapter) Warn(msg string, args ...any) {
	l.log.Warnw(msg, args...)
}

func (l *LoggerAdapter) Error(msg string, args ...any) {
	l.log.Errorw(msg, args...)
}

func (l *LoggerAdapter) WithField(key string, value any) output.LoggerPort {
	return &LoggerAdapter{log: l.log.With(key, value), files: l.files}
}

func (l *LoggerAdapter) WithFields(fields map[string]any) output.LoggerPort {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &LoggerAdapter{log: l.log.With(args...), files: l.files}
}

func (l *LoggerAdapter) Files() []string {
	return append([]string(nil), l.files...)
}

// Close flushes and closes the file sinks. Derived loggers share the sinks of
// the logger they came from and never close them.
func (l *LoggerAdapter) Close() error {
	if len(l.closers) == 0 {
		return nil
	}
	l.Info("closing the logger")
	l.Info(separator)
	_ = l.log.Sync()
	var errs []error
	for _, c := range l.closers {
		errs = append(errs, c.Close())
	}
	l.closers = nil
	return errors.Join(errs...)
}
