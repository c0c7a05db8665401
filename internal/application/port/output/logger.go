package output

type LoggerPort interface {
	Verbose(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	WithField(key string, value any) LoggerPort
	WithFields(fields map[string]any) LoggerPort

	// Files lists the log files this logger writes to.
	Files() []string
	Close() error
}
