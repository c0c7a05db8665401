package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const separator = "####################################################################################################"

// Config describes one logging scope: the console plus a JSON file per level.
type Config struct {
	// Dir is the run directory, see RunDir. Empty disables file output.
	Dir   string
	Scope string
	// FileLevels lists the minimum level of each file. Defaults to debug and info.
	FileLevels []string

	Console      zapcore.WriteSyncer
	ConsoleLevel string

	MaxSizeMB  int
	MaxBackups int
}

// RunDir is <root>/<yyyy-mm-dd>/run_at_<hh-mm-ss>.
func RunDir(root string, now time.Time) string {
	return filepath.Join(root, now.Format("2006-01-02"), "run_at_"+now.Format("15-04-05"))
}

// FileName is log-<scope>-<level>.log with the scope made safe for file systems.
func FileName(scope, level string) string {
	return fmt.Sprintf("log-%s-%s.log", sanitize(scope), level)
}

// ScopeDir is the directory New writes the files of scope into.
func ScopeDir(runDir, scope string) string {
	return filepath.Join(runDir, sanitize(scope))
}

func New(cfg Config) (*LoggerAdapter, error) {
	var cores []zapcore.Core
	var files []string
	var closers []io.Closer

	if cfg.Console != nil {
		level := zap.NewAtomicLevelAt(zap.InfoLevel)
		if cfg.ConsoleLevel != "" {
			if err := level.UnmarshalText([]byte(cfg.ConsoleLevel)); err != nil {
				return nil, fmt.Errorf("console level %q: %w", cfg.ConsoleLevel, err)
			}
		}
		cores = append(cores, zapcore.NewCore(consoleEncoder(), cfg.Console, level))
	}

	if cfg.Dir != "" {
		dir := ScopeDir(cfg.Dir, cfg.Scope)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		levels := cfg.FileLevels
		if len(levels) == 0 {
			levels = []string{"debug", "info"}
		}
		for _, name := range levels {
			var level zapcore.Level
			if err := level.UnmarshalText([]byte(name)); err != nil {
				return nil, fmt.Errorf("file level %q: %w", name, err)
			}
			path := filepath.Join(dir, FileName(cfg.Scope, level.String()))
			lj := &lumberjack.Logger{
				Filename:   path,
				MaxSize:    cfg.MaxSizeMB,
				MaxBackups: cfg.MaxBackups,
			}
			cores = append(cores, zapcore.NewCore(jsonEncoder(), zapcore.AddSync(lj), level))
			files = append(files, path)
			closers = append(closers, lj)
		}
	}

	if len(cores) == 0 {
		return NewNop(), nil
	}

	z := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zap.ErrorLevel))
	if cfg.Scope != "" {
		z = z.Named(cfg.Scope)
	}
	l := &LoggerAdapter{
		log:     z.Sugar(),
		files:   files,
		closers: closers,
	}
	l.Info(separator)
	return l, nil
}

func jsonEncoder() zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(ec)
}

func consoleEncoder() zapcore.Encoder {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}

func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, s)
	s = strings.Trim(s, "_")
	if s == "" {
		return "run"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
