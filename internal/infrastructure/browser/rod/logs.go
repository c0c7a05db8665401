package rod

import (
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"ui-template/internal/domain/entity"
)

// captureLogs subscribes to console and browser log events of page. The
// returned func blocks until the session context ends.
func (s *Session) captureLogs(page *rod.Page) func() {
	return page.EachEvent(
		func(e *proto.LogEntryAdded) {
			if e.Entry == nil {
				return
			}
			s.addLog(entity.LogEntry{
				Time:    timestampOf(e.Entry.Timestamp),
				Level:   logLevel(string(e.Entry.Level)),
				Source:  string(e.Entry.Source),
				Message: e.Entry.Text,
				URL:     e.Entry.URL,
			})
		},
		func(e *proto.RuntimeConsoleAPICalled) {
			s.addLog(entity.LogEntry{
				Time:    timestampOf(e.Timestamp),
				Level:   logLevel(string(e.Type)),
				Source:  "console-api",
				Message: consoleText(e.Args),
			})
		},
	)
}

// timestampOf converts CDP milliseconds since the epoch. Zero stays zero so
// addLog can stamp the entry itself.
func timestampOf(ts proto.RuntimeTimestamp) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.UnixMicro(int64(float64(ts) * 1000))
}

func (s *Session) addLog(e entity.LogEntry) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, e)
	if len(s.logs) > maxLogEntries {
		s.logs = s.logs[len(s.logs)-maxLogEntries:]
	}
}

// Logs returns the captured entries and clears the buffer.
func (s *Session) Logs() []entity.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.logs
	s.logs = nil
	return out
}

func logLevel(level string) entity.LogLevel {
	switch level {
	case "error", "assert":
		return entity.LogLevelSevere
	case "warning", "warn":
		return entity.LogLevelWarning
	case "verbose", "debug", "trace":
		return entity.LogLevelVerbose
	default:
		return entity.LogLevelInfo
	}
}

func consoleText(args []*proto.RuntimeRemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if a == nil {
			continue
		}
		switch {
		case !a.Value.Nil():
			parts = append(parts, a.Value.String())
		case a.Description != "":
			parts = append(parts, a.Description)
		default:
			parts = append(parts, string(a.Type))
		}
	}
	return strings.Join(parts, " ")
}
