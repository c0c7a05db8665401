package entity

import "time"

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

type LogLevel string

const (
	LogLevelVerbose LogLevel = "verbose"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelSevere  LogLevel = "severe"
)

// LogEntry is one browser console record.
type LogEntry struct {
	Time    time.Time
	Level   LogLevel
	Source  string
	Message string
	URL     string
}

func (e LogEntry) String() string {
	return e.Time.Format(time.RFC3339) + " [" + string(e.Level) + "] " + e.Message
}

type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Overlaps reports whether two rectangles share any area, touching edges included.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.Y > o.Y+o.Height ||
		r.X+r.Width < o.X ||
		r.Y+r.Height < o.Y ||
		r.X > o.X+o.Width)
}

// OverlapsVertically ignores the horizontal axis.
func (r Rect) OverlapsVertically(o Rect) bool {
	return !(r.Y > o.Y+o.Height || r.Y+r.Height < o.Y)
}

type WindowSize struct {
	Width  int
	Height int
}

func (s WindowSize) IsEmpty() bool { return s.Width == 0 && s.Height == 0 }

type Tab struct {
	ID    string
	URL   string
	Title string
}
