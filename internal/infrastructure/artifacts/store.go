// Package artifacts saves test evidence such as page sources, browser logs
// and screenshots next to the test's log files.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"ui-template/internal/application/port/output"
	"ui-template/internal/infrastructure/logger"
)

type Kind string

const (
	KindPageSource  Kind = "page_source"
	KindBrowserLogs Kind = "browser_logs"
	KindScreenshot  Kind = "screenshot"
)

type Store struct {
	fs  afero.Fs
	dir string
	now func() time.Time
	log output.LoggerPort
}

func NewStore(fs afero.Fs, dir string, log output.LoggerPort) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{fs: fs, dir: dir, now: time.Now, log: log}
}

// NewOSStore writes to the real file system.
func NewOSStore(dir string, log output.LoggerPort) *Store {
	return NewStore(afero.NewOsFs(), dir, log)
}

func (s *Store) Dir() string { return s.dir }

// Save writes data to <dir>/<kind>_<suffix>_<hh-mm-ss-mmm>.<ext> and returns
// the path. Empty data is skipped with a warning and an empty path.
func (s *Store) Save(kind Kind, ext, suffix string, data []byte) (string, error) {
	if len(data) == 0 {
		s.log.Warn("nothing to save", "kind", kind, "suffix", suffix)
		return "", nil
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir %s: %w", s.dir, err)
	}
	path := filepath.Join(s.dir, s.fileName(kind, ext, suffix))
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", kind, err)
	}
	s.log.Info("artifact saved", "kind", kind, "path", path)
	return path, nil
}

func (s *Store) SaveText(kind Kind, suffix, text string) (string, error) {
	return s.Save(kind, "txt", suffix, []byte(text))
}

// List returns the saved artifact paths, oldest name first.
func (s *Store) List() ([]string, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	paths := make([]string, 0, len(infos))
	for _, fi := range infos {
		if !fi.IsDir() {
			paths = append(paths, filepath.Join(s.dir, fi.Name()))
		}
	}
	return paths, nil
}

func (s *Store) fileName(kind Kind, ext, suffix string) string {
	now := s.now()
	stamp := fmt.Sprintf("%s-%03d", now.Format("15-04-05"), now.Nanosecond()/int(time.Millisecond))
	parts := []string{string(kind)}
	if suffix != "" {
		parts = append(parts, suffix)
	}
	parts = append(parts, stamp)
	return strings.Join(parts, "_") + "." + strings.TrimPrefix(ext, ".")
}
