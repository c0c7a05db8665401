// Package lifecycle runs a browser test inside its own container and
// collects evidence when it fails.
package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"ui-template/internal/di"
	"ui-template/internal/infrastructure/artifacts"
	"ui-template/internal/infrastructure/browser/rodwrapper"
	"ui-template/internal/infrastructure/config"
)

const errorSuffix = "error"

// Start builds the container of t and registers its teardown with t.Cleanup.
func Start(t testing.TB, cfg *config.Config, opts di.Options) *di.Container {
	t.Helper()
	if opts.Scope == "" {
		opts.Scope = t.Name()
	}
	c, err := di.NewContainer(t.Context(), cfg, opts)
	if err != nil {
		t.Fatalf("test %q cannot start: %v", t.Name(), err)
	}
	started := begin(t, c)
	t.Cleanup(func() { end(t, c, started) })
	return c
}

// Run executes fn with c and tears c down afterwards. A panic in fn fails t.
func Run(t testing.TB, c *di.Container, fn func(ctx context.Context, c *di.Container)) {
	t.Helper()
	started := begin(t, c)
	defer end(t, c, started)
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error("test panicked", "panic", r)
			t.Errorf("test %q panicked: %v", t.Name(), r)
		}
	}()
	fn(t.Context(), c)
}

func begin(t testing.TB, c *di.Container) time.Time {
	c.Logger.Info(fmt.Sprintf("EXECUTE TEST %q", t.Name()))
	c.Logger.Info("TEST START", "session", c.Session.ID())
	return time.Now()
}

func end(t testing.TB, c *di.Container, started time.Time) {
	failed := t.Failed()
	result := "Passed"
	if failed {
		result = "Failed"
	}
	c.Logger.Info("TEST END", "elapsed", time.Since(started))
	c.Logger.Info("Test Result: " + result)

	if failed {
		saveEvidence(c)
	}
	if failed || c.Config.Test.StoreLogsAlways {
		attach(t, c)
	}
	if err := c.Close(); err != nil {
		t.Logf("closing test container: %v", err)
	}
}

// saveEvidence stores page source, browser logs and a screenshot. Failures
// are logged and never hide the test result.
func saveEvidence(c *di.Container) {
	store, log, s := c.Artifacts, c.Logger, c.Session

	if src, err := s.PageSource(); err != nil {
		log.Error("cannot read page source", "error", err)
	} else if src != "" {
		if _, err := store.Save(artifacts.KindPageSource, "html", errorSuffix, []byte(src)); err != nil {
			log.Error("cannot save page source", "error", err)
		}
		if _, err := store.Save(artifacts.KindPageSource, "html", errorSuffix+"_clean", []byte(rodwrapper.CleanHTML(src, nil))); err != nil {
			log.Error("cannot save cleaned page source", "error", err)
		}
	}

	var b strings.Builder
	for _, e := range s.Logs() {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	if _, err := store.SaveText(artifacts.KindBrowserLogs, errorSuffix, b.String()); err != nil {
		log.Error("cannot save browser logs", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	shot, err := s.Screenshot(ctx)
	if err != nil {
		log.Error("cannot take screenshot", "error", err)
		return
	}
	if _, err := store.Save(artifacts.KindScreenshot, shot.Format, errorSuffix, shot.Data); err != nil {
		log.Error("cannot save screenshot", "error", err)
	}
}

func attach(t testing.TB, c *di.Container) {
	for _, f := range c.Logger.Files() {
		t.Logf("log file: %s", f)
	}
	saved, err := c.Artifacts.List()
	if err != nil {
		t.Logf("listing artifacts: %v", err)
		return
	}
	for _, f := range saved {
		t.Logf("artifact: %s", f)
	}
}
