package rodwrapper

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

type LaunchOptions struct {
	Headless bool
	// Bin is the browser executable. Empty lets the launcher find or download one.
	Bin string
	// RemoteURL connects to a running browser (DevTools websocket URL) instead
	// of launching one.
	RemoteURL  string
	NoSandbox  bool
	Incognito  bool
	Trace      bool
	SlowMotion time.Duration
}

// Browser wraps *rod.Browser and owns the launched process, if any.
type Browser struct {
	browser  *rod.Browser
	root     *rod.Browser
	launcher *launcher.Launcher
}

func Launch(ctx context.Context, opts LaunchOptions) (*Browser, error) {
	controlURL := opts.RemoteURL
	var l *launcher.Launcher

	if controlURL == "" {
		l = launcher.New().
			Context(ctx).
			Headless(opts.Headless).
			NoSandbox(opts.NoSandbox).
			Delete("use-mock-keychain")
		if opts.Bin != "" {
			l = l.Bin(opts.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		controlURL = u
	}

	root := rod.New().
		Context(ctx).
		ControlURL(controlURL).
		Trace(opts.Trace).
		SlowMotion(opts.SlowMotion)
	if err := root.Connect(); err != nil {
		if l != nil {
			l.Kill()
			l.Cleanup()
		}
		return nil, fmt.Errorf("connect to browser at %s: %w", controlURL, err)
	}

	b := &Browser{browser: root, root: root, launcher: l}
	if opts.Incognito {
		inc, err := root.Incognito()
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("open incognito context: %w", err)
		}
		b.browser = inc
	}
	return b, nil
}

// Rod returns the browser context pages are opened in.
func (b *Browser) Rod() *rod.Browser { return b.browser }

// Close closes the browser and, when it was launched here, kills the process.
func (b *Browser) Close() {
	if b.browser != nil && b.browser != b.root {
		_ = b.browser.Close()
	}
	if b.root != nil && b.launcher != nil {
		_ = b.root.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}
