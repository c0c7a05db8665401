package page

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"ui-template/internal/adapter/component"
)

var (
	ErrInvalidPath        = errors.New("page path has to start with /")
	ErrPageError          = errors.New("fatal HTTP error has been detected on the page")
	ErrPageNotFound       = errors.New("HTTP 404 error has been detected on the page")
	ErrUnexpectedTabCount = errors.New("unexpected count of opened tabs")
)

// errorMarkers in the page source mean the server or the browser failed to
// deliver the page.
var errorMarkers = []string{"HTTP ERROR", "This site can’t be reached", "Bad gateway"}

// Base is embedded by page objects. It knows the page address and the
// navigation that keeps the session usable.
type Base struct {
	site *Site
	env  *component.Env
	url  *url.URL
}

func NewBase(site *Site, path string) (*Base, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	u, err := url.Parse(strings.TrimSuffix(site.BaseURL, "/") + path)
	if err != nil {
		return nil, fmt.Errorf("page url: %w", err)
	}
	return &Base{site: site, env: site.Env, url: u}, nil
}

func (b *Base) URL() *url.URL {
	u := *b.url
	return &u
}

func (b *Base) Env() *component.Env { return b.env }

// Open navigates to the page. The first navigation of a site carries the
// credentials.
func (b *Base) Open(ctx context.Context) error {
	authorized, err := b.navigate(ctx, b.URL())
	if err != nil || !authorized {
		return err
	}
	return b.WaitForReady(ctx)
}

// OpenPath navigates to another path on the same host.
func (b *Base) OpenPath(ctx context.Context, path string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	target, err := url.Parse(b.url.Scheme + "://" + b.url.Host + path)
	if err != nil {
		return fmt.Errorf("page url: %w", err)
	}
	if _, err := b.navigate(ctx, target); err != nil {
		return err
	}
	return b.WaitForReady(ctx)
}

func (b *Base) navigate(ctx context.Context, target *url.URL) (bool, error) {
	if b.site.authorize() {
		b.env.Logger.Verbose("opening page with user authorization", "url", target.String())
		if b.site.User != "" {
			target.User = url.UserPassword(b.site.User, b.site.Password)
		}
		return true, b.env.Session.Navigate(ctx, target.String())
	}
	b.env.Logger.Verbose("opening page", "url", target.String())
	return false, b.env.Session.Navigate(ctx, target.String())
}

func (b *Base) Back(ctx context.Context) error {
	return b.WaitForURLChanged(ctx, b.env.Session.Back)
}

func (b *Base) Refresh(ctx context.Context) error {
	b.env.Logger.Verbose("page will be refreshed")
	if err := b.env.Session.Reload(ctx); err != nil {
		return err
	}
	return b.WaitForReady(ctx)
}

func (b *Base) IsReady(ctx context.Context) (bool, error) { return b.env.IsReady(ctx) }
func (b *Base) WaitForReady(ctx context.Context) error    { return b.env.WaitForReady(ctx) }

// WaitForURLChanged runs action and waits until the location differs from
// the one before it. The new page then has to be ready and free of errors.
func (b *Base) WaitForURLChanged(ctx context.Context, action func(context.Context) error) error {
	before, err := b.env.Session.URL()
	if err != nil {
		return err
	}
	b.env.Logger.Verbose("waiting for url to change", "url", before)
	if err := action(ctx); err != nil {
		return err
	}
	w := b.env.Waits.PageLoad().SetMessage(fmt.Sprintf("Url wasn't changed from '%s' during the timeout.", before))
	if err := w.UntilTrue(ctx, func() (bool, error) {
		now, err := b.env.Session.URL()
		return now != before, err
	}); err != nil {
		return err
	}
	if err := b.WaitForReady(ctx); err != nil {
		return err
	}
	if err := b.CheckForErrors(); err != nil {
		return err
	}
	now, _ := b.env.Session.URL()
	b.env.Logger.Verbose("url was changed", "url", now)
	return nil
}

func (b *Base) WaitForURLContains(ctx context.Context, part string) error {
	w := b.env.Waits.PageLoad().SetMessage(fmt.Sprintf("'%s' wasn't contained in url during the timeout.", part))
	return w.UntilTrue(ctx, func() (bool, error) {
		now, err := b.env.Session.URL()
		return strings.Contains(now, part), err
	})
}

// CheckForErrors fails when the page shows a server or browser error page.
func (b *Base) CheckForErrors() error {
	s := b.env.Session
	now, _ := s.URL()
	title, err := s.Title()
	if err != nil {
		return err
	}
	source, err := s.PageSource()
	if err != nil {
		return err
	}
	if strings.HasPrefix(strings.ToLower(title), "error") || containsAny(source, errorMarkers) {
		b.env.Logger.Error("page is in error state", "url", now, "title", title)
		b.env.Logger.Verbose("source of the page", "source", source)
		return fmt.Errorf("%w: '%s'", ErrPageError, now)
	}
	if strings.Contains(strings.ToLower(title), "page not found") {
		return fmt.Errorf("%w: '%s'", ErrPageNotFound, now)
	}
	return nil
}

// OpenAndSwitchToNewTab runs an action expected to open a second tab and
// switches to it. Exactly one tab has to be open before.
func (b *Base) OpenAndSwitchToNewTab(ctx context.Context, action func(context.Context) error) error {
	s := b.env.Session
	tabs, err := s.Tabs()
	if err != nil {
		return err
	}
	if len(tabs) != 1 {
		return fmt.Errorf("%w: want 1, got %d", ErrUnexpectedTabCount, len(tabs))
	}
	original := s.CurrentTab().ID
	if err := action(ctx); err != nil {
		return err
	}
	w := b.env.Waits.Element().SetMessage("Count of tabs was different from 2.")
	if err := w.UntilTrue(ctx, func() (bool, error) {
		tabs, err = s.Tabs()
		return len(tabs) == 2, err
	}); err != nil {
		return err
	}
	for _, t := range tabs {
		if t.ID != original {
			return s.SwitchToTab(t.ID)
		}
	}
	return nil
}

// CloseTab closes the current tab and returns to the main one. The main tab
// itself is never closed.
func (b *Base) CloseTab(ctx context.Context) error {
	s := b.env.Session
	main := b.site.MainTab()
	current := s.CurrentTab().ID
	if current == main {
		b.env.Logger.Warn("closing of the main tab is forbidden, close only tabs opened from it")
		return nil
	}
	b.env.Logger.Verbose("tab will be closed", "tab", current)
	if err := s.CloseTab(current); err != nil {
		return err
	}
	if err := s.SwitchToTab(main); err != nil {
		return err
	}
	return b.WaitForReady(ctx)
}

func containsAny(s string, subs []string) bool {
	lower := strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
