package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"github.com/ysmood/gson"

	"ui-template/internal/application/port/output"
	"ui-template/internal/domain/entity"
	"ui-template/internal/infrastructure/browser/rodwrapper"
)

var _ output.Session = (*Session)(nil)

const (
	defaultTimeout = 30 * time.Second
	// Console messages kept per session; older ones are dropped.
	maxLogEntries = 2000
)

type Config struct {
	Headless   bool
	Bin        string
	RemoteURL  string
	NoSandbox  bool
	Window     entity.WindowSize
	Timeout    time.Duration
	SlowMotion time.Duration
	Trace      bool
	// ScreenshotMaxWidth downscales wider screenshots. Zero keeps the original size.
	ScreenshotMaxWidth int
	Logger             output.LoggerPort
}

func DefaultConfig() Config {
	return Config{
		Headless: true,
		Window:   entity.WindowSize{Width: 1920, Height: 1080},
		Timeout:  defaultTimeout,
	}
}

// Session drives one browser with one active tab at a time.
type Session struct {
	id      string
	browser *rodwrapper.Browser
	cfg     Config
	log     output.LoggerPort
	ctx     context.Context
	cancel  context.CancelFunc

	mu     sync.Mutex
	page   *rod.Page
	logs   []entity.LogEntry
	closed bool
}

// NewSession starts the browser. ctx bounds the start only; the session lives
// until Close.
func NewSession(ctx context.Context, cfg Config) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	sctx, cancel := context.WithCancel(context.Background())

	b, err := rodwrapper.Launch(sctx, rodwrapper.LaunchOptions{
		Headless:   cfg.Headless,
		Bin:        cfg.Bin,
		RemoteURL:  cfg.RemoteURL,
		NoSandbox:  cfg.NoSandbox,
		Incognito:  true,
		Trace:      cfg.Trace,
		SlowMotion: cfg.SlowMotion,
	})
	if err != nil {
		cancel()
		return nil, err
	}

	s := &Session{
		id:      uuid.NewString(),
		browser: b,
		cfg:     cfg,
		log:     cfg.Logger,
		ctx:     sctx,
		cancel:  cancel,
	}

	page, err := b.Rod().Timeout(cfg.Timeout).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		s.Close()
		return nil, classify("open page", err)
	}
	s.attach(page)

	if !cfg.Window.IsEmpty() {
		if err := s.SetWindowSize(cfg.Window); err != nil {
			s.Close()
			return nil, err
		}
	}
	s.debug("browser session started", "session", s.id, "headless", cfg.Headless, "remote", cfg.RemoteURL != "")
	return s, nil
}

// attach makes page the active tab and starts capturing its console output.
func (s *Session) attach(page *rod.Page) {
	page = page.Context(s.ctx)
	s.mu.Lock()
	s.page = page
	s.mu.Unlock()
	go s.captureLogs(page)()
}

func (s *Session) current() *rod.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// lookup is the active page without implicit waiting: a miss fails at once.
func (s *Session) lookup() *rod.Page {
	return s.current().Sleeper(rod.NotFoundSleeper)
}

func (s *Session) ID() string { return s.id }

func (s *Session) FindElement(loc entity.Locator) (output.Element, error) {
	return findOne(s.lookup(), loc, s.cfg.Timeout)
}

func (s *Session) FindElements(loc entity.Locator) ([]output.Element, error) {
	return findAll(s.lookup(), loc, s.cfg.Timeout)
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	p := s.current().Context(ctx).Timeout(s.cfg.Timeout)
	defer p.CancelTimeout()
	if err := p.Navigate(url); err != nil {
		return classify("navigate", err)
	}
	if err := p.WaitLoad(); err != nil {
		return classify("wait load", err)
	}
	s.debug("navigated", "url", url)
	return nil
}

func (s *Session) Back(ctx context.Context) error {
	p := s.current().Context(ctx).Timeout(s.cfg.Timeout)
	defer p.CancelTimeout()
	return classify("navigate back", p.NavigateBack())
}

func (s *Session) Reload(ctx context.Context) error {
	p := s.current().Context(ctx).Timeout(s.cfg.Timeout)
	defer p.CancelTimeout()
	if err := p.Reload(); err != nil {
		return classify("reload", err)
	}
	return classify("wait load", p.WaitLoad())
}

func (s *Session) URL() (string, error) {
	info, err := s.current().Info()
	if err != nil {
		return "", classify("page info", err)
	}
	return info.URL, nil
}

func (s *Session) Title() (string, error) {
	info, err := s.current().Info()
	if err != nil {
		return "", classify("page info", err)
	}
	return info.Title, nil
}

func (s *Session) PageSource() (string, error) {
	html, err := s.current().HTML()
	return html, classify("page source", err)
}

func (s *Session) Eval(ctx context.Context, js string, args ...any) (string, error) {
	p := s.current().Context(ctx).Timeout(s.cfg.Timeout)
	defer p.CancelTimeout()
	res, err := p.Eval(js, args...)
	if err != nil {
		return "", classify("eval", err)
	}
	return res.Value.JSON("", ""), nil
}

// Screenshot captures the viewport as PNG.
func (s *Session) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	p := s.current().Context(ctx).Timeout(s.cfg.Timeout)
	defer p.CancelTimeout()
	data, err := p.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, classify("screenshot", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("screenshot decode failed: %w", err)
	}
	if maxWidth := s.cfg.ScreenshotMaxWidth; maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
		if data, err = encodePNG(img); err != nil {
			return nil, err
		}
	}

	return &entity.Screenshot{
		Data:   data,
		Format: "png",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("png encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Session) WindowSize() (entity.WindowSize, error) {
	bounds, err := s.current().GetWindow()
	if err != nil {
		return entity.WindowSize{}, classify("get window", err)
	}
	size := entity.WindowSize{}
	if bounds.Width != nil {
		size.Width = *bounds.Width
	}
	if bounds.Height != nil {
		size.Height = *bounds.Height
	}
	return size, nil
}

func (s *Session) SetWindowSize(size entity.WindowSize) error {
	err := s.current().SetWindow(&proto.BrowserBounds{
		Width:       gson.Int(size.Width),
		Height:      gson.Int(size.Height),
		WindowState: proto.BrowserWindowStateNormal,
	})
	if err != nil {
		// Headless shells have no window; fall back to the viewport.
		err = s.current().SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:  size.Width,
			Height: size.Height,
		})
	}
	return classify("set window size", err)
}

func (s *Session) CurrentTab() entity.Tab {
	return tabOf(s.current())
}

func tabOf(p *rod.Page) entity.Tab {
	tab := entity.Tab{ID: string(p.TargetID)}
	if info, err := p.Info(); err == nil {
		tab.URL, tab.Title = info.URL, info.Title
	}
	return tab
}

func (s *Session) Tabs() ([]entity.Tab, error) {
	pages, err := s.browser.Rod().Pages()
	if err != nil {
		return nil, classify("list tabs", err)
	}
	tabs := make([]entity.Tab, 0, len(pages))
	for _, p := range pages {
		tabs = append(tabs, tabOf(p))
	}
	return tabs, nil
}

func (s *Session) NewTab(ctx context.Context, url string) (entity.Tab, error) {
	p, err := s.browser.Rod().Context(ctx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return entity.Tab{}, classify("new tab", err)
	}
	if err := p.Timeout(s.cfg.Timeout).WaitLoad(); err != nil {
		return entity.Tab{}, classify("wait load", err)
	}
	return tabOf(p), nil
}

func (s *Session) SwitchToTab(id string) error {
	p, err := s.pageByID(id)
	if err != nil {
		return err
	}
	if _, err := p.Activate(); err != nil {
		return classify("switch tab", err)
	}
	s.attach(p)
	return nil
}

func (s *Session) CloseTab(id string) error {
	p, err := s.pageByID(id)
	if err != nil {
		return err
	}
	return classify("close tab", p.Close())
}

func (s *Session) pageByID(id string) (*rod.Page, error) {
	pages, err := s.browser.Rod().Pages()
	if err != nil {
		return nil, classify("list tabs", err)
	}
	for _, p := range pages {
		if string(p.TargetID) == id {
			return p, nil
		}
	}
	return nil, &output.DriverError{Op: "find tab", Err: fmt.Errorf("no tab with id %q", id)}
}

func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.browser.Close()
	s.debug("browser session closed", "session", s.id)
}

func (s *Session) debug(msg string, args ...any) {
	if s.log != nil {
		s.log.Debug(msg, args...)
	}
}
