// Package fake is an in-memory browser session for exercising components and
// pages without Chromium.
package fake

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"ui-template/internal/application/port/output"
	"ui-template/internal/domain/entity"
)

var (
	_ output.Session = (*Session)(nil)
	_ output.Element = (*Element)(nil)
)

// Node is a DOM node. Tests mutate its fields directly between calls.
type Node struct {
	Text     string
	HTML     string
	Attrs    map[string]string
	Props    map[string]string
	CSS      map[string]string
	Hidden   bool
	Disabled bool
	Checked  bool
	Value    string
	Box      entity.Rect
	// Boxes, when set, are returned by successive Rect calls; the last one repeats.
	Boxes    []entity.Rect
	Children map[string][]*Node

	OnClick  func(n *Node)
	EvalFunc func(js string, args ...any) (string, error)

	Clicks       int
	DoubleClicks int
	Hovers       int
	Scrolls      int
	Keys         []string
	Scripts      []string

	mu       sync.Mutex
	detached bool
	errs     map[string][]error
}

// FailNext queues errors returned by the next calls of method, e.g. "Displayed".
func (n *Node) FailNext(method string, errs ...error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.errs == nil {
		n.errs = make(map[string][]error)
	}
	n.errs[method] = append(n.errs[method], errs...)
}

// Detach turns every handle to n stale.
func (n *Node) Detach() {
	n.mu.Lock()
	n.detached = true
	n.mu.Unlock()
}

func (n *Node) Add(loc entity.Locator, children ...*Node) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Children == nil {
		n.Children = make(map[string][]*Node)
	}
	n.Children[keyOf(loc)] = append(n.Children[keyOf(loc)], children...)
	return n
}

func (n *Node) check(method string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.detached {
		return fmt.Errorf("%s: %w", method, output.ErrStaleElement)
	}
	if q := n.errs[method]; len(q) > 0 {
		err := q[0]
		n.errs[method] = q[1:]
		return err
	}
	return nil
}

var optionTag = keyOf(entity.ByTagName("option"))

// keyOf is what a browser sees of loc: the query language and the resolved
// expression. Locators that resolve alike find the same nodes.
func keyOf(loc entity.Locator) string {
	if loc.IsXPath() {
		return "xpath:" + loc.Selector()
	}
	return "css:" + loc.Selector()
}

// Select builds a select node whose option children are found with
// ByTagName("option"). An option is selected when Checked is set.
func Select(options ...*Node) *Node {
	n := &Node{}
	for _, o := range options {
		if o.Checked {
			n.Value = o.Value
		}
	}
	return n.Add(entity.ByTagName("option"), options...)
}

type Page struct {
	Title  string
	Source string
}

// Session is a single tab-aware browser. It is safe for concurrent use.
type Session struct {
	EvalFunc func(js string, args ...any) (string, error)
	Pages    map[string]Page
	Shot     []byte

	mu          sync.Mutex
	id          string
	nodes       map[string][]*Node
	findErrs    map[string][]error
	url         string
	title       string
	source      string
	history     []string
	logs        []entity.LogEntry
	tabs        []entity.Tab
	current     int
	size        entity.WindowSize
	navigations []string
	reloads     int
	scripts     []string
	closed      bool
}

func NewSession() *Session {
	return &Session{
		id:       uuid.NewString(),
		Pages:    make(map[string]Page),
		nodes:    make(map[string][]*Node),
		findErrs: make(map[string][]error),
		tabs:     []entity.Tab{{ID: "tab-1"}},
		size:     entity.WindowSize{Width: 1920, Height: 1080},
	}
}

// Set places nodes at loc, detaching whatever was there.
func (s *Session) Set(loc entity.Locator, nodes ...*Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, old := range s.nodes[keyOf(loc)] {
		old.Detach()
	}
	s.nodes[keyOf(loc)] = nodes
}

func (s *Session) Remove(loc entity.Locator) { s.Set(loc) }

func (s *Session) FailFind(loc entity.Locator, errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findErrs[keyOf(loc)] = append(s.findErrs[keyOf(loc)], errs...)
}

func (s *Session) AddLog(e entity.LogEntry) {
	s.mu.Lock()
	s.logs = append(s.logs, e)
	s.mu.Unlock()
}

func (s *Session) Navigations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.navigations...)
}

func (s *Session) Reloads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloads
}

func (s *Session) Scripts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.scripts...)
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// SetURL changes the location without a navigation, as a client side router would.
func (s *Session) SetURL(url string) {
	s.mu.Lock()
	s.url = url
	s.mu.Unlock()
}

func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
}

func (s *Session) FindElement(loc entity.Locator) (output.Element, error) {
	els, err := s.FindElements(loc)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%s: %w", loc, output.ErrNoSuchElement)
	}
	return els[0], nil
}

func (s *Session) FindElements(loc entity.Locator) ([]output.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := keyOf(loc)
	if q := s.findErrs[key]; len(q) > 0 {
		s.findErrs[key] = q[1:]
		return nil, q[0]
	}
	return handles(s.nodes[key]), nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Navigate(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigations = append(s.navigations, url)
	if s.url != "" {
		s.history = append(s.history, s.url)
	}
	s.load(url)
	return nil
}

func (s *Session) load(url string) {
	s.url = url
	p := s.Pages[url]
	s.title, s.source = p.Title, p.Source
	s.tabs[s.current].URL = url
	s.tabs[s.current].Title = p.Title
}

func (s *Session) Back(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return nil
	}
	prev := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.load(prev)
	return nil
}

func (s *Session) Reload(context.Context) error {
	s.mu.Lock()
	s.reloads++
	s.mu.Unlock()
	return nil
}

func (s *Session) URL() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url, nil
}

func (s *Session) Title() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title, nil
}

func (s *Session) PageSource() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source, nil
}

// Eval delegates to EvalFunc and returns "null" without one.
func (s *Session) Eval(_ context.Context, js string, args ...any) (string, error) {
	s.mu.Lock()
	s.scripts = append(s.scripts, js)
	fn := s.EvalFunc
	s.mu.Unlock()
	if fn == nil {
		return "null", nil
	}
	return fn(js, args...)
}

func (s *Session) Screenshot(context.Context) (*entity.Screenshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &entity.Screenshot{Data: s.Shot, Format: "png", Width: s.size.Width, Height: s.size.Height}, nil
}

func (s *Session) Logs() []entity.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.logs
	s.logs = nil
	return out
}

func (s *Session) WindowSize() (entity.WindowSize, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size, nil
}

func (s *Session) SetWindowSize(size entity.WindowSize) error {
	s.mu.Lock()
	s.size = size
	s.mu.Unlock()
	return nil
}

func (s *Session) CurrentTab() entity.Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tabs[s.current]
}

func (s *Session) Tabs() ([]entity.Tab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Tab(nil), s.tabs...), nil
}

func (s *Session) NewTab(_ context.Context, url string) (entity.Tab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tab := entity.Tab{ID: "tab-" + strconv.Itoa(len(s.tabs)+1), URL: url, Title: s.Pages[url].Title}
	s.tabs = append(s.tabs, tab)
	return tab, nil
}

func (s *Session) SwitchToTab(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tab := range s.tabs {
		if tab.ID == id {
			s.current = i
			s.url = tab.URL
			s.title = tab.Title
			return nil
		}
	}
	return &output.DriverError{Op: "switch tab", Err: fmt.Errorf("no tab %q", id)}
}

func (s *Session) CloseTab(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tab := range s.tabs {
		if tab.ID != id {
			continue
		}
		if len(s.tabs) == 1 {
			return &output.DriverError{Op: "close tab", Err: fmt.Errorf("tab %q is the last one", id)}
		}
		s.tabs = append(s.tabs[:i], s.tabs[i+1:]...)
		if s.current >= len(s.tabs) {
			s.current = len(s.tabs) - 1
		}
		return nil
	}
	return &output.DriverError{Op: "close tab", Err: fmt.Errorf("no tab %q", id)}
}

func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func handles(nodes []*Node) []output.Element {
	els := make([]output.Element, 0, len(nodes))
	for _, n := range nodes {
		els = append(els, &Element{node: n})
	}
	return els
}
