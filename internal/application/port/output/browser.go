package output

import (
	"context"
	"errors"
	"fmt"

	"ui-template/internal/domain/entity"
)

// Signals every browser adapter maps its library errors onto.
var (
	ErrNoSuchElement = errors.New("no such element")
	ErrStaleElement  = errors.New("stale element reference")
	ErrDriver        = errors.New("driver error")
)

// DriverError wraps an automation-layer failure that is neither a missing
// nor a stale element.
type DriverError struct {
	Op  string
	Err error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDriver, e.Op, e.Err)
}

func (e *DriverError) Unwrap() error { return e.Err }

func (e *DriverError) Is(target error) bool { return target == ErrDriver }

// SearchContext is anything elements can be looked up in: the session itself
// or a previously found element.
type SearchContext interface {
	FindElement(loc entity.Locator) (Element, error)
	FindElements(loc entity.Locator) ([]Element, error)
}

// Element is a live handle to a DOM node. It may turn stale at any time, so
// callers re-resolve it from its SearchContext instead of keeping it.
type Element interface {
	SearchContext

	Displayed() (bool, error)
	Enabled() (bool, error)
	Selected() (bool, error)

	Click() error
	DoubleClick() error
	Hover() error
	Clear() error
	SendKeys(text string) error
	ScrollIntoView() error
	SelectOption(by SelectBy, value string) error

	Text() (string, error)
	HTML() (string, error)
	Attribute(name string) (*string, error)
	Property(name string) (string, error)
	CSSValue(name string) (string, error)
	Rect() (entity.Rect, error)

	// Eval runs js as a function with the element bound to this, e.g.
	// "() => this.click()". Returned values are JSON encoded.
	Eval(js string, args ...any) (string, error)
}

type SelectBy string

const (
	SelectByIndex SelectBy = "index"
	SelectByValue SelectBy = "value"
	SelectByText  SelectBy = "text"
)

// Session is the root search context bound to one browser tab at a time.
type Session interface {
	SearchContext

	ID() string

	Navigate(ctx context.Context, url string) error
	Back(ctx context.Context) error
	Reload(ctx context.Context) error
	URL() (string, error)
	Title() (string, error)
	PageSource() (string, error)

	// Eval runs js as a page level function and returns the JSON encoded result.
	Eval(ctx context.Context, js string, args ...any) (string, error)

	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	// Logs returns the browser log entries captured since the previous call.
	Logs() []entity.LogEntry

	WindowSize() (entity.WindowSize, error)
	SetWindowSize(size entity.WindowSize) error

	CurrentTab() entity.Tab
	Tabs() ([]entity.Tab, error)
	NewTab(ctx context.Context, url string) (entity.Tab, error)
	SwitchToTab(id string) error
	CloseTab(id string) error

	Close()
}
