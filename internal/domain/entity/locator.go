package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedLocator is returned when an operation needs a strategy the locator does not use.
var ErrUnsupportedLocator = errors.New("unsupported locator strategy")

type Strategy string

const (
	StrategyCSS    Strategy = "css"
	StrategyXPath  Strategy = "xpath"
	StrategyTag    Strategy = "tag"
	StrategyTestID Strategy = "testid"
)

// TestIDAttribute is the project specific attribute used by ByTestID.
const TestIDAttribute = "data-testid"

// Locator describes how to find zero or more elements inside a search context.
// The zero value is not usable; build one with the By* constructors.
type Locator struct {
	strategy Strategy
	expr     string
}

func ByCSS(selector string) Locator  { return Locator{strategy: StrategyCSS, expr: selector} }
func ByXPath(xpath string) Locator   { return Locator{strategy: StrategyXPath, expr: xpath} }
func ByTagName(tag string) Locator   { return Locator{strategy: StrategyTag, expr: tag} }
func ByTestID(id string) Locator     { return Locator{strategy: StrategyTestID, expr: id} }
func (l Locator) Strategy() Strategy { return l.strategy }
func (l Locator) IsXPath() bool      { return l.strategy == StrategyXPath }
func (l Locator) IsZero() bool       { return l.expr == "" }
func (l Locator) Expression() string { return l.expr }

// ParseSelector picks XPath for expressions that look like one and CSS otherwise.
func ParseSelector(selector string) Locator {
	s := strings.TrimSpace(selector)
	switch {
	case strings.HasPrefix(s, "xpath="):
		return ByXPath(strings.TrimPrefix(s, "xpath="))
	case strings.HasPrefix(s, "/"), strings.HasPrefix(s, "("):
		return ByXPath(s)
	default:
		return ByCSS(s)
	}
}

// Selector returns the expression handed to the driver. Tag and test id
// locators resolve to CSS.
func (l Locator) Selector() string {
	switch l.strategy {
	case StrategyTestID:
		return fmt.Sprintf("[%s='%s']", TestIDAttribute, l.expr)
	default:
		return l.expr
	}
}

// String is the log form, e.g. "By.xpath: //div".
func (l Locator) String() string {
	return fmt.Sprintf("By.%s: %s", l.strategy, l.expr)
}

// Nth returns the i-th (1-based) match of an XPath locator as its own locator.
func (l Locator) Nth(i int) (Locator, error) {
	if !l.IsXPath() {
		return Locator{}, fmt.Errorf("%w: %q, only xpath can be indexed", ErrUnsupportedLocator, l.strategy)
	}
	if i < 1 {
		return Locator{}, fmt.Errorf("xpath index must be 1 or greater, got %d", i)
	}
	return ByXPath(fmt.Sprintf("(%s)[%d]", l.expr, i)), nil
}
