package rod

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"ui-template/internal/application/port/output"
	"ui-template/internal/domain/entity"
)

var _ output.Element = (*Element)(nil)

type Element struct {
	el      *rod.Element
	timeout time.Duration
}

// searcher is what *rod.Page and *rod.Element have in common for lookups.
type searcher interface {
	Element(selector string) (*rod.Element, error)
	ElementX(xpath string) (*rod.Element, error)
	Elements(selector string) (rod.Elements, error)
	ElementsX(xpath string) (rod.Elements, error)
}

func findOne(s searcher, loc entity.Locator, timeout time.Duration) (output.Element, error) {
	var el *rod.Element
	var err error
	if loc.IsXPath() {
		el, err = s.ElementX(loc.Selector())
	} else {
		el, err = s.Element(loc.Selector())
	}
	if err != nil {
		return nil, classify("find "+loc.String(), err)
	}
	return &Element{el: el, timeout: timeout}, nil
}

func findAll(s searcher, loc entity.Locator, timeout time.Duration) ([]output.Element, error) {
	var els rod.Elements
	var err error
	if loc.IsXPath() {
		els, err = s.ElementsX(loc.Selector())
	} else {
		els, err = s.Elements(loc.Selector())
	}
	if err != nil {
		return nil, classify("find all "+loc.String(), err)
	}
	out := make([]output.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &Element{el: el, timeout: timeout})
	}
	return out, nil
}

// do runs fn on a time bounded copy of the element after checking the node
// is still attached.
func (e *Element) do(op string, fn func(el *rod.Element) error) error {
	el := e.el.Timeout(e.timeout)
	defer el.CancelTimeout()

	res, err := el.Eval(`() => this.isConnected`)
	if err != nil {
		return classify(op, err)
	}
	if !res.Value.Bool() {
		return classify(op, errDetached)
	}
	return classify(op, fn(el))
}

func (e *Element) lookup() *rod.Element {
	return e.el.Sleeper(rod.NotFoundSleeper)
}

func (e *Element) FindElement(loc entity.Locator) (output.Element, error) {
	var found output.Element
	err := e.do("find "+loc.String(), func(*rod.Element) error {
		var err error
		found, err = findOne(e.lookup(), loc, e.timeout)
		return err
	})
	return found, err
}

func (e *Element) FindElements(loc entity.Locator) ([]output.Element, error) {
	var found []output.Element
	err := e.do("find all "+loc.String(), func(*rod.Element) error {
		var err error
		found, err = findAll(e.lookup(), loc, e.timeout)
		return err
	})
	return found, err
}

func (e *Element) Displayed() (bool, error) {
	var visible bool
	err := e.do("is displayed", func(el *rod.Element) error {
		var err error
		visible, err = el.Visible()
		return err
	})
	return visible, err
}

func (e *Element) Enabled() (bool, error) {
	disabled, err := e.boolProperty("is enabled", "disabled")
	return !disabled, err
}

// Selected covers checkboxes, radios and select options.
func (e *Element) Selected() (bool, error) {
	var v bool
	err := e.do("is selected", func(el *rod.Element) error {
		res, err := el.Eval(`() => !!(this.checked || this.selected)`)
		if err != nil {
			return err
		}
		v = res.Value.Bool()
		return nil
	})
	return v, err
}

func (e *Element) boolProperty(op, name string) (bool, error) {
	var v bool
	err := e.do(op, func(el *rod.Element) error {
		p, err := el.Property(name)
		if err != nil {
			return err
		}
		v = p.Bool()
		return nil
	})
	return v, err
}

func (e *Element) Click() error {
	return e.do("click", func(el *rod.Element) error {
		return el.Click(proto.InputMouseButtonLeft, 1)
	})
}

func (e *Element) DoubleClick() error {
	return e.do("double click", func(el *rod.Element) error {
		return el.Click(proto.InputMouseButtonLeft, 2)
	})
}

func (e *Element) Hover() error {
	return e.do("hover", func(el *rod.Element) error { return el.Hover() })
}

func (e *Element) Clear() error {
	return e.do("clear", func(el *rod.Element) error {
		if err := el.SelectAllText(); err != nil {
			return err
		}
		return el.Input("")
	})
}

func (e *Element) SendKeys(text string) error {
	return e.do("send keys", func(el *rod.Element) error {
		if !entity.HasKeys(text) {
			return el.Input(text)
		}
		return typeKeys(el, text)
	})
}

var keys = map[rune]input.Key{
	[]rune(entity.KeyBackspace)[0]: input.Backspace,
	[]rune(entity.KeyTab)[0]:       input.Tab,
	[]rune(entity.KeyEnter)[0]:     input.Enter,
	[]rune(entity.KeyEscape)[0]:    input.Escape,
	[]rune(entity.KeySpace)[0]:     input.Space,
	[]rune(entity.KeyEnd)[0]:       input.End,
	[]rune(entity.KeyHome)[0]:      input.Home,
}

// typeKeys sends plain runs as text input and special keys as key presses.
// A control key modifies the rune right after it.
func typeKeys(el *rod.Element, text string) error {
	var plain strings.Builder
	flush := func() error {
		if plain.Len() == 0 {
			return nil
		}
		defer plain.Reset()
		return el.Input(plain.String())
	}
	ctrl := false
	for _, r := range text {
		switch {
		case string(r) == entity.KeyControl:
			if err := flush(); err != nil {
				return err
			}
			ctrl = true
		case ctrl:
			ka, err := el.KeyActions()
			if err != nil {
				return err
			}
			if err := ka.Press(input.ControlLeft).Type(input.Key(unicode.ToLower(r))).Release(input.ControlLeft).Do(); err != nil {
				return err
			}
			ctrl = false
		case entity.IsKey(r):
			k, ok := keys[r]
			if !ok {
				return fmt.Errorf("unsupported key %U", r)
			}
			if err := flush(); err != nil {
				return err
			}
			if err := el.Type(k); err != nil {
				return err
			}
		default:
			plain.WriteRune(r)
		}
	}
	return flush()
}

func (e *Element) ScrollIntoView() error {
	return e.do("scroll into view", func(el *rod.Element) error { return el.ScrollIntoView() })
}

func (e *Element) SelectOption(by output.SelectBy, value string) error {
	return e.do("select "+string(by), func(el *rod.Element) error {
		switch by {
		case output.SelectByText:
			return el.Select([]string{value}, true, rod.SelectorTypeText)
		case output.SelectByValue:
			return el.Select([]string{fmt.Sprintf("option[value=%q]", value)}, true, rod.SelectorTypeCSSSector)
		case output.SelectByIndex:
			i, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("option index %q: %w", value, err)
			}
			return el.Select([]string{fmt.Sprintf("option:nth-of-type(%d)", i+1)}, true, rod.SelectorTypeCSSSector)
		default:
			return fmt.Errorf("unknown select strategy %q", by)
		}
	})
}

func (e *Element) Text() (string, error) {
	var text string
	err := e.do("text", func(el *rod.Element) error {
		var err error
		text, err = el.Text()
		return err
	})
	return text, err
}

func (e *Element) HTML() (string, error) {
	var html string
	err := e.do("html", func(el *rod.Element) error {
		var err error
		html, err = el.HTML()
		return err
	})
	return html, err
}

func (e *Element) Attribute(name string) (*string, error) {
	var v *string
	err := e.do("attribute "+name, func(el *rod.Element) error {
		var err error
		v, err = el.Attribute(name)
		return err
	})
	return v, err
}

func (e *Element) Property(name string) (string, error) {
	var v string
	err := e.do("property "+name, func(el *rod.Element) error {
		p, err := el.Property(name)
		if err != nil {
			return err
		}
		if !p.Nil() {
			v = p.String()
		}
		return nil
	})
	return v, err
}

func (e *Element) CSSValue(name string) (string, error) {
	var v string
	err := e.do("css "+name, func(el *rod.Element) error {
		res, err := el.Eval(`(name) => getComputedStyle(this).getPropertyValue(name)`, name)
		if err != nil {
			return err
		}
		v = res.Value.String()
		return nil
	})
	return v, err
}

func (e *Element) Rect() (entity.Rect, error) {
	var r entity.Rect
	err := e.do("rect", func(el *rod.Element) error {
		shape, err := el.Shape()
		if err != nil {
			return err
		}
		box := shape.Box()
		if box == nil {
			return nil
		}
		r = entity.Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}
		return nil
	})
	return r, err
}

func (e *Element) Eval(js string, args ...any) (string, error) {
	var v string
	err := e.do("eval", func(el *rod.Element) error {
		res, err := el.Eval(js, args...)
		if err != nil {
			return err
		}
		v = res.Value.JSON("", "")
		return nil
	})
	return v, err
}
