package fake

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"ui-template/internal/application/port/output"
	"ui-template/internal/domain/entity"
)

// Element is a handle to a Node. It turns stale once the node is detached.
type Element struct {
	node *Node
}

func (e *Element) Node() *Node { return e.node }

func (e *Element) FindElement(loc entity.Locator) (output.Element, error) {
	els, err := e.FindElements(loc)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%s: %w", loc, output.ErrNoSuchElement)
	}
	return els[0], nil
}

func (e *Element) FindElements(loc entity.Locator) ([]output.Element, error) {
	if err := e.node.check("FindElements"); err != nil {
		return nil, err
	}
	e.node.mu.Lock()
	defer e.node.mu.Unlock()
	return handles(e.node.Children[keyOf(loc)]), nil
}

func (e *Element) Displayed() (bool, error) {
	if err := e.node.check("Displayed"); err != nil {
		return false, err
	}
	return !e.node.Hidden, nil
}

func (e *Element) Enabled() (bool, error) {
	if err := e.node.check("Enabled"); err != nil {
		return false, err
	}
	return !e.node.Disabled, nil
}

func (e *Element) Selected() (bool, error) {
	if err := e.node.check("Selected"); err != nil {
		return false, err
	}
	return e.node.Checked, nil
}

func (e *Element) Click() error {
	if err := e.node.check("Click"); err != nil {
		return err
	}
	e.node.Clicks++
	if e.node.OnClick != nil {
		e.node.OnClick(e.node)
	}
	return nil
}

func (e *Element) DoubleClick() error {
	if err := e.node.check("DoubleClick"); err != nil {
		return err
	}
	e.node.DoubleClicks++
	return nil
}

func (e *Element) Hover() error {
	if err := e.node.check("Hover"); err != nil {
		return err
	}
	e.node.Hovers++
	return nil
}

func (e *Element) Clear() error {
	if err := e.node.check("Clear"); err != nil {
		return err
	}
	e.node.Value = ""
	return nil
}

func (e *Element) SendKeys(text string) error {
	if err := e.node.check("SendKeys"); err != nil {
		return err
	}
	e.node.Keys = append(e.node.Keys, text)
	if text == entity.KeyControl+"a" {
		return nil
	}
	if strings.Contains(text, entity.KeyBackspace) && e.node.Value != "" {
		e.node.Value = e.node.Value[:len(e.node.Value)-1]
	}
	e.node.Value += entity.PlainText(text)
	return nil
}

func (e *Element) ScrollIntoView() error {
	if err := e.node.check("ScrollIntoView"); err != nil {
		return err
	}
	e.node.Scrolls++
	return nil
}

// SelectOption picks among the node's option children, see Select.
func (e *Element) SelectOption(by output.SelectBy, value string) error {
	if err := e.node.check("SelectOption"); err != nil {
		return err
	}
	opts := e.node.Children[optionTag]
	idx := -1
	for i, o := range opts {
		if by == output.SelectByIndex && strconv.Itoa(i) == value ||
			by == output.SelectByValue && o.Value == value ||
			by == output.SelectByText && o.Text == value {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("option %s=%q: %w", by, value, output.ErrNoSuchElement)
	}
	for i, o := range opts {
		o.Checked = i == idx
	}
	e.node.Value = opts[idx].Value
	return nil
}

func (e *Element) Text() (string, error) {
	if err := e.node.check("Text"); err != nil {
		return "", err
	}
	return e.node.Text, nil
}

func (e *Element) HTML() (string, error) {
	if err := e.node.check("HTML"); err != nil {
		return "", err
	}
	return e.node.HTML, nil
}

func (e *Element) Attribute(name string) (*string, error) {
	if err := e.node.check("Attribute"); err != nil {
		return nil, err
	}
	if name == "value" {
		v := e.node.Value
		return &v, nil
	}
	v, ok := e.node.Attrs[name]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (e *Element) Property(name string) (string, error) {
	if err := e.node.check("Property"); err != nil {
		return "", err
	}
	switch name {
	case "value":
		return e.node.Value, nil
	case "checked":
		return strconv.FormatBool(e.node.Checked), nil
	case "disabled":
		return strconv.FormatBool(e.node.Disabled), nil
	}
	return e.node.Props[name], nil
}

func (e *Element) CSSValue(name string) (string, error) {
	if err := e.node.check("CSSValue"); err != nil {
		return "", err
	}
	return e.node.CSS[name], nil
}

func (e *Element) Rect() (entity.Rect, error) {
	if err := e.node.check("Rect"); err != nil {
		return entity.Rect{}, err
	}
	n := e.node
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Boxes) == 0 {
		return n.Box, nil
	}
	r := n.Boxes[0]
	if len(n.Boxes) > 1 {
		n.Boxes = n.Boxes[1:]
	}
	return r, nil
}

// Eval delegates to the node's EvalFunc. Without one it returns the node's
// state as JSON, mirroring a script that reads this.value.
func (e *Element) Eval(js string, args ...any) (string, error) {
	if err := e.node.check("Eval"); err != nil {
		return "", err
	}
	e.node.Scripts = append(e.node.Scripts, js)
	if e.node.EvalFunc != nil {
		return e.node.EvalFunc(js, args...)
	}
	b, err := json.Marshal(e.node.Value)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
