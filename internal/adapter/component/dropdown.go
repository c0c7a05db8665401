package component

import (
	"context"
	"fmt"
	"strconv"

	"ui-template/internal/application/port/output"
	"ui-template/internal/domain/entity"
)

var optionLocator = entity.ByTagName("option")

// DropDown is a native select element.
type DropDown struct {
	*Base
}

func NewDropDown(env *Env, loc entity.Locator, opts ...Option) *DropDown {
	return &DropDown{Base: New(env, loc, append([]Option{WithName("DropDown")}, opts...)...)}
}

func (d *DropDown) SelectByIndex(i int) error {
	return d.selectBy(output.SelectByIndex, strconv.Itoa(i))
}

func (d *DropDown) SelectByValue(value string) error {
	return d.selectBy(output.SelectByValue, value)
}

func (d *DropDown) SelectByText(text string) error {
	return d.selectBy(output.SelectByText, text)
}

func (d *DropDown) SelectFirst() error { return d.SelectByIndex(0) }

func (d *DropDown) SelectLast() error {
	opts, err := d.options()
	if err != nil {
		return err
	}
	return d.SelectByIndex(len(opts) - 1)
}

// SelectNext moves the selection one option down. It reports false, without
// an error, when the last option is already selected.
func (d *DropDown) SelectNext() (bool, error) {
	opts, err := d.options()
	if err != nil {
		return false, err
	}
	current, err := selectedIndex(opts)
	if err != nil {
		return false, err
	}
	next := current + 1
	if next >= len(opts) {
		d.env.Logger.Warn("selected value is out of range", "component", d.name, "locator", d.Locator.String())
		return false, nil
	}
	if err := d.SelectByIndex(next); err != nil {
		return false, err
	}
	return true, nil
}

// Options maps option positions to their texts.
func (d *DropDown) Options() (map[int]string, error) {
	opts, err := d.options()
	if err != nil {
		return nil, err
	}
	out := make(map[int]string, len(opts))
	for i, o := range opts {
		text, err := o.Text()
		if err != nil {
			return nil, err
		}
		out[i] = text
	}
	return out, nil
}

func (d *DropDown) SelectedValue(ctx context.Context) (string, error) {
	return d.DOMProperty(ctx, "value", 0)
}

func (d *DropDown) SelectedText() (string, error) {
	opts, err := d.options()
	if err != nil {
		return "", err
	}
	i, err := selectedIndex(opts)
	if err != nil {
		return "", err
	}
	if i < 0 {
		return "", fmt.Errorf("%s has no selected option: %w", d.describe(), output.ErrNoSuchElement)
	}
	return opts[i].Text()
}

func (d *DropDown) selectBy(by output.SelectBy, value string) error {
	d.env.Logger.Verbose("select option", "component", d.name, "locator", d.Locator.String(), "by", string(by), "value", value)
	el, err := d.Element()
	if err != nil {
		return err
	}
	return el.SelectOption(by, value)
}

func (d *DropDown) options() ([]output.Element, error) {
	return d.FindElementsWithRetry(optionLocator)
}

func selectedIndex(opts []output.Element) (int, error) {
	for i, o := range opts {
		ok, err := o.Selected()
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}
