package component

import (
	"context"
	"errors"
	"fmt"

	"ui-template/internal/application/port/output"
	"ui-template/internal/domain/entity"
	"ui-template/internal/usecase/evaluator"
)

// ErrNotInteractable fails SendKeys at once instead of waiting it out.
var ErrNotInteractable = errors.New("element is not displayed or not enabled")

const (
	valueScript    = `() => this.value`
	setValueScript = `(v) => {
	this.value = v;
	this.dispatchEvent(new Event('input', {bubbles: true}));
	this.dispatchEvent(new Event('change', {bubbles: true}));
}`
)

type TextInput struct {
	*Base
}

func NewTextInput(env *Env, loc entity.Locator, opts ...Option) *TextInput {
	return &TextInput{Base: New(env, loc, append([]Option{WithName("TextInput")}, opts...)...)}
}

func (i *TextInput) Clear(ctx context.Context) error {
	w := i.env.Waits.Element().SetMessage(fmt.Sprintf("%s couldn't be cleared during the timeout.", i.describe()))
	return w.UntilTrue(ctx, i.IsCleared)
}

func (i *TextInput) IsCleared() (bool, error) {
	return i.evaluator().EvaluateBool(evaluator.Enabled, func(el output.Element) error { return el.Clear() })
}

// ClearJS empties the value from the page and waits until it reads empty.
func (i *TextInput) ClearJS(ctx context.Context) error {
	if err := i.SendKeysJS(ctx, ""); err != nil {
		return err
	}
	w := i.env.Waits.Element().SetMessage(fmt.Sprintf("%s couldn't be cleared during the timeout.", i.describe()))
	return w.UntilTrue(ctx, func() (bool, error) {
		v, err := i.ValueJS()
		return v == "", err
	})
}

func (i *TextInput) SendKeys(ctx context.Context, text string) error {
	i.env.Logger.Verbose("text to be filled", "component", i.name, "locator", i.Locator.String(), "text", text)
	w := i.env.Waits.Element().SetMessage(fmt.Sprintf("%s couldn't be set during the timeout.", i.describe()))
	return w.UntilTrue(ctx, func() (bool, error) { return i.IsSendKeys(text) })
}

// IsSendKeys types text once. An element that is not displayed and enabled
// yields ErrNotInteractable.
func (i *TextInput) IsSendKeys(text string) (bool, error) {
	return i.evaluator().EvaluateBool(interactable, func(el output.Element) error { return el.SendKeys(text) })
}

func interactable(el output.Element) (output.Element, error) {
	got, err := evaluator.Enabled(el)
	if err != nil {
		return nil, err
	}
	if got == nil {
		return nil, ErrNotInteractable
	}
	return got, nil
}

// SendKeysJS sets the value from the page and fires input and change events.
func (i *TextInput) SendKeysJS(ctx context.Context, text string) error {
	i.env.Logger.Verbose("text to be filled", "component", i.name, "locator", i.Locator.String(), "text", text)
	if err := i.WaitForEnabled(ctx); err != nil {
		return err
	}
	el, err := i.Element()
	if err != nil {
		return err
	}
	_, err = el.Eval(setValueScript, text)
	return err
}

// ValueJS reads the current value straight from the page.
func (i *TextInput) ValueJS() (string, error) {
	el, err := i.Element()
	if err != nil {
		return "", err
	}
	res, err := el.Eval(valueScript)
	if err != nil {
		return "", err
	}
	v := unquote(res)
	i.env.Logger.Verbose("value read", "component", i.name, "locator", i.Locator.String(), "value", v)
	return v, nil
}

func (i *TextInput) Value(ctx context.Context) (string, error) {
	return i.DOMProperty(ctx, "value", 0)
}

func (i *TextInput) SendEnter(ctx context.Context) error {
	return i.SendKeys(ctx, entity.KeyEnter)
}

func (i *TextInput) SendSpace(ctx context.Context) error {
	return i.SendKeys(ctx, entity.KeySpace)
}

func (i *TextInput) SendBackspace(ctx context.Context) error {
	return i.SendKeys(ctx, entity.KeyBackspace)
}

func (i *TextInput) SelectAll(ctx context.Context) error {
	return i.SendKeys(ctx, entity.KeyControl+"a")
}

// HoverAndClick waits for the input to be enabled and does not wait for the
// page afterwards.
func (i *TextInput) HoverAndClick(ctx context.Context) error {
	if err := i.WaitForEnabled(ctx); err != nil {
		return err
	}
	return i.act(hover, click)
}
