package component

import (
	"context"
	"encoding/json"
	"fmt"

	"ui-template/internal/application/port/output"
	"ui-template/internal/usecase/evaluator"
)

const clickScript = `() => this.click()`

// Click waits until the element is displayed and the click went through.
func (b *Base) Click(ctx context.Context) error {
	w := b.env.Waits.Element().SetMessage(fmt.Sprintf("%s wasn't clicked during the timeout.", b.describe()))
	return w.UntilTrue(ctx, b.IsClicked)
}

// IsClicked clicks a displayed element once. A driver error counts as
// clicked.
func (b *Base) IsClicked() (bool, error) {
	return b.evaluator().EvaluateBool(evaluator.Displayed, click, evaluator.DriverErrorResult(true))
}

// ClickJS dispatches the click from the page, skipping visibility checks.
func (b *Base) ClickJS(context.Context) error {
	el, err := b.Element()
	if err != nil {
		return err
	}
	_, err = el.Eval(clickScript)
	return err
}

// ClickIfDisplayed clicks only a displayed element and reports whether it did.
func (b *Base) ClickIfDisplayed(ctx context.Context) (bool, error) {
	return b.ifDisplayed(ctx, b.Click)
}

func (b *Base) ClickJSIfDisplayed(ctx context.Context) (bool, error) {
	return b.ifDisplayed(ctx, b.ClickJS)
}

func (b *Base) ifDisplayed(ctx context.Context, action func(context.Context) error) (bool, error) {
	displayed, err := b.IsDisplayed()
	if err != nil || !displayed {
		return false, err
	}
	if err := action(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Base) ScrollTo(ctx context.Context) error {
	b.env.Logger.Verbose("scrolling to component", "component", b.name, "locator", b.Locator.String())
	if _, err := b.evaluator().EvaluateBool(evaluator.Present, scroll); err != nil {
		return err
	}
	return b.env.WaitForReady(ctx)
}

// ScrollToChild brings the component and then its child into view.
func (b *Base) ScrollToChild(ctx context.Context, child *Base) error {
	steps := []func(context.Context) error{
		b.WaitForPresent,
		b.ScrollTo,
		child.WaitForPresent,
		child.ScrollTo,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *Base) ScrollToAndClick(ctx context.Context) error {
	if err := b.ScrollTo(ctx); err != nil {
		return err
	}
	if err := b.Click(ctx); err != nil {
		return err
	}
	return b.env.WaitForReady(ctx)
}

func (b *Base) ScrollToAndClickJS(ctx context.Context) error {
	if err := b.ScrollTo(ctx); err != nil {
		return err
	}
	if err := b.ClickJS(ctx); err != nil {
		return err
	}
	return b.env.WaitForReady(ctx)
}

func (b *Base) Hover(ctx context.Context) error {
	if err := b.act(hover); err != nil {
		return err
	}
	return b.env.WaitForReady(ctx)
}

func (b *Base) HoverAndClick(ctx context.Context) error {
	if err := b.act(hover, click); err != nil {
		return err
	}
	return b.env.WaitForReady(ctx)
}

func (b *Base) DoubleClick(ctx context.Context) error {
	if err := b.act(func(el output.Element) error { return el.DoubleClick() }); err != nil {
		return err
	}
	return b.env.WaitForReady(ctx)
}

// act runs the actions on one fresh element.
func (b *Base) act(actions ...evaluator.Action) error {
	el, err := b.Element()
	if err != nil {
		return err
	}
	for _, a := range actions {
		if err := a(el); err != nil {
			return err
		}
	}
	return nil
}

func click(el output.Element) error  { return el.Click() }
func hover(el output.Element) error  { return el.Hover() }
func scroll(el output.Element) error { return el.ScrollIntoView() }

// unquote decodes a JSON string result and keeps anything else as is. JSON
// null reads as empty.
func unquote(res string) string {
	if res == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal([]byte(res), &s); err != nil {
		return res
	}
	return s
}
