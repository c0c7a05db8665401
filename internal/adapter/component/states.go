package component

import (
	"context"
	"fmt"

	"ui-template/internal/usecase/evaluator"
)

// displayedScript checks the element is rendered, inside the viewport and not
// covered by another element at its center.
const displayedScript = `() => {
	const elem = this;
	const style = getComputedStyle(elem);
	if (style.display === 'none') return false;
	if (style.visibility !== 'visible') return false;
	if (style.opacity < 0.1) return false;
	const box = elem.getBoundingClientRect();
	if (elem.offsetWidth + elem.offsetHeight + box.height + box.width === 0) return false;
	const center = {x: box.left + elem.offsetWidth / 2, y: box.top + elem.offsetHeight / 2};
	if (center.x < 0 || center.y < 0) return false;
	if (center.x > (document.documentElement.clientWidth || window.innerWidth)) return false;
	if (center.y > (document.documentElement.clientHeight || window.innerHeight)) return false;
	let point = document.elementFromPoint(center.x, center.y);
	do {
		if (point === elem) return true;
	} while (point = point.parentNode);
	return false;
}`

func (b *Base) IsPresent() (bool, error) {
	return b.evaluator().EvaluateBool(evaluator.Present, nil)
}

// IsNotPresent treats a driver error as the element still being present.
func (b *Base) IsNotPresent() (bool, error) {
	present, err := b.evaluator().EvaluateBool(evaluator.Present, nil, evaluator.DriverErrorResult(true))
	if err != nil {
		return false, err
	}
	return !present, nil
}

func (b *Base) IsDisplayed() (bool, error) {
	return b.evaluator().EvaluateBool(evaluator.Displayed, nil)
}

// IsDisplayedJS asks the page whether the element can be seen, overlays
// included.
func (b *Base) IsDisplayedJS() (bool, error) {
	el, err := b.Element()
	if err != nil {
		return false, err
	}
	res, err := el.Eval(displayedScript)
	if err != nil {
		return false, err
	}
	return res == "true", nil
}

// IsNotDisplayed is true for a missing element too.
func (b *Base) IsNotDisplayed() (bool, error) {
	return b.evaluator().EvaluateBool(evaluator.NotDisplayed, nil, evaluator.MissingResult(true))
}

// IsEnabled requires the element to be displayed as well.
func (b *Base) IsEnabled() (bool, error) {
	return b.evaluator().EvaluateBool(evaluator.Enabled, nil)
}

func (b *Base) IsEnabledOnly() (bool, error) {
	return b.evaluator().EvaluateBool(evaluator.EnabledOnly, nil)
}

// IsDisabled requires the element to be displayed.
func (b *Base) IsDisabled() (bool, error) {
	return b.evaluator().EvaluateBool(evaluator.Disabled, nil)
}

func (b *Base) WaitForPresent(ctx context.Context) error {
	return b.waitFor(ctx, "should be present", b.IsPresent)
}

func (b *Base) WaitForNotPresent(ctx context.Context) error {
	return b.waitFor(ctx, "shouldn't be present", b.IsNotPresent)
}

func (b *Base) WaitForDisplayed(ctx context.Context) error {
	return b.waitFor(ctx, "should be displayed", b.IsDisplayed)
}

func (b *Base) WaitForNotDisplayed(ctx context.Context) error {
	return b.waitFor(ctx, "shouldn't be displayed", b.IsNotDisplayed)
}

func (b *Base) WaitForEnabled(ctx context.Context) error {
	return b.waitFor(ctx, "should be enabled", b.IsEnabled)
}

func (b *Base) WaitForDisabled(ctx context.Context) error {
	return b.waitFor(ctx, "should be disabled", b.IsDisabled)
}

func (b *Base) waitFor(ctx context.Context, state string, check func() (bool, error)) error {
	w := b.env.Waits.Element().SetMessage(fmt.Sprintf("%s %s on the page during the timeout.", b.describe(), state))
	return w.UntilTrue(ctx, check)
}
