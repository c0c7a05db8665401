package component

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ui-template/internal/application/port/output"
	"ui-template/internal/domain/entity"
	"ui-template/internal/usecase/evaluator"
	"ui-template/internal/usecase/wait"
)

// DefaultHeightPause is how long IsHeightChanging waits between readings.
const DefaultHeightPause = 100 * time.Millisecond

// TryDOMAttributeTimeout is the usual timeout passed to TryDOMAttribute.
const TryDOMAttributeTimeout = 2 * time.Second

func (b *Base) Text(ctx context.Context) (string, error) {
	text, err := b.read(ctx, b.env.Waits.Element(), fmt.Sprintf("Couldn't get text of the %s during the timeout.", b.describe()),
		evaluator.Displayed, func(el output.Element) (*string, error) { return str(el.Text()) })
	if err != nil {
		return "", err
	}
	b.env.Logger.Verbose("text read", "component", b.name, "locator", b.Locator.String(), "text", text)
	return text, nil
}

// InnerText returns the text of the element without the texts of its
// descendants. The element has to be displayed.
func (b *Base) InnerText(ctx context.Context) (string, error) {
	return b.innerText(ctx, evaluator.Displayed)
}

// InnerTextOnly is InnerText without the visibility requirement.
func (b *Base) InnerTextOnly(ctx context.Context) (string, error) {
	return b.innerText(ctx, evaluator.Present)
}

func (b *Base) innerText(ctx context.Context, guard evaluator.Guard) (string, error) {
	msg := fmt.Sprintf("Couldn't get inner text (text without texts of descendants) of the %s during the timeout.", b.describe())
	text, err := b.read(ctx, b.env.Waits.Element(), msg, guard, func(el output.Element) (*string, error) {
		outer, err := el.HTML()
		if err != nil {
			return nil, err
		}
		text := ownText(outer)
		return &text, nil
	})
	if err != nil {
		return "", err
	}
	b.env.Logger.Verbose("inner text read", "component", b.name, "locator", b.Locator.String(), "text", text)
	return text, nil
}

// DOMAttribute polls until the attribute exists. A zero timeout means the
// element timeout.
func (b *Base) DOMAttribute(ctx context.Context, name string, timeout time.Duration) (string, error) {
	msg := fmt.Sprintf("Couldn't get value of the DOM attribute '%s' of the %s during the timeout.", name, b.describe())
	value, err := b.read(ctx, b.env.Waits.Custom(timeout, -1), msg, evaluator.Present,
		func(el output.Element) (*string, error) { return el.Attribute(name) })
	if err != nil {
		return "", err
	}
	b.env.Logger.Verbose("DOM attribute read", "component", b.name, "attribute", name, "value", value)
	return value, nil
}

// TryDOMAttribute is DOMAttribute that reports a timeout as ok == false.
func (b *Base) TryDOMAttribute(ctx context.Context, name string, timeout time.Duration) (value string, ok bool, err error) {
	value, err = b.DOMAttribute(ctx, name, timeout)
	if errors.Is(err, wait.ErrTimeout) {
		b.env.Logger.Warn("cannot find DOM attribute", "component", b.name, "locator", b.Locator.String(), "attribute", name)
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (b *Base) DOMProperty(ctx context.Context, name string, timeout time.Duration) (string, error) {
	msg := fmt.Sprintf("Couldn't get value of the DOM property '%s' of the %s during the timeout.", name, b.describe())
	value, err := b.read(ctx, b.env.Waits.Custom(timeout, -1), msg, evaluator.Present,
		func(el output.Element) (*string, error) { return str(el.Property(name)) })
	if err != nil {
		return "", err
	}
	b.env.Logger.Verbose("DOM property read", "component", b.name, "property", name, "value", value)
	return value, nil
}

func (b *Base) CSSValue(ctx context.Context, name string) (string, error) {
	msg := fmt.Sprintf("Couldn't get value of the css attribute '%s' of the %s during the timeout.", name, b.describe())
	value, err := b.read(ctx, b.env.Waits.Element(), msg, evaluator.Present,
		func(el output.Element) (*string, error) { return str(el.CSSValue(name)) })
	if err != nil {
		return "", err
	}
	b.env.Logger.Verbose("CSS value read", "component", b.name, "property", name, "value", value)
	return value, nil
}

// PseudoCSSValue reads a computed style property of a pseudo element such as
// "before".
func (b *Base) PseudoCSSValue(name, pseudo string) (string, error) {
	el, err := b.Element()
	if err != nil {
		return "", err
	}
	res, err := el.Eval(`(pseudo, name) => getComputedStyle(this, '::' + pseudo).getPropertyValue(name)`, pseudo, name)
	if err != nil {
		return "", err
	}
	return unquote(res), nil
}

// IsHeightChanging compares the computed height before and after pause.
// A zero pause means DefaultHeightPause.
func (b *Base) IsHeightChanging(ctx context.Context, pause time.Duration) (bool, error) {
	if pause <= 0 {
		pause = DefaultHeightPause
	}
	before, err := b.CSSValue(ctx, "height")
	if err != nil {
		return false, err
	}
	t := time.NewTimer(pause)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-t.C:
	}
	after, err := b.CSSValue(ctx, "height")
	if err != nil {
		return false, err
	}
	return before != after, nil
}

func (b *Base) Rect() (entity.Rect, error) {
	el, err := b.Element()
	if err != nil {
		return entity.Rect{}, err
	}
	return el.Rect()
}

// Overlaps reports whether the boxes of both components share any area.
func (b *Base) Overlaps(other *Base) (bool, error) {
	r1, r2, err := rects(b, other)
	if err != nil {
		return false, err
	}
	return r1.Overlaps(r2), nil
}

func (b *Base) VerticallyOverlaps(other *Base) (bool, error) {
	r1, r2, err := rects(b, other)
	if err != nil {
		return false, err
	}
	return r1.OverlapsVertically(r2), nil
}

// IndexOfClass returns the sibling index of the first descendant carrying
// className, or -1.
func (b *Base) IndexOfClass(ctx context.Context, className string) (int, error) {
	inner, err := b.DOMProperty(ctx, "innerHTML", 0)
	if err != nil {
		return -1, err
	}
	return indexOfClass(inner, className), nil
}

func (b *Base) read(ctx context.Context, w *wait.Wait, msg string, guard evaluator.Guard, extract evaluator.Extract) (string, error) {
	v, err := wait.Until(ctx, w.SetMessage(msg), func() (*string, error) {
		return b.evaluator().EvaluateString(guard, extract)
	})
	if err != nil {
		return "", err
	}
	return *v, nil
}

func rects(a, b *Base) (entity.Rect, entity.Rect, error) {
	r1, err := a.Rect()
	if err != nil {
		return entity.Rect{}, entity.Rect{}, err
	}
	r2, err := b.Rect()
	if err != nil {
		return entity.Rect{}, entity.Rect{}, err
	}
	return r1, r2, nil
}

func str(s string, err error) (*string, error) {
	if err != nil {
		return nil, err
	}
	return &s, nil
}
