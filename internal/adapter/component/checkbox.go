package component

import (
	"context"
	"fmt"

	"ui-template/internal/domain/entity"
	"ui-template/internal/usecase/evaluator"
)

type Checkbox struct {
	*Base
}

func NewCheckbox(env *Env, loc entity.Locator, opts ...Option) *Checkbox {
	return &Checkbox{Base: New(env, loc, append([]Option{WithName("Checkbox")}, opts...)...)}
}

func (c *Checkbox) IsChecked() (bool, error) {
	return c.evaluator().EvaluateBool(evaluator.Selected, nil)
}

func (c *Checkbox) IsNotChecked() (bool, error) {
	return c.evaluator().EvaluateBool(evaluator.NotSelected, nil)
}

// Check clicks until the box is checked. A checked box is left alone.
func (c *Checkbox) Check(ctx context.Context) error {
	return c.toggle(ctx, "checked", c.IsNotChecked, c.IsChecked)
}

func (c *Checkbox) Uncheck(ctx context.Context) error {
	return c.toggle(ctx, "unchecked", c.IsChecked, c.IsNotChecked)
}

func (c *Checkbox) toggle(ctx context.Context, state string, needed, done func() (bool, error)) error {
	ok, err := needed()
	if err != nil || !ok {
		return err
	}
	w := c.env.Waits.Element().SetMessage(fmt.Sprintf("%s wasn't %s during the timeout.", c.describe(), state))
	return w.UntilTrue(ctx, func() (bool, error) {
		if err := c.Click(ctx); err != nil {
			return false, err
		}
		return done()
	})
}
