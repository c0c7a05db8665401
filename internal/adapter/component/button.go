package component

import (
	"context"

	"ui-template/internal/domain/entity"
)

type Button struct {
	*Base
}

func NewButton(env *Env, loc entity.Locator, opts ...Option) *Button {
	return &Button{Base: New(env, loc, append([]Option{WithName("Button")}, opts...)...)}
}

// Click waits for the button to be enabled, clicks it and waits for the page.
func (b *Button) Click(ctx context.Context) error {
	return b.enabledThen(ctx, b.Base.Click)
}

func (b *Button) ClickJS(ctx context.Context) error {
	return b.enabledThen(ctx, b.Base.ClickJS)
}

func (b *Button) ScrollToAndClick(ctx context.Context) error {
	if err := b.ScrollTo(ctx); err != nil {
		return err
	}
	return b.Click(ctx)
}

func (b *Button) enabledThen(ctx context.Context, click func(context.Context) error) error {
	if err := b.WaitForEnabled(ctx); err != nil {
		return err
	}
	if err := click(ctx); err != nil {
		return err
	}
	return b.env.WaitForReady(ctx)
}
