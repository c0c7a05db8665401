package component

import (
	"context"

	"ui-template/internal/domain/entity"
)

// Simple is a plain element with no behaviour of its own.
type Simple struct {
	*Base
}

func NewSimple(env *Env, loc entity.Locator, opts ...Option) *Simple {
	return &Simple{Base: New(env, loc, append([]Option{WithName("Simple")}, opts...)...)}
}

// ScrollToAndClick does not wait for the page afterwards.
func (s *Simple) ScrollToAndClick(ctx context.Context) error {
	if err := s.ScrollTo(ctx); err != nil {
		return err
	}
	return s.Click(ctx)
}
