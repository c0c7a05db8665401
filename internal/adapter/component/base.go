package component

import (
	"errors"

	"ui-template/internal/application/port/output"
	"ui-template/internal/domain/entity"
	"ui-template/internal/usecase/evaluator"
)

var ErrNoSearchContext = errors.New("component: search context is nil")

var _ output.SearchContext = (*Base)(nil)

// Base is a locator bound to a search context. Every call looks the element
// up again, so a Base never holds a handle that can go stale.
type Base struct {
	Locator entity.Locator

	name   string
	env    *Env
	search output.SearchContext
}

type Option func(*Base)

// WithName sets the name used in logs and timeout messages.
func WithName(name string) Option {
	return func(b *Base) { b.name = name }
}

// WithSearchContext scopes lookups to sc, usually a parent component.
func WithSearchContext(sc output.SearchContext) Option {
	return func(b *Base) { b.search = sc }
}

// New binds loc to the session root unless WithSearchContext says otherwise.
// A zero locator means the page body.
func New(env *Env, loc entity.Locator, opts ...Option) *Base {
	if loc.IsZero() {
		loc = entity.ByTagName("body")
	}
	b := &Base{
		Locator: loc,
		name:    "Component",
		env:     env,
		search:  env.Session,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Base) Name() string { return b.name }
func (b *Base) Env() *Env    { return b.env }

func (b *Base) SearchContext() output.SearchContext { return b.search }

// SetSearchContext rebinds the component, e.g. to another row of a grid.
func (b *Base) SetSearchContext(sc output.SearchContext) { b.search = sc }

// Element finds the element right now.
func (b *Base) Element() (output.Element, error) {
	if b.search == nil {
		return nil, ErrNoSearchContext
	}
	return b.search.FindElement(b.Locator)
}

func (b *Base) FindElement(loc entity.Locator) (output.Element, error) {
	b.env.Logger.Verbose("find element", "component", b.name, "locator", loc.String())
	el, err := b.Element()
	if err != nil {
		return nil, err
	}
	return el.FindElement(loc)
}

func (b *Base) FindElements(loc entity.Locator) ([]output.Element, error) {
	el, err := b.Element()
	if err != nil {
		return nil, err
	}
	return el.FindElements(loc)
}

// FindElementsWithRetry repeats the lookup once when the component went stale
// in between.
func (b *Base) FindElementsWithRetry(loc entity.Locator) ([]output.Element, error) {
	els, err := b.FindElements(loc)
	if !errors.Is(err, output.ErrStaleElement) {
		return els, err
	}
	b.env.Logger.Verbose("stale element while finding elements, trying again", "component", b.name, "locator", loc.String())
	els, err = b.FindElements(loc)
	if errors.Is(err, output.ErrStaleElement) {
		b.env.Logger.Error("stale element again, a wait step is probably missing",
			"component", b.name, "locator", loc.String())
	}
	return els, err
}

func (b *Base) evaluator() *evaluator.Evaluator {
	return evaluator.New(b.name, b.Element, b.env.Logger)
}

func (b *Base) describe() string {
	return "'" + b.name + "' with locator '" + b.Locator.String() + "'"
}
