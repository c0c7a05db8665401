package component

import (
	"fmt"

	"ui-template/internal/domain/entity"
)

// Collect builds one child component per element matching loc inside parent.
// Child i gets the locator (loc)[i], so each one is looked up on its own.
// Only XPath locators can be indexed. build is usually a widget constructor.
func Collect[T any](parent *Base, loc entity.Locator, build func(*Env, entity.Locator, ...Option) T) ([]T, error) {
	if !loc.IsXPath() {
		return nil, fmt.Errorf("collect %s: %w", loc, entity.ErrUnsupportedLocator)
	}
	els, err := parent.FindElementsWithRetry(loc)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(els))
	for i := 1; i <= len(els); i++ {
		child, err := loc.Nth(i)
		if err != nil {
			return nil, err
		}
		out = append(out, build(parent.env, child, WithSearchContext(parent)))
	}
	return out, nil
}
