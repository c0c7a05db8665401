package evaluator

import "ui-template/internal/application/port/output"

func Present(el output.Element) (output.Element, error) { return el, nil }

func Displayed(el output.Element) (output.Element, error) {
	return when(el, el.Displayed)
}

func NotDisplayed(el output.Element) (output.Element, error) {
	return unless(el, el.Displayed)
}

func Enabled(el output.Element) (output.Element, error) {
	return all(el, el.Displayed, el.Enabled)
}

// EnabledOnly ignores visibility.
func EnabledOnly(el output.Element) (output.Element, error) {
	return when(el, el.Enabled)
}

// Disabled requires the element to be displayed.
func Disabled(el output.Element) (output.Element, error) {
	got, err := when(el, el.Displayed)
	if err != nil || got == nil {
		return nil, err
	}
	return unless(el, el.Enabled)
}

func Selected(el output.Element) (output.Element, error) {
	return when(el, el.Selected)
}

func NotSelected(el output.Element) (output.Element, error) {
	return unless(el, el.Selected)
}

// All passes only when every guard passes, in order.
func All(guards ...Guard) Guard {
	return func(el output.Element) (output.Element, error) {
		for _, g := range guards {
			next, err := g(el)
			if err != nil || next == nil {
				return nil, err
			}
			el = next
		}
		return el, nil
	}
}

func when(el output.Element, check func() (bool, error)) (output.Element, error) {
	ok, err := check()
	if err != nil || !ok {
		return nil, err
	}
	return el, nil
}

func unless(el output.Element, check func() (bool, error)) (output.Element, error) {
	ok, err := check()
	if err != nil || ok {
		return nil, err
	}
	return el, nil
}

func all(el output.Element, checks ...func() (bool, error)) (output.Element, error) {
	for _, check := range checks {
		got, err := when(el, check)
		if err != nil || got == nil {
			return nil, err
		}
	}
	return el, nil
}
