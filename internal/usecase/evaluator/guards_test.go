package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ui-template/internal/application/port/output"
	"ui-template/internal/infrastructure/browser/fake"
)

func TestGuards(t *testing.T) {
	cases := []struct {
		name  string
		node  *fake.Node
		guard Guard
		pass  bool
	}{
		{"present", &fake.Node{Hidden: true}, Present, true},
		{"displayed", &fake.Node{}, Displayed, true},
		{"displayed hidden", &fake.Node{Hidden: true}, Displayed, false},
		{"not displayed", &fake.Node{Hidden: true}, NotDisplayed, true},
		{"enabled", &fake.Node{}, Enabled, true},
		{"enabled but hidden", &fake.Node{Hidden: true}, Enabled, false},
		{"enabled only hidden", &fake.Node{Hidden: true}, EnabledOnly, true},
		{"disabled", &fake.Node{Disabled: true}, Disabled, true},
		{"disabled on enabled", &fake.Node{}, Disabled, false},
		{"disabled but hidden", &fake.Node{Hidden: true, Disabled: true}, Disabled, false},
		{"selected", &fake.Node{Checked: true}, Selected, true},
		{"not selected", &fake.Node{}, NotSelected, true},
		{"all", &fake.Node{Checked: true}, All(Displayed, Selected), true},
		{"all fails", &fake.Node{}, All(Displayed, Selected), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := fake.NewSession()
			s.Set(button, tc.node)
			el, err := s.FindElement(button)
			require.NoError(t, err)

			got, err := tc.guard(el)
			require.NoError(t, err)
			assert.Equal(t, tc.pass, got != nil)
		})
	}
}

func TestGuards_PropagateErrors(t *testing.T) {
	node := &fake.Node{}
	node.FailNext("Enabled", output.ErrStaleElement)
	s := fake.NewSession()
	s.Set(button, node)
	el, err := s.FindElement(button)
	require.NoError(t, err)

	_, err = Enabled(el)
	assert.ErrorIs(t, err, output.ErrStaleElement)
}
