package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocator_SelectorAndString(t *testing.T) {
	tests := []struct {
		name     string
		loc      Locator
		selector string
		str      string
	}{
		{"css", ByCSS("#save"), "#save", "By.css: #save"},
		{"xpath", ByXPath("//div"), "//div", "By.xpath: //div"},
		{"tag", ByTagName("body"), "body", "By.tag: body"},
		{"test id", ByTestID("cart"), "[data-testid='cart']", "By.testid: cart"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.selector, tt.loc.Selector())
			assert.Equal(t, tt.str, tt.loc.String())
		})
	}
}

func TestLocator_Nth(t *testing.T) {
	child, err := ByXPath("//li").Nth(2)
	require.NoError(t, err)
	assert.Equal(t, "(//li)[2]", child.Expression())
	assert.True(t, child.IsXPath())

	_, err = ByCSS("li").Nth(1)
	assert.ErrorIs(t, err, ErrUnsupportedLocator)

	_, err = ByXPath("//li").Nth(0)
	assert.Error(t, err)
}

func TestParseSelector(t *testing.T) {
	assert.Equal(t, ByXPath("//a"), ParseSelector(" //a "))
	assert.Equal(t, ByXPath("(//a)[1]"), ParseSelector("(//a)[1]"))
	assert.Equal(t, ByXPath("//b"), ParseSelector("xpath=//b"))
	assert.Equal(t, ByCSS("a.link"), ParseSelector("a.link"))
	assert.True(t, Locator{}.IsZero())
}

func TestRect_Overlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}

	assert.True(t, a.Overlaps(Rect{X: 5, Y: 5, Width: 10, Height: 10}))
	assert.True(t, a.Overlaps(Rect{X: 10, Y: 10, Width: 1, Height: 1}), "touching corners overlap")
	assert.False(t, a.Overlaps(Rect{X: 11, Y: 0, Width: 5, Height: 5}))
	assert.False(t, a.Overlaps(Rect{X: 0, Y: 20, Width: 5, Height: 5}))

	assert.True(t, a.OverlapsVertically(Rect{X: 100, Y: 5, Width: 1, Height: 1}))
	assert.False(t, a.OverlapsVertically(Rect{X: 0, Y: 11, Width: 1, Height: 1}))
}

func TestKeys(t *testing.T) {
	assert.True(t, HasKeys("abc"+KeyEnter))
	assert.False(t, HasKeys("abc"))
	assert.Equal(t, "ab", PlainText(KeyControl+"a"+KeyBackspace+"b"))
}
