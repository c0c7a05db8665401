package fake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ui-template/internal/application/port/output"
	"ui-template/internal/domain/entity"
)

func TestSession_EquivalentLocatorsFindSameNode(t *testing.T) {
	s := NewSession()
	grid := &Node{Text: "grid"}
	s.Set(entity.ByTestID("grid"), grid)

	el, err := s.FindElement(entity.ByCSS("[data-testid='grid']"))
	require.NoError(t, err)
	assert.Same(t, grid, el.(*Element).Node())

	s.Set(entity.ByTagName("h1"), &Node{Text: "title"})
	el, err = s.FindElement(entity.ByCSS("h1"))
	require.NoError(t, err)
	text, err := el.Text()
	require.NoError(t, err)
	assert.Equal(t, "title", text)
}

func TestSession_XPathAndCSSStayApart(t *testing.T) {
	s := NewSession()
	s.Set(entity.ByXPath("h1"), &Node{})

	_, err := s.FindElement(entity.ByCSS("h1"))
	assert.ErrorIs(t, err, output.ErrNoSuchElement)
}

func TestElement_ChildrenUseResolvedSelector(t *testing.T) {
	s := NewSession()
	row := &Node{Text: "row"}
	s.Set(entity.ByCSS("table"), (&Node{}).Add(entity.ByTestID("row"), row))

	table, err := s.FindElement(entity.ByCSS("table"))
	require.NoError(t, err)
	els, err := table.FindElements(entity.ByCSS("[data-testid='row']"))
	require.NoError(t, err)
	require.Len(t, els, 1)
	assert.Same(t, row, els[0].(*Element).Node())
}

func TestSession_SetDetachesReplacedNodes(t *testing.T) {
	s := NewSession()
	old := &Node{}
	s.Set(entity.ByTestID("box"), old)
	el, err := s.FindElement(entity.ByTestID("box"))
	require.NoError(t, err)

	s.Set(entity.ByCSS("[data-testid='box']"), &Node{})

	_, err = el.Displayed()
	assert.ErrorIs(t, err, output.ErrStaleElement)
}
