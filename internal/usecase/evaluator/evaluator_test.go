package evaluator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ui-template/internal/application/port/output"
	"ui-template/internal/domain/entity"
	"ui-template/internal/infrastructure/browser/fake"
)

var button = entity.ByCSS("#save")

func setup(nodes ...*fake.Node) (*fake.Session, *Evaluator) {
	s := fake.NewSession()
	s.Set(button, nodes...)
	return s, New("Save", func() (output.Element, error) { return s.FindElement(button) }, nil)
}

func clickAction(calls *int) Action {
	return func(el output.Element) error {
		*calls++
		return el.Click()
	}
}

func TestEvaluateBool_GuardPassesRunsAction(t *testing.T) {
	node := &fake.Node{}
	_, e := setup(node)
	calls := 0

	ok, err := e.EvaluateBool(Displayed, clickAction(&calls))

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, node.Clicks)
}

func TestEvaluateBool_GuardNilSkipsAction(t *testing.T) {
	node := &fake.Node{Hidden: true}
	_, e := setup(node)
	calls := 0

	ok, err := e.EvaluateBool(Displayed, clickAction(&calls))

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, calls)
}

func TestEvaluateBool_NilActionAndGuard(t *testing.T) {
	_, e := setup(&fake.Node{})

	ok, err := e.EvaluateBool(nil, nil)

	require.NoError(t, err)
	assert.True(t, ok, "no guard means presence is enough")
}

func TestEvaluateBool_MissingElement(t *testing.T) {
	_, e := setup()
	calls := 0

	ok, err := e.EvaluateBool(Displayed, clickAction(&calls))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.EvaluateBool(Displayed, clickAction(&calls), MissingResult(true))
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Zero(t, calls, "action never runs for a missing element")
}

func TestEvaluateBool_SingleStaleIsRetried(t *testing.T) {
	node := &fake.Node{}
	node.FailNext("Displayed", output.ErrStaleElement)
	_, e := setup(node)

	ok, err := e.EvaluateBool(Displayed, nil)

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateBool_StaleDuringLocateIsRetried(t *testing.T) {
	s, e := setup(&fake.Node{})
	s.FailFind(button, output.ErrStaleElement)

	ok, err := e.EvaluateBool(Present, nil)

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateBool_ReplacedNodeIsRelocated(t *testing.T) {
	s := fake.NewSession()
	old, replacement := &fake.Node{}, &fake.Node{}
	s.Set(button, old)

	var held output.Element
	locate := func() (output.Element, error) {
		if held == nil {
			el, err := s.FindElement(button)
			held = el
			s.Set(button, replacement)
			return el, err
		}
		return s.FindElement(button)
	}
	e := New("Save", locate, nil)
	calls := 0

	ok, err := e.EvaluateBool(Displayed, clickAction(&calls))

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, old.Clicks)
	assert.Equal(t, 1, replacement.Clicks)
}

func TestEvaluateBool_DoubleStalePropagates(t *testing.T) {
	node := &fake.Node{}
	node.FailNext("Displayed", output.ErrStaleElement, output.ErrStaleElement)
	_, e := setup(node)
	calls := 0

	ok, err := e.EvaluateBool(Displayed, clickAction(&calls))

	assert.ErrorIs(t, err, output.ErrStaleElement)
	assert.False(t, ok)
	assert.Zero(t, calls)
	assert.Contains(t, err.Error(), "Save")
}

func TestEvaluateBool_StaleRetriesOverride(t *testing.T) {
	node := &fake.Node{}
	node.FailNext("Displayed", output.ErrStaleElement, output.ErrStaleElement)
	_, e := setup(node)

	ok, err := e.EvaluateBool(Displayed, nil, StaleRetries(2))
	require.NoError(t, err)
	assert.True(t, ok)

	node.FailNext("Displayed", output.ErrStaleElement)
	_, err = e.EvaluateBool(Displayed, nil, StaleRetries(0))
	assert.ErrorIs(t, err, output.ErrStaleElement)
}

func TestEvaluateBool_StaleInActionIsRetried(t *testing.T) {
	node := &fake.Node{}
	node.FailNext("Click", output.ErrStaleElement)
	_, e := setup(node)
	calls := 0

	ok, err := e.EvaluateBool(Displayed, clickAction(&calls))

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, node.Clicks)
}

func TestEvaluateBool_DriverError(t *testing.T) {
	node := &fake.Node{}
	driverErr := &output.DriverError{Op: "is displayed", Err: errors.New("session lost")}

	node.FailNext("Displayed", driverErr)
	_, e := setup(node)
	ok, err := e.EvaluateBool(Displayed, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	node.FailNext("Displayed", driverErr)
	ok, err = e.EvaluateBool(Displayed, nil, DriverErrorResult(true))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateBool_UnknownErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	node := &fake.Node{}
	node.FailNext("Displayed", boom)
	_, e := setup(node)

	_, err := e.EvaluateBool(Displayed, nil, MissingResult(true), DriverErrorResult(true))

	assert.ErrorIs(t, err, boom)
}

func TestEvaluateBool_NilLocate(t *testing.T) {
	_, err := New("x", nil, nil).EvaluateBool(Present, nil)
	assert.ErrorIs(t, err, ErrNoLocator)
}

func TestEvaluateString(t *testing.T) {
	attr := func(name string) Extract {
		return func(el output.Element) (*string, error) { return el.Attribute(name) }
	}

	t.Run("value", func(t *testing.T) {
		_, e := setup(&fake.Node{Attrs: map[string]string{"href": "/home"}})
		v, err := e.EvaluateString(Present, attr("href"))
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, "/home", *v)
	})

	t.Run("missing attribute", func(t *testing.T) {
		_, e := setup(&fake.Node{})
		v, err := e.EvaluateString(Present, attr("href"))
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("missing element", func(t *testing.T) {
		_, e := setup()
		v, err := e.EvaluateString(Present, attr("href"))
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("guard not met", func(t *testing.T) {
		_, e := setup(&fake.Node{Hidden: true, Attrs: map[string]string{"href": "/home"}})
		v, err := e.EvaluateString(Displayed, attr("href"))
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("stale twice gives nil", func(t *testing.T) {
		node := &fake.Node{}
		node.FailNext("Attribute", output.ErrStaleElement, output.ErrStaleElement)
		_, e := setup(node)
		v, err := e.EvaluateString(Present, attr("href"))
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("stale once then value", func(t *testing.T) {
		node := &fake.Node{Attrs: map[string]string{"href": "/a"}}
		node.FailNext("Attribute", output.ErrStaleElement)
		_, e := setup(node)
		v, err := e.EvaluateString(Present, attr("href"))
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, "/a", *v)
	})

	t.Run("driver error propagates", func(t *testing.T) {
		node := &fake.Node{}
		node.FailNext("Attribute", &output.DriverError{Op: "attribute", Err: errors.New("closed")})
		_, e := setup(node)
		_, err := e.EvaluateString(Present, attr("href"))
		assert.ErrorIs(t, err, output.ErrDriver)
	})
}
