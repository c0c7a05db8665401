package component

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ui-template/internal/application/port/output"
	"ui-template/internal/domain/entity"
	"ui-template/internal/infrastructure/browser/fake"
	"ui-template/internal/infrastructure/logger"
	"ui-template/internal/usecase/wait"
)

var (
	save    = entity.ByCSS("#save")
	errFlak = fmt.Errorf("flaky: %w", output.ErrStaleElement)
)

// setup returns a session whose page always reports ready.
func setup(t *testing.T) (*fake.Session, *Env) {
	t.Helper()
	s := fake.NewSession()
	s.EvalFunc = func(js string, _ ...any) (string, error) {
		if js == ReadyScript {
			return "true", nil
		}
		return "null", nil
	}
	env := &Env{
		Session: s,
		Logger:  logger.NewNop(),
		Waits: &wait.Factory{
			ElementTimeout:  150 * time.Millisecond,
			PageLoadTimeout: 150 * time.Millisecond,
			Interval:        5 * time.Millisecond,
		},
	}
	return s, env
}

func TestNew_Defaults(t *testing.T) {
	s, env := setup(t)

	b := New(env, entity.Locator{})

	assert.Equal(t, entity.ByTagName("body"), b.Locator)
	assert.Equal(t, "Component", b.Name())
	assert.Same(t, s, b.SearchContext())
	assert.Same(t, env, b.Env())
}

func TestBase_NestedSearchContext(t *testing.T) {
	s, env := setup(t)
	row := entity.ByCSS(".row")
	cell := entity.ByCSS(".cell")
	s.Set(row, (&fake.Node{}).Add(cell, &fake.Node{Text: "42"}))

	parent := New(env, row, WithName("Row"))
	child := New(env, cell, WithSearchContext(parent))

	text, err := child.Text(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "42", text)
}

func TestBase_SetSearchContextRebinds(t *testing.T) {
	s, env := setup(t)
	first, second := entity.ByCSS("#first"), entity.ByCSS("#second")
	label := entity.ByCSS(".label")
	s.Set(first, (&fake.Node{}).Add(label, &fake.Node{Text: "one"}))
	s.Set(second, (&fake.Node{}).Add(label, &fake.Node{Text: "two"}))

	c := New(env, label, WithSearchContext(New(env, first)))
	c.SetSearchContext(New(env, second))

	text, err := c.Text(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "two", text)
}

func TestBase_ElementWithoutSearchContext(t *testing.T) {
	_, env := setup(t)

	_, err := New(env, save, WithSearchContext(nil)).Element()

	assert.ErrorIs(t, err, ErrNoSearchContext)
}

func TestBase_FindElementsWithRetry(t *testing.T) {
	s, env := setup(t)
	items := entity.ByTagName("li")
	list := (&fake.Node{}).Add(items, &fake.Node{}, &fake.Node{})
	s.Set(save, list)
	b := New(env, save)

	list.FailNext("FindElements", errFlak)
	els, err := b.FindElementsWithRetry(items)
	require.NoError(t, err)
	assert.Len(t, els, 2)

	list.FailNext("FindElements", errFlak, errFlak)
	_, err = b.FindElementsWithRetry(items)
	assert.ErrorIs(t, err, output.ErrStaleElement)
}

func TestBase_States(t *testing.T) {
	driverErr := &output.DriverError{Op: "find", Err: errors.New("connection reset")}

	cases := []struct {
		name  string
		nodes []*fake.Node
		find  error
		check func(*Base) (bool, error)
		want  bool
	}{
		{"present", []*fake.Node{{}}, nil, (*Base).IsPresent, true},
		{"present missing", nil, nil, (*Base).IsPresent, false},
		{"not present missing", nil, nil, (*Base).IsNotPresent, true},
		{"not present exists", []*fake.Node{{}}, nil, (*Base).IsNotPresent, false},
		{"not present on driver error", []*fake.Node{{}}, driverErr, (*Base).IsNotPresent, false},
		{"displayed", []*fake.Node{{}}, nil, (*Base).IsDisplayed, true},
		{"displayed hidden", []*fake.Node{{Hidden: true}}, nil, (*Base).IsDisplayed, false},
		{"not displayed hidden", []*fake.Node{{Hidden: true}}, nil, (*Base).IsNotDisplayed, true},
		{"not displayed missing", nil, nil, (*Base).IsNotDisplayed, true},
		{"enabled", []*fake.Node{{}}, nil, (*Base).IsEnabled, true},
		{"enabled hidden", []*fake.Node{{Hidden: true}}, nil, (*Base).IsEnabled, false},
		{"enabled only hidden", []*fake.Node{{Hidden: true}}, nil, (*Base).IsEnabledOnly, true},
		{"disabled", []*fake.Node{{Disabled: true}}, nil, (*Base).IsDisabled, true},
		{"disabled hidden", []*fake.Node{{Disabled: true, Hidden: true}}, nil, (*Base).IsDisabled, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, env := setup(t)
			s.Set(save, tc.nodes...)
			if tc.find != nil {
				s.FailFind(save, tc.find)
			}

			got, err := tc.check(New(env, save))

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBase_StaleElementIsRetried(t *testing.T) {
	s, env := setup(t)
	node := &fake.Node{}
	s.Set(save, node)
	node.FailNext("Displayed", errFlak)

	ok, err := New(env, save).IsDisplayed()

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBase_IsDisplayedJS(t *testing.T) {
	s, env := setup(t)
	node := &fake.Node{EvalFunc: func(js string, _ ...any) (string, error) { return "true", nil }}
	s.Set(save, node)

	ok, err := New(env, save).IsDisplayedJS()

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{displayedScript}, node.Scripts)
}

func TestBase_WaitForDisplayedTimesOutWithMessage(t *testing.T) {
	s, env := setup(t)
	s.Set(save, &fake.Node{Hidden: true})

	err := New(env, save, WithName("Save")).WaitForDisplayed(t.Context())

	require.ErrorIs(t, err, wait.ErrTimeout)
	assert.Contains(t, err.Error(), "'Save' with locator 'By.css: #save' should be displayed on the page during the timeout.")
}

func TestBase_Waits(t *testing.T) {
	s, env := setup(t)
	b := New(env, save)

	assert.NoError(t, b.WaitForNotPresent(t.Context()))
	assert.NoError(t, b.WaitForNotDisplayed(t.Context()))

	s.Set(save, &fake.Node{Disabled: true})
	assert.NoError(t, b.WaitForPresent(t.Context()))
	assert.NoError(t, b.WaitForDisplayed(t.Context()))
	assert.NoError(t, b.WaitForDisabled(t.Context()))
	assert.ErrorIs(t, b.WaitForEnabled(t.Context()), wait.ErrTimeout)
}

func TestBase_WaitStopsOnUnexpectedError(t *testing.T) {
	s, env := setup(t)
	boom := errors.New("boom")
	node := &fake.Node{}
	node.FailNext("Displayed", boom)
	s.Set(save, node)

	err := New(env, save).WaitForDisplayed(t.Context())

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, wait.ErrTimeout)
}
