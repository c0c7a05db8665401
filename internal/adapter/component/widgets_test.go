package component

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ui-template/internal/application/port/output"
	"ui-template/internal/domain/entity"
	"ui-template/internal/infrastructure/browser/fake"
	"ui-template/internal/usecase/wait"
)

func TestButton_ClickWaitsForEnabled(t *testing.T) {
	s, env := setup(t)
	node := &fake.Node{Disabled: true}
	s.Set(save, node)
	btn := NewButton(env, save)

	err := btn.Click(t.Context())
	require.ErrorIs(t, err, wait.ErrTimeout)
	assert.Contains(t, err.Error(), "'Button' with locator 'By.css: #save' should be enabled")
	assert.Zero(t, node.Clicks)

	node.Disabled = false
	require.NoError(t, btn.Click(t.Context()))
	require.NoError(t, btn.ClickJS(t.Context()))
	require.NoError(t, btn.ScrollToAndClick(t.Context()))
	assert.Equal(t, 2, node.Clicks)
	assert.Equal(t, []string{clickScript}, node.Scripts)
}

func TestSimple_ScrollToAndClick(t *testing.T) {
	s, env := setup(t)
	node := &fake.Node{}
	s.Set(save, node)

	require.NoError(t, NewSimple(env, save).ScrollToAndClick(t.Context()))
	assert.Equal(t, 1, node.Scrolls)
	assert.Equal(t, 1, node.Clicks)
}

func TestCheckbox(t *testing.T) {
	s, env := setup(t)
	node := &fake.Node{OnClick: func(n *fake.Node) { n.Checked = !n.Checked }}
	s.Set(save, node)
	box := NewCheckbox(env, save)

	require.NoError(t, box.Check(t.Context()))
	assert.True(t, node.Checked)
	require.NoError(t, box.Check(t.Context()))
	assert.Equal(t, 1, node.Clicks, "checked box is not clicked again")

	checked, err := box.IsChecked()
	require.NoError(t, err)
	assert.True(t, checked)

	require.NoError(t, box.Uncheck(t.Context()))
	assert.False(t, node.Checked)
	notChecked, err := box.IsNotChecked()
	require.NoError(t, err)
	assert.True(t, notChecked)
}

func TestCheckbox_StuckBoxTimesOut(t *testing.T) {
	s, env := setup(t)
	s.Set(save, &fake.Node{})

	err := NewCheckbox(env, save).Check(t.Context())

	require.ErrorIs(t, err, wait.ErrTimeout)
	assert.Contains(t, err.Error(), "wasn't checked during the timeout")
}

func TestTextInput_SendKeysAndClear(t *testing.T) {
	s, env := setup(t)
	node := &fake.Node{Value: "old"}
	s.Set(save, node)
	in := NewTextInput(env, save)

	require.NoError(t, in.Clear(t.Context()))
	require.NoError(t, in.SendKeys(t.Context(), "alice"))
	require.NoError(t, in.SendEnter(t.Context()))

	v, err := in.Value(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "alice", v)
	assert.Equal(t, []string{"alice", entity.KeyEnter}, node.Keys)

	require.NoError(t, in.SendBackspace(t.Context()))
	v, err = in.ValueJS()
	require.NoError(t, err)
	assert.Equal(t, "alic", v)
}

func TestTextInput_SendKeysSpecialKeys(t *testing.T) {
	s, env := setup(t)
	node := &fake.Node{}
	s.Set(save, node)
	in := NewTextInput(env, save)

	require.NoError(t, in.SelectAll(t.Context()))
	require.NoError(t, in.SendSpace(t.Context()))

	assert.Equal(t, []string{entity.KeyControl + "a", entity.KeySpace}, node.Keys)
}

func TestTextInput_SendKeysOnDisabledFailsFast(t *testing.T) {
	s, env := setup(t)
	node := &fake.Node{Disabled: true}
	s.Set(save, node)

	err := NewTextInput(env, save).SendKeys(t.Context(), "x")

	require.ErrorIs(t, err, ErrNotInteractable)
	assert.NotErrorIs(t, err, wait.ErrTimeout)
	assert.Empty(t, node.Keys)
}

func TestTextInput_JS(t *testing.T) {
	s, env := setup(t)
	node := &fake.Node{Value: "prefilled"}
	node.EvalFunc = func(js string, args ...any) (string, error) {
		if js == setValueScript {
			node.Value = args[0].(string)
			return "null", nil
		}
		b, err := json.Marshal(node.Value)
		return string(b), err
	}
	s.Set(save, node)
	in := NewTextInput(env, save)

	require.NoError(t, in.SendKeysJS(t.Context(), "bob"))
	v, err := in.ValueJS()
	require.NoError(t, err)
	assert.Equal(t, "bob", v)

	require.NoError(t, in.ClearJS(t.Context()))
	assert.Empty(t, node.Value)
}

func TestTextInput_HoverAndClick(t *testing.T) {
	s, env := setup(t)
	node := &fake.Node{}
	s.Set(save, node)

	require.NoError(t, NewTextInput(env, save).HoverAndClick(t.Context()))
	assert.Equal(t, 1, node.Hovers)
	assert.Equal(t, 1, node.Clicks)
}

func countries() *fake.Node {
	return fake.Select(
		&fake.Node{Value: "cz", Text: "Czechia", Checked: true},
		&fake.Node{Value: "sk", Text: "Slovakia"},
		&fake.Node{Value: "at", Text: "Austria"},
	)
}

func TestDropDown(t *testing.T) {
	s, env := setup(t)
	s.Set(save, countries())
	dd := NewDropDown(env, save)

	opts, err := dd.Options()
	require.NoError(t, err)
	assert.Equal(t, map[int]string{0: "Czechia", 1: "Slovakia", 2: "Austria"}, opts)

	require.NoError(t, dd.SelectByValue("sk"))
	text, err := dd.SelectedText()
	require.NoError(t, err)
	assert.Equal(t, "Slovakia", text)

	moved, err := dd.SelectNext()
	require.NoError(t, err)
	assert.True(t, moved)
	v, err := dd.SelectedValue(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "at", v)

	moved, err = dd.SelectNext()
	require.NoError(t, err)
	assert.False(t, moved)

	require.NoError(t, dd.SelectFirst())
	require.NoError(t, dd.SelectByText("Austria"))
	require.NoError(t, dd.SelectLast())
	require.NoError(t, dd.SelectByIndex(1))
	text, err = dd.SelectedText()
	require.NoError(t, err)
	assert.Equal(t, "Slovakia", text)

	assert.ErrorIs(t, dd.SelectByText("Poland"), output.ErrNoSuchElement)
}

func TestCollect(t *testing.T) {
	s, env := setup(t)
	rows := entity.ByXPath(".//tr")
	table := &fake.Node{}
	for i, name := range []string{"first", "second", "third"} {
		row := &fake.Node{Text: name}
		nth, err := rows.Nth(i + 1)
		require.NoError(t, err)
		table.Add(rows, row)
		table.Add(nth, row)
	}
	s.Set(save, table)

	got, err := Collect(New(env, save), rows, NewSimple)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "(.//tr)[2]", got[1].Locator.Expression())
	assert.Equal(t, "Simple", got[1].Name())

	text, err := got[1].Text(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "second", text)
}

func TestCollect_RequiresXPath(t *testing.T) {
	_, env := setup(t)

	_, err := Collect(New(env, save), entity.ByCSS("tr"), NewButton)

	assert.ErrorIs(t, err, entity.ErrUnsupportedLocator)
}
