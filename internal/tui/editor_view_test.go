package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/riskdesk/internal/models"
	"github.com/tOgg1/riskdesk/internal/selection"
	"github.com/tOgg1/riskdesk/internal/tui/styles"
)

func newTestEditor(t *testing.T, env *testEnv, hints selection.Hints) *editorView {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	v := newEditorView(ctx, env.client, env.store, env.notifier)
	v.SetHints(hints)
	drain(t, v.Update, v.Init())
	return v
}

func TestEditorDuplicateNameShowsBanner(t *testing.T) {
	env := newTestEnv(t)
	env.store.SetTopics([]models.Topic{{ID: "t1", Name: "Q1 Risk", ProfileID: "p1"}})
	v := newTestEditor(t, env, selection.Hints{ProfileID: "p1"})
	require.Equal(t, "p1", v.profileID)

	v.Update(typeText(" q1 risk "))
	cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.ErrorIs(t, v.err, models.ErrDuplicateName)
	require.Contains(t, v.View(100, 30, styles.DefaultTheme), models.ErrDuplicateName.Error())
	require.Zero(t, env.srv.CountRequests("POST /teams"))

	require.Nil(t, v.Update(tea.KeyMsg{Type: tea.KeyEsc}))
	require.NoError(t, v.err)

	cmd = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	require.IsType(t, popViewMsg{}, cmd())
}

func TestEditorRequiresName(t *testing.T) {
	env := newTestEnv(t)
	v := newTestEditor(t, env, selection.Hints{ProfileID: "p1"})

	require.Nil(t, v.Update(tea.KeyMsg{Type: tea.KeyCtrlS}))
	require.ErrorIs(t, v.err, models.ErrNameRequired)
}

func TestEditorSubmitCreatesAndSelectsTopic(t *testing.T) {
	env := newTestEnv(t)
	v := newTestEditor(t, env, selection.Hints{ProfileID: "p2", ProfileName: "Globex"})
	require.Len(t, v.companies, 2)

	v.Update(typeText("Vendors"))
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusCompanies, v.focus)
	require.False(t, v.CapturesKeys())

	v.Update(runeKey('j'))
	v.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.Equal(t, []string{"c2"}, v.tracker.Selected())

	cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	require.True(t, v.submitting)

	submitted, ok := cmd().(topicSubmittedMsg)
	require.True(t, ok)
	require.NoError(t, submitted.err)
	require.Equal(t, "Vendors", submitted.topic.Name)

	require.NotNil(t, v.Update(submitted))
	require.False(t, v.submitting)

	st := env.store.Snapshot()
	require.Equal(t, "p2", st.CurrentProfileID)
	require.Equal(t, submitted.topic.ID, st.Topics[0].ID)

	payloads := env.srv.CreatedPayloads()
	require.Len(t, payloads, 1)
	require.Equal(t, []interface{}{"c2"}, payloads[0]["pokemonIds"])
}

func TestEditorCyclesProfiles(t *testing.T) {
	env := newTestEnv(t)
	v := newTestEditor(t, env, selection.Hints{ProfileID: "p1"})

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusProfile, v.focus)
	v.Update(runeKey('l'))
	require.Equal(t, "p2", v.profileID)
	v.Update(runeKey('l'))
	require.Equal(t, "p1", v.profileID)
	v.Update(runeKey('h'))
	require.Equal(t, "p2", v.profileID)
	require.Equal(t, "Globex", v.profileLabel())
}
