package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tOgg1/riskdesk/internal/api"
	"github.com/tOgg1/riskdesk/internal/api/apitest"
	"github.com/tOgg1/riskdesk/internal/models"
	"github.com/tOgg1/riskdesk/internal/notify"
	"github.com/tOgg1/riskdesk/internal/selection"
	"github.com/tOgg1/riskdesk/internal/tui/styles"
)

type testEnv struct {
	srv      *apitest.Server
	client   *api.Client
	store    *selection.Store
	notifier *notify.Notifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	srv := apitest.NewServer(t)
	srv.AddProfiles(models.Profile{ID: "p1", Name: "Acme"}, models.Profile{ID: "p2", Name: "Globex"})
	srv.AddTopics(
		models.Topic{ID: "t1", Name: "Q1 Risk", ProfileID: "p1"},
		models.Topic{ID: "t2", Name: "Supply", ProfileID: "p2"},
	)
	srv.AddCompanies(models.Company{ID: "c1", Name: "Acme Corp"}, models.Company{ID: "c2", Name: "Globex Inc"})
	srv.SetCompanyNames("t2", "Globex Inc")

	client, err := api.NewClient(api.Config{BaseURL: srv.BaseURL()})
	require.NoError(t, err)
	n := notify.New(notify.WithLogger(zerolog.Nop()))
	t.Cleanup(n.Close)
	return &testEnv{srv: srv, client: client, store: selection.NewStore(), notifier: n}
}

func (e *testEnv) newModel(t *testing.T, hints selection.Hints) *Model {
	t.Helper()
	model, err := NewModel(Config{Backend: e.client, Store: e.store, Notifier: e.notifier, Hints: hints})
	require.NoError(t, err)
	t.Cleanup(model.Close)
	return model
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeText(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func applyUpdate(t *testing.T, model *Model, msg tea.Msg) (*Model, tea.Cmd) {
	t.Helper()
	next, cmd := model.Update(msg)
	out, ok := next.(*Model)
	require.True(t, ok)
	return out, cmd
}

// drain runs cmd and feeds its messages back into update until nothing is
// left. Batches fan out; messages from other components are skipped.
func drain(t *testing.T, update func(tea.Msg) tea.Cmd, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 32; steps++ {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		switch typed := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, typed...)
		default:
			if !isViewMsg(msg) {
				continue
			}
			queue = append(queue, update(msg))
		}
	}
}

func isViewMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case profilesLoadedMsg, companiesLoadedMsg, topicsLoadedMsg, namesLoadedMsg, topicSubmittedMsg,
		pushViewMsg, popViewMsg, topicCreatedMsg:
		return true
	}
	return false
}

func TestNewModelRequiresBackendAndStore(t *testing.T) {
	_, err := NewModel(Config{Store: selection.NewStore()})
	require.Error(t, err)

	env := newTestEnv(t)
	_, err = NewModel(Config{Backend: env.client})
	require.Error(t, err)

	_, err = NewModel(Config{Backend: env.client, Store: env.store, Theme: "neon"})
	require.Error(t, err)
}

func TestStartViewFollowsHints(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, ViewProfiles, env.newModel(t, selection.Hints{}).activeViewID())

	env2 := newTestEnv(t)
	require.Equal(t, ViewTopics, env2.newModel(t, selection.Hints{TopicID: "t2"}).activeViewID())
}

func TestProfilesEnterPushesTopicsWithHints(t *testing.T) {
	env := newTestEnv(t)
	model := env.newModel(t, selection.Hints{})

	drain(t, func(msg tea.Msg) tea.Cmd {
		var cmd tea.Cmd
		model, cmd = applyUpdate(t, model, msg)
		return cmd
	}, model.Init())

	model, _ = applyUpdate(t, model, runeKey('j'))
	model, cmd := applyUpdate(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	push, ok := msg.(pushViewMsg)
	require.True(t, ok)
	require.Equal(t, ViewTopics, push.id)
	require.Equal(t, selection.Hints{ProfileName: "Globex", ProfileID: "p2"}, push.hints)
	require.Equal(t, "p2", env.store.Snapshot().CurrentProfileID)
	require.Equal(t, "p2", model.state.CurrentProfileID)

	model, cmd = applyUpdate(t, model, msg)
	require.Equal(t, ViewTopics, model.activeViewID())
	drain(t, func(msg tea.Msg) tea.Cmd {
		var next tea.Cmd
		model, next = applyUpdate(t, model, msg)
		return next
	}, cmd)

	topicsView := model.views[ViewTopics].(*topicsView)
	displayed := topicsView.browser.Displayed()
	require.Len(t, displayed, 1)
	require.Equal(t, "t2", displayed[0].ID)

	model.width, model.height = 120, 30
	require.Contains(t, model.View(), "Supply")
	require.Contains(t, model.renderHeader(), "profile p2")
}

func TestQuitKeyIgnoredWhileTyping(t *testing.T) {
	env := newTestEnv(t)
	model := env.newModel(t, selection.Hints{})

	_, handled := model.handleGlobalKey(runeKey('q'))
	require.True(t, handled)

	model, _ = applyUpdate(t, model, pushViewMsg{id: ViewEditor, hints: selection.Hints{ProfileID: "p1"}})
	require.Equal(t, ViewEditor, model.activeViewID())
	_, handled = model.handleGlobalKey(runeKey('q'))
	require.False(t, handled)

	model, _ = applyUpdate(t, model, runeKey('q'))
	require.Equal(t, "q", model.views[ViewEditor].(*editorView).name.Value())
}

func TestErrorTextPrefersServerMessage(t *testing.T) {
	require.Equal(t, "Name taken", errorText(&models.RemoteRequestError{Op: "create topic", Message: "Name taken"}))
	require.Equal(t, "name is required", errorText(&models.ValidationError{Field: "name", Message: "name is required"}))
	require.Equal(t, "boom", errorText(errors.New("boom")))
	require.Empty(t, errorText(nil))
}

func TestTruncateVis(t *testing.T) {
	require.Equal(t, "abc", truncateVis("abc", 5))
	require.Equal(t, "ab…", truncateVis("abcdef", 3))
	require.Empty(t, truncateVis("abc", 0))
}

func TestViewsRenderWithoutSize(t *testing.T) {
	env := newTestEnv(t)
	model := env.newModel(t, selection.Hints{})
	for _, view := range model.views {
		require.Empty(t, view.View(0, 0, styles.DefaultTheme))
	}
}
